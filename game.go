package main

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/swift2d/swift/assets"
	"github.com/swift2d/swift/config"
	"github.com/swift2d/swift/world"
)

// Game drives the simulation at a fixed tick rate and owns the shared
// asset manager, the active world, and the resource hot-reload watcher.
type Game struct {
	settings *config.Settings
	assets   *assets.Manager
	world    *world.World
	watcher  *assets.Watcher

	tickDT float64
}

// NewGame loads resources, restores the configured world, and starts
// watching the resource tree for changes.
func NewGame(settings *config.Settings) *Game {
	am := assets.NewManager()
	if err := am.LoadResourceFolder(settings.ResourcesDir); err != nil {
		log.Printf("game: %v", err)
	}

	size := cp.Vector{X: settings.World.Width, Y: settings.World.Height}
	w := world.NewWorld(settings.World.Name, size, am, settings.SavesDir)
	if err := w.Load(); err != nil {
		// first run or a broken save; start from an empty world
		log.Printf("game: %v", err)
	}

	watcher, err := assets.NewWatcher(settings.ResourcesDir)
	if err != nil {
		log.Printf("game: resource watcher disabled: %v", err)
		watcher = nil
	}

	return &Game{
		settings: settings,
		assets:   am,
		world:    w,
		watcher:  watcher,
		tickDT:   1.0 / float64(settings.TickRate),
	}
}

// Update runs one fixed simulation tick and applies any pending
// resource reloads beforehand.
func (g *Game) Update() error {
	g.drainWatcher()
	g.world.Update(g.tickDT)
	return nil
}

// Draw renders the world. Ticks and frames are aligned, so the world is
// drawn at its end-of-tick state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.world.Draw(screen, 1)
}

// Layout reports the fixed render size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.settings.Width, g.settings.Height
}

// Close saves the world and stops the watcher.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.world.Close(); err != nil {
		log.Printf("game: %v", err)
	}
}

func (g *Game) drainWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			if err := g.assets.Reload(path); err != nil {
				log.Printf("game: reload %s: %v", path, err)
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			log.Printf("game: watcher: %v", err)
		default:
			return
		}
	}
}

package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/swift2d/swift/config"
)

func main() {
	configPath := flag.String("config", "data/settings.yaml", "path to the settings file")
	worldName := flag.String("world", "", "world name override")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Printf("using default settings: %v", err)
		settings = config.Default()
	}
	if *worldName != "" {
		settings.World.Name = *worldName
	}

	ebiten.SetWindowSize(settings.Width, settings.Height)
	ebiten.SetWindowTitle(settings.Title)
	ebiten.SetFullscreen(settings.Fullscreen)
	ebiten.SetTPS(settings.TickRate)

	game := NewGame(settings)
	defer game.Close()

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

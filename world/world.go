package world

import (
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"

	"github.com/swift2d/swift/assets"
	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/system"
	"github.com/swift2d/swift/script"
)

// World owns the entity collection and the fixed system order for one
// simulated area, tracks which shared scripts are attached to it, and is
// the unit of persistence. Scripts stay owned by the asset manager; the
// world only holds references and maintains the back-reference contract.
type World struct {
	name   string
	size   cp.Vector
	assets *assets.Manager

	entities []*ecs.Entity
	systems  []ecs.System
	physical *system.PhysicalSystem

	scripts     map[string]*script.Script
	scriptOrder []string

	savesDir string
	closed   bool
}

// NewWorld creates an empty world. Systems run in the engine's canonical
// order: movement, physical, drawable. Saves are written to
// <savesDir>/<name>.world.
func NewWorld(name string, size cp.Vector, am *assets.Manager, savesDir string) *World {
	physical := system.NewPhysicalSystem()
	return &World{
		name:   name,
		size:   size,
		assets: am,
		systems: []ecs.System{
			system.NewMovementSystem(),
			physical,
			system.NewDrawableSystem(),
		},
		physical: physical,
		scripts:  map[string]*script.Script{},
		savesDir: savesDir,
	}
}

// Name returns the world's name.
func (w *World) Name() string {
	return w.name
}

// Size returns the world's bounded extent.
func (w *World) Size() cp.Vector {
	return w.size
}

// Update advances the simulation by dt: every system runs over the live
// entity collection in fixed order, then every attached script gets
// exactly one update. Scripts that report completion are collected
// during the scan and detached only afterwards, so the attachment
// mapping is never mutated while it is being walked.
func (w *World) Update(dt float64) {
	for _, s := range w.systems {
		s.Update(w.entities, dt)
	}

	var doneScripts []string
	for _, name := range w.scriptOrder {
		s := w.scripts[name]

		// repair stale attachment before the tick reaches the script
		if s.World() != script.World(w) {
			s.SetWorld(w)
		}

		s.Update()

		if s.IsDone() {
			doneScripts = append(doneScripts, name)
		}
	}

	for _, name := range doneScripts {
		w.RemoveScript(name)
	}
}

// Draw renders the world's entities through every draw-capable system.
// interpolation is the fractional progress into the current tick.
func (w *World) Draw(target *ebiten.Image, interpolation float64) {
	for _, s := range w.systems {
		if ds, ok := s.(ecs.DrawSystem); ok {
			ds.Draw(w.entities, interpolation, target)
		}
	}
}

// AddEntity creates an empty entity owned by this world.
func (w *World) AddEntity() *ecs.Entity {
	e := ecs.NewEntity()
	w.entities = append(w.entities, e)
	return e
}

// RemoveEntity destroys the entity at index i. A negative index counts
// from the end of the collection.
func (w *World) RemoveEntity(i int) bool {
	if i >= len(w.entities) || len(w.entities)+i < 0 {
		return false
	}
	if i < 0 {
		i += len(w.entities)
	}
	w.entities = append(w.entities[:i], w.entities[i+1:]...)
	return true
}

// Entities returns the live entity collection.
func (w *World) Entities() []*ecs.Entity {
	return w.entities
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return len(w.entities)
}

// Collisions returns the overlaps the physical system detected during
// the latest tick.
func (w *World) Collisions() []system.Collision {
	return w.physical.Collisions()
}

// AddScript attaches the named script from the asset manager. It
// returns false when the script is already attached or cannot be found.
func (w *World) AddScript(name string) bool {
	if _, ok := w.scripts[name]; ok {
		return false
	}
	s, err := w.assets.Script(name)
	if err != nil {
		log.Printf("world %s: %v", w.name, err)
		return false
	}
	w.scripts[name] = s
	w.scriptOrder = append(w.scriptOrder, name)
	s.SetWorld(w)
	return true
}

// RemoveScript detaches the named script if it is attached, clearing its
// world back-reference.
func (w *World) RemoveScript(name string) bool {
	s, ok := w.scripts[name]
	if !ok {
		return false
	}
	delete(w.scripts, name)
	for i, n := range w.scriptOrder {
		if n == name {
			w.scriptOrder = append(w.scriptOrder[:i], w.scriptOrder[i+1:]...)
			break
		}
	}
	if s.World() == script.World(w) {
		s.SetWorld(nil)
	}
	return true
}

// HasScript reports whether the named script is attached.
func (w *World) HasScript(name string) bool {
	_, ok := w.scripts[name]
	return ok
}

// ScriptCount returns the number of attached scripts.
func (w *World) ScriptCount() int {
	return len(w.scripts)
}

// Close saves the world and tears it down. Every attached script's
// world back-reference is cleared before the entity collection is
// dropped, so script logic can never touch a half-destroyed world.
func (w *World) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	err := w.Save()
	if err != nil {
		log.Printf("world %s: save on close: %v", w.name, err)
	}

	for _, s := range w.scripts {
		s.SetWorld(nil)
	}
	w.scripts = map[string]*script.Script{}
	w.scriptOrder = nil

	w.entities = nil
	return err
}

package world

import (
	"github.com/jakecoffman/cp"

	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
)

// EntitiesAround returns the entities whose physical position lies
// within radius of pos, boundary included. A pos outside the world's
// extent or a non-positive radius short-circuits to an empty result
// without inspecting entities.
func (w *World) EntitiesAround(pos cp.Vector, radius float64) []*ecs.Entity {
	var around []*ecs.Entity

	if !(0 <= pos.X && pos.X < w.size.X && 0 <= pos.Y && pos.Y < w.size.Y) || radius <= 0 {
		return around
	}

	for _, e := range w.entities {
		if !e.Has(component.TagPhysical) {
			continue
		}
		p := ecs.MustGet[*component.Physical](e, component.TagPhysical)
		if p.Position.Distance(pos) <= radius {
			around = append(around, e)
		}
	}

	return around
}

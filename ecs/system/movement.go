package system

import (
	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
)

// MovementSystem integrates velocity into position for entities that
// are both movable and physical.
type MovementSystem struct{}

// NewMovementSystem creates a MovementSystem.
func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

// Update advances positions by velocity scaled with dt.
func (s *MovementSystem) Update(entities []*ecs.Entity, dt float64) {
	for _, e := range entities {
		if !e.Has(component.TagMovable, component.TagPhysical) {
			continue
		}
		movable := ecs.MustGet[*component.Movable](e, component.TagMovable)
		physical := ecs.MustGet[*component.Physical](e, component.TagPhysical)

		physical.Position = physical.Position.Add(movable.Velocity.Mult(dt))
	}
}

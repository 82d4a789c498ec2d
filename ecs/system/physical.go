package system

import (
	"github.com/jakecoffman/cp"

	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
)

// Collision records an overlapping pair of physical entities for one tick.
type Collision struct {
	A *ecs.Entity
	B *ecs.Entity
}

// PhysicalSystem detects pairwise overlaps between the bounding boxes of
// physical entities. The collision set is rebuilt every tick.
type PhysicalSystem struct {
	collisions []Collision
}

// NewPhysicalSystem creates a PhysicalSystem.
func NewPhysicalSystem() *PhysicalSystem {
	return &PhysicalSystem{}
}

// Update rebuilds the collision set for this tick.
func (s *PhysicalSystem) Update(entities []*ecs.Entity, dt float64) {
	s.collisions = s.collisions[:0]

	physicals := make([]*ecs.Entity, 0, len(entities))
	boxes := make([]cp.BB, 0, len(entities))
	for _, e := range entities {
		if !e.Has(component.TagPhysical) {
			continue
		}
		physicals = append(physicals, e)
		boxes = append(boxes, ecs.MustGet[*component.Physical](e, component.TagPhysical).BB())
	}

	for i := 0; i < len(physicals); i++ {
		for j := i + 1; j < len(physicals); j++ {
			if boxes[i].Intersects(boxes[j]) {
				s.collisions = append(s.collisions, Collision{A: physicals[i], B: physicals[j]})
			}
		}
	}
}

// Collisions returns the overlaps detected by the latest Update.
func (s *PhysicalSystem) Collisions() []Collision {
	if s == nil {
		return nil
	}
	return s.collisions
}

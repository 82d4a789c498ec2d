package ecs

import "github.com/hajimehoshi/ebiten/v2"

// System is a per-tick transform over the live entity collection. A
// system reads and writes only the component types it declares interest
// in and skips entities lacking them. Systems run in a single fixed
// order chosen by the owning world.
type System interface {
	Update(entities []*Entity, dt float64)
}

// DrawSystem is a system that additionally renders entities. Draw is
// side-effect-only with respect to simulation state; interpolation is
// the fractional progress into the current tick, in [0,1], used for
// frame smoothing between fixed ticks.
type DrawSystem interface {
	System
	Draw(entities []*Entity, interpolation float64, target *ebiten.Image)
}

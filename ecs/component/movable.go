package component

import "github.com/jakecoffman/cp"

// TagMovable is the type tag of the Movable component.
const TagMovable = "Movable"

// Movable carries the current velocity and the entity's base move speed.
type Movable struct {
	Velocity  cp.Vector
	MoveSpeed float64
}

func init() {
	Register(TagMovable, func() Component { return &Movable{} })
}

func (m *Movable) TypeTag() string {
	return TagMovable
}

func (m *Movable) Serialize() map[string]string {
	return map[string]string{
		"velX":      formatFloat(m.Velocity.X),
		"velY":      formatFloat(m.Velocity.Y),
		"moveSpeed": formatFloat(m.MoveSpeed),
	}
}

func (m *Movable) Unserialize(variables map[string]string) {
	parseFloat(variables, "velX", &m.Velocity.X)
	parseFloat(variables, "velY", &m.Velocity.Y)
	parseFloat(variables, "moveSpeed", &m.MoveSpeed)
}

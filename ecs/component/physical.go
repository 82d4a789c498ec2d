package component

import "github.com/jakecoffman/cp"

// TagPhysical is the type tag of the Physical component.
const TagPhysical = "Physical"

// Physical gives an entity a position and an extent in world space.
type Physical struct {
	Position cp.Vector
	Size     cp.Vector
}

func init() {
	Register(TagPhysical, func() Component { return &Physical{} })
}

func (p *Physical) TypeTag() string {
	return TagPhysical
}

// BB returns the axis-aligned bounding box spanned by position and size.
func (p *Physical) BB() cp.BB {
	return cp.BB{
		L: p.Position.X,
		B: p.Position.Y,
		R: p.Position.X + p.Size.X,
		T: p.Position.Y + p.Size.Y,
	}
}

func (p *Physical) Serialize() map[string]string {
	return map[string]string{
		"posX":  formatFloat(p.Position.X),
		"posY":  formatFloat(p.Position.Y),
		"sizeX": formatFloat(p.Size.X),
		"sizeY": formatFloat(p.Size.Y),
	}
}

func (p *Physical) Unserialize(variables map[string]string) {
	parseFloat(variables, "posX", &p.Position.X)
	parseFloat(variables, "posY", &p.Position.Y)
	parseFloat(variables, "sizeX", &p.Size.X)
	parseFloat(variables, "sizeY", &p.Size.Y)
}

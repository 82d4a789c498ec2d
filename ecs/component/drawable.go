package component

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// TagDrawable is the type tag of the Drawable component.
const TagDrawable = "Drawable"

// Drawable names a texture and tracks the positions needed to render an
// entity smoothly between fixed ticks. Only the texture name is
// persisted; the image is re-resolved through the asset manager after
// load. A drawable with no resolved image is treated as pending and
// skipped by the draw pass.
type Drawable struct {
	Texture string

	image   *ebiten.Image
	pos     cp.Vector
	lastPos cp.Vector
	tracked bool
}

func init() {
	Register(TagDrawable, func() Component { return &Drawable{} })
}

func (d *Drawable) TypeTag() string {
	return TagDrawable
}

// SetImage attaches the resolved texture image.
func (d *Drawable) SetImage(img *ebiten.Image) {
	d.image = img
}

// Image returns the resolved texture image, or nil while pending.
func (d *Drawable) Image() *ebiten.Image {
	return d.image
}

// Advance records the simulated position for the current tick, keeping
// the previous tick's position for interpolation.
func (d *Drawable) Advance(pos cp.Vector) {
	if !d.tracked {
		d.lastPos = pos
		d.tracked = true
	} else {
		d.lastPos = d.pos
	}
	d.pos = pos
}

// RenderPosition returns the draw position for an interpolation factor
// in [0,1] between the previous and current tick positions.
func (d *Drawable) RenderPosition(interpolation float64) cp.Vector {
	return d.lastPos.Lerp(d.pos, interpolation)
}

func (d *Drawable) Serialize() map[string]string {
	variables := map[string]string{}
	if d.Texture != "" {
		variables["texture"] = d.Texture
	}
	return variables
}

func (d *Drawable) Unserialize(variables map[string]string) {
	if texture, ok := variables["texture"]; ok && texture != "" {
		d.Texture = texture
	}
}

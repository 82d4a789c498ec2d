package system

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/swift2d/swift/ecs"
	"github.com/swift2d/swift/ecs/component"
)

// DrawableSystem keeps drawables in sync with their physical position
// during the tick and renders them between ticks at an interpolated
// position.
type DrawableSystem struct{}

// NewDrawableSystem creates a DrawableSystem.
func NewDrawableSystem() *DrawableSystem {
	return &DrawableSystem{}
}

// Update records the post-simulation position of every drawable entity.
func (s *DrawableSystem) Update(entities []*ecs.Entity, dt float64) {
	for _, e := range entities {
		if !e.Has(component.TagDrawable, component.TagPhysical) {
			continue
		}
		drawable := ecs.MustGet[*component.Drawable](e, component.TagDrawable)
		physical := ecs.MustGet[*component.Physical](e, component.TagPhysical)

		drawable.Advance(physical.Position)
	}
}

// Draw renders every drawable entity whose texture has been resolved.
// Pending drawables are skipped until the asset manager supplies an
// image.
func (s *DrawableSystem) Draw(entities []*ecs.Entity, interpolation float64, target *ebiten.Image) {
	if target == nil {
		return
	}
	if interpolation < 0 {
		interpolation = 0
	} else if interpolation > 1 {
		interpolation = 1
	}

	for _, e := range entities {
		if !e.Has(component.TagDrawable) {
			continue
		}
		drawable := ecs.MustGet[*component.Drawable](e, component.TagDrawable)
		img := drawable.Image()
		if img == nil {
			continue
		}

		pos := drawable.RenderPosition(interpolation)
		opts := &ebiten.DrawImageOptions{}
		opts.GeoM.Translate(pos.X, pos.Y)
		target.DrawImage(img, opts)
	}
}

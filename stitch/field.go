package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// Field is the interpreted normal map: a preferred stitch direction and a
// blend coefficient per pixel. Directions live in field space where the
// origin is the canvas center and y points up.
type Field struct {
	Width, Height int

	dirs  []stitchpaint.Vec2
	blend []float64
}

// NewField interprets the normal map. Unless useMapBlend is set the blue
// channel is replaced by 255*(blend*0.5+0.5) before interpretation.
func NewField(normal *stitchpaint.Pixmap, blend float64, useMapBlend bool) *Field {
	f := &Field{
		Width:  normal.Width,
		Height: normal.Height,
		dirs:   make([]stitchpaint.Vec2, len(normal.Pix)),
		blend:  make([]float64, len(normal.Pix)),
	}
	override := uint8(255 * clamp(blend*0.5+0.5, 0, 1))
	for i, p := range normal.Pix {
		f.dirs[i] = stitchpaint.NormalToField(p)
		b := p.B
		if !useMapBlend {
			b = override
		}
		f.blend[i] = clamp((float64(b)-128)/128, 0, 1)
	}
	return f
}

func (f *Field) index(p stitchpaint.Vec2) int {
	x, y := p.Floor()
	x = min(max(x, 0), f.Width-1)
	y = min(max(y, 0), f.Height-1)
	return y*f.Width + x
}

// Dir returns the preferred direction at the pixel under p. The zero
// vector means no preference.
func (f *Field) Dir(p stitchpaint.Vec2) stitchpaint.Vec2 {
	return f.dirs[f.index(p)]
}

// Blend returns the weight of the turn cost at the pixel under p.
func (f *Field) Blend(p stitchpaint.Vec2) float64 {
	return f.blend[f.index(p)]
}

// ToField converts screen coordinates into field space.
func (f *Field) ToField(p stitchpaint.Vec2) stitchpaint.Vec2 {
	return stitchpaint.V(p.X-float64(f.Width/2), float64(f.Height/2)-p.Y)
}

// Alignment returns |cos| between the edge and the field direction at its
// start. ok is false where the field has no direction.
func (f *Field) Alignment(e Edge) (a float64, ok bool) {
	n := f.Dir(e.U)
	if n.IsZero() {
		return 0, false
	}
	d := f.ToField(e.V).Sub(f.ToField(e.U))
	return math.Abs(stitchpaint.Cosine(d, n)), true
}

// Contains reports whether p lies on the canvas.
func (f *Field) Contains(p stitchpaint.Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X < float64(f.Width) && p.Y < float64(f.Height)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

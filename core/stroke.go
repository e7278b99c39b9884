package stitchpaint

const (
	// MinStrokeLength is the shortest stroke which still encodes a direction.
	MinStrokeLength = 10
	// MaxBlendStrokeLength is the stroke length reaching the full blend value.
	MaxBlendStrokeLength = 100
)

// StrokeMode selects which channels a stroke paints.
type StrokeMode int

const (
	// StrokeDirection paints the stroke direction into the red and green channels.
	StrokeDirection StrokeMode = iota
	// StrokeBlend keeps the direction and sets the blue (blend) channel from the stroke length.
	StrokeBlend
)

// Stroke is a user drag from a start to an end point. The site created by
// the stroke sits at its start.
type Stroke struct {
	From     Vec2
	To       Vec2
	Polarity bool
	Mode     StrokeMode
	// Density overrides the default stitch density when non zero.
	Density uint8
}

// Color returns the normal map color painted by the stroke. base is the
// color kept by blend strokes.
func (s Stroke) Color(base Pixel) Pixel {
	d := s.To.Sub(s.From)
	switch {
	case s.Mode == StrokeBlend:
		t := clamp01(InverseLerp(0, MaxBlendStrokeLength*MaxBlendStrokeLength, d.SqrLen()))
		return Pixel{R: base.R, G: base.G, B: uint8(Lerp(128, 255, t))}
	case d.SqrLen() < MinStrokeLength*MinStrokeLength:
		return NeutralPixel
	default:
		return DirectionToHalfNormal(d, s.Polarity)
	}
}

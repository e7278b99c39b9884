package stitchpaint

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// minEncodeMagnitude is the smallest vector magnitude which still encodes a direction.
const minEncodeMagnitude = 1e-3

// DirectionToNormal encodes a screen space direction into a full range
// normal map color. Both axes use the [0, 255] range, y is flipped so that
// up on screen maps to a bright green channel.
func DirectionToNormal(dir Vec2) Pixel {
	mag := dir.Len()
	if mag < minEncodeMagnitude {
		return NeutralPixel
	}
	n := dir.Div(mag)
	return Pixel{
		R: uint8(Lerp(0, 255, InverseLerp(-1, 1, n.X))),
		G: uint8(Lerp(0, 255, InverseLerp(-1, 1, -n.Y))),
		B: 128,
	}
}

// DirectionToHalfNormal encodes an undirected screen space direction into a
// half range normal map color. Opposite directions produce the same color.
// With positive polarity the red channel spans [128, 255], otherwise [128, 0].
func DirectionToHalfNormal(dir Vec2, positive bool) Pixel {
	mag := dir.Len()
	if mag < minEncodeMagnitude {
		return NeutralPixel
	}
	n := dir.Div(mag)
	if n.X < 0 {
		n.Y = -n.Y
	}
	n.X = math.Abs(n.X)

	var r, gy float64
	if positive {
		r, gy = Lerp(128, 255, n.X), -n.Y
	} else {
		r, gy = Lerp(128, 0, n.X), n.Y
	}
	return Pixel{
		R: uint8(r),
		G: uint8(Lerp(0, 255, InverseLerp(-1, 1, gy))),
		B: 128,
	}
}

// HalfNormalToDirection decodes a half range normal map color back into a
// unit screen space direction with a non-negative x component.
func HalfNormalToDirection(p Pixel, positive bool) Vec2 {
	var x, y float64
	gy := Lerp(-1, 1, float64(p.G)/255)
	if positive {
		x = InverseLerp(128, 255, math.Max(128, float64(p.R)))
		y = -gy
	} else {
		x = InverseLerp(128, 0, math.Min(128, float64(p.R)))
		y = gy
	}
	return Vec2{x, y}.Normalize()
}

// NormalToField decodes a normal map color into a direction in field space
// (y pointing up). The unpainted center color (128, 128) has no direction.
func NormalToField(p Pixel) Vec2 {
	if p.R == 128 && p.G == 128 {
		return Vec2{}
	}
	v := Vec2{2*float64(p.R)/255 - 1, 2*float64(p.G)/255 - 1}
	if v.IsZero() {
		return v
	}
	return v.Normalize()
}

// HSVToPixel converts a hue in degrees, saturation and value in [0, 1] into a pixel.
func HSVToPixel(h, s, v float64) Pixel {
	r, g, b := colorful.Hsv(math.Mod(h, 360), s, v).Clamped().RGB255()
	return Pixel{R: r, G: g, B: b}
}

// PixelToHSV returns the hue in degrees, saturation and value of a pixel.
func PixelToHSV(p Pixel) (h, s, v float64) {
	c := colorful.Color{R: float64(p.R) / 255, G: float64(p.G) / 255, B: float64(p.B) / 255}
	return c.Hsv()
}

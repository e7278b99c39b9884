package stitchpaint

import "math"

// Vec2 is a 2D floating point vector. Screen coordinates have y pointing down.
type Vec2 struct {
	X, Y float64
}

// V is a shorthand constructor for Vec2.
func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (a Vec2) Add(b Vec2) Vec2 { return Vec2{a.X + b.X, a.Y + b.Y} }
func (a Vec2) Sub(b Vec2) Vec2 { return Vec2{a.X - b.X, a.Y - b.Y} }
func (a Vec2) Mul(s float64) Vec2 { return Vec2{a.X * s, a.Y * s} }
func (a Vec2) Div(s float64) Vec2 { return Vec2{a.X / s, a.Y / s} }
func (a Vec2) Dot(b Vec2) float64 { return a.X*b.X + a.Y*b.Y }
func (a Vec2) Cross(b Vec2) float64 { return a.X*b.Y - a.Y*b.X }
func (a Vec2) SqrLen() float64 { return a.X*a.X + a.Y*a.Y }
func (a Vec2) Len() float64 { return math.Hypot(a.X, a.Y) }
func (a Vec2) Dist(b Vec2) float64 { return a.Sub(b).Len() }
func (a Vec2) SqrDist(b Vec2) float64 { return a.Sub(b).SqrLen() }

// Angle returns the direction of the vector in radians, in (-π, π].
func (a Vec2) Angle() float64 { return math.Atan2(a.Y, a.X) }

// IsZero reports whether both components are exactly zero.
func (a Vec2) IsZero() bool { return a.X == 0 && a.Y == 0 }

// Normalize returns the unit vector of a, or the zero vector when the
// magnitude is below 1e-9.
func (a Vec2) Normalize() Vec2 {
	l := a.Len()
	if l < 1e-9 {
		return Vec2{}
	}
	return a.Div(l)
}

// Rotate rotates the vector counter-clockwise by theta radians.
func (a Vec2) Rotate(theta float64) Vec2 {
	s, c := math.Sincos(theta)
	return Vec2{a.X*c - a.Y*s, a.X*s + a.Y*c}
}

// Perp returns the vector rotated by 90 degrees.
func (a Vec2) Perp() Vec2 { return Vec2{-a.Y, a.X} }

// Floor rounds both components down.
func (a Vec2) Floor() (int, int) {
	return int(math.Floor(a.X)), int(math.Floor(a.Y))
}

// LerpVec interpolates between two points.
func LerpVec(a, b Vec2, t float64) Vec2 {
	return Vec2{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t)}
}

// Cosine returns the cosine of the angle between a and b, or 0 when either
// vector has no direction.
func Cosine(a, b Vec2) float64 {
	la, lb := a.Len(), b.Len()
	if la < 1e-9 || lb < 1e-9 {
		return 0
	}
	return a.Dot(b) / (la * lb)
}

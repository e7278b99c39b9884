package stitchpaint

import "math"

// TriangleTolerance is how far below zero a barycentric coordinate may drop
// for a point to still count as inside the triangle.
const TriangleTolerance = -0.013

// Barycentric returns the barycentric coordinates of p with respect to the
// triangle (a, b, c). The last return value is false for degenerate triangles.
func Barycentric(a, b, c, p Vec2) (u, v, w float64, ok bool) {
	v0, v1, v2 := b.Sub(a), c.Sub(a), p.Sub(a)
	den := v0.Cross(v1)
	if math.Abs(den) < 1e-9 {
		return 0, 0, 0, false
	}
	inv := 1 / den
	v = v2.Cross(v1) * inv
	w = v0.Cross(v2) * inv
	u = 1 - v - w
	return u, v, w, true
}

// InTriangle reports whether all barycentric coordinates pass the tolerance test.
func InTriangle(u, v, w float64) bool {
	return u >= TriangleTolerance && v >= TriangleTolerance && w >= TriangleTolerance
}

// Weights holds the barycentric blend of a pixel: U for the site, V and W
// for the two nodes of its triangle.
type Weights struct {
	U, V, W float64
}

// Sum returns U+V+W.
func (w Weights) Sum() float64 {
	return w.U + w.V + w.W
}

// clamp limits every weight to [0, 1], optionally renormalizing the result
// so the weights sum to one again.
func (w Weights) clamp(renormalize bool) Weights {
	c := Weights{clamp01(w.U), clamp01(w.V), clamp01(w.W)}
	if renormalize {
		if s := c.Sum(); s > 0 {
			c = Weights{c.U / s, c.V / s, c.W / s}
		}
	}
	return c
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

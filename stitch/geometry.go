package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// Edge is a stitch from U to V.
type Edge struct {
	U, V stitchpaint.Vec2
}

// Weight returns the length of the stitch.
func (e Edge) Weight() float64 {
	return e.U.Dist(e.V)
}

// Reverse returns the edge running the other way.
func (e Edge) Reverse() Edge {
	return Edge{U: e.V, V: e.U}
}

// Midpoint returns the center of the stitch.
func (e Edge) Midpoint() stitchpaint.Vec2 {
	return e.U.Add(e.V).Mul(0.5)
}

// Intersects reports whether two stitches cross. Stitches sharing an
// endpoint never cross, neither do stitches lying on a common vertical or
// horizontal line.
func (e Edge) Intersects(o Edge) bool {
	return segmentsIntersect(e.U, e.V, o.U, o.V)
}

func segmentsIntersect(p1, q1, p2, q2 stitchpaint.Vec2) bool {
	if p1 == p2 || p1 == q2 || q1 == p2 || q1 == q2 {
		return false
	}
	if p1.X == q1.X && q1.X == p2.X && p2.X == q2.X {
		return false
	}
	if p1.Y == q1.Y && q1.Y == p2.Y && p2.Y == q2.Y {
		return false
	}

	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}
	switch {
	case o1 == 0 && onSegment(p1, p2, q1):
		return true
	case o2 == 0 && onSegment(p1, q2, q1):
		return true
	case o3 == 0 && onSegment(p2, p1, q2):
		return true
	case o4 == 0 && onSegment(p2, q1, q2):
		return true
	}
	return false
}

// orientation returns 0 for collinear points, 1 for clockwise and 2 for
// counter-clockwise turns of the ordered triplet.
func orientation(p, q, r stitchpaint.Vec2) int {
	v := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case v == 0:
		return 0
	case v > 0:
		return 1
	}
	return 2
}

// onSegment reports whether q lies on segment pr, given collinear points.
func onSegment(p, q, r stitchpaint.Vec2) bool {
	return q.X <= math.Max(p.X, r.X) && q.X >= math.Min(p.X, r.X) &&
		q.Y <= math.Max(p.Y, r.Y) && q.Y >= math.Min(p.Y, r.Y)
}

// crossesAny reports whether the edge crosses one of the forbidden segments.
func crossesAny(e Edge, forbidden []Edge) bool {
	for _, f := range forbidden {
		if e.Intersects(f) {
			return true
		}
	}
	return false
}

// IsContiguous reports whether every edge starts where the previous one ended.
func IsContiguous(edges []Edge) bool {
	for i := 1; i < len(edges); i++ {
		if edges[i].U != edges[i-1].V {
			return false
		}
	}
	return true
}

package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// Cost1 scores the stitch u->v against the preferred direction n. Shorter
// stitches and stitches aligned with n score lower (better).
func (p Params) Cost1(u, v, n stitchpaint.Vec2) float64 {
	d := v.Sub(u)
	var cos float64
	if !n.IsZero() {
		cos = math.Abs(stitchpaint.Cosine(d, n))
	}
	return -math.Pow(p.Alpha1, -d.Len()) * math.Pow(p.Beta1, cos)
}

// Cost2 scores the stitch v->w following u->v. Short stitches continuing
// straight score lowest, a full reversal is penalized by Beta2.
func (p Params) Cost2(u, v, w stitchpaint.Vec2) float64 {
	turn := stitchpaint.Cosine(v.Sub(u), w.Sub(v))
	return -math.Pow(p.Alpha2, -w.Dist(v)) * p.Beta1 * math.Pow(p.Beta2, -(1-turn)/2)
}

// weigher evaluates edge weights over a field.
type weigher struct {
	params Params
	field  *Field
}

// align is the field alignment cost of the screen space stitch u->v.
func (w weigher) align(u, v stitchpaint.Vec2) float64 {
	return w.params.Cost1(w.field.ToField(u), w.field.ToField(v), w.field.Dir(u))
}

// edge is the blended weight of reaching next from current, whose own
// parent is prev. hasPrev is false at the tree root.
func (w weigher) edge(prev, current, next stitchpaint.Vec2, hasPrev bool) float64 {
	w1 := w.align(current, next)
	var w2 float64
	if hasPrev {
		w2 = w.params.Cost2(prev, current, next)
	}
	c := w.field.Blend(current)
	return (1-c)*w1 + c*w2 + w.params.CostBias
}

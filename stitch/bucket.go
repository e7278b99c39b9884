package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

type bucketKey struct{ x, y int }

func keyOf(p stitchpaint.Vec2, size float64) bucketKey {
	return bucketKey{int(math.Floor(p.X / size)), int(math.Floor(p.Y / size))}
}

// pointBuckets is a uniform grid over the sample points.
type pointBuckets struct {
	size    float64
	buckets map[bucketKey][]stitchpaint.Vec2
}

func newPointBuckets(size int, points []stitchpaint.Vec2) *pointBuckets {
	pb := &pointBuckets{
		size:    float64(size),
		buckets: make(map[bucketKey][]stitchpaint.Vec2),
	}
	for _, p := range points {
		k := keyOf(p, pb.size)
		pb.buckets[k] = append(pb.buckets[k], p)
	}
	return pb
}

// neighbors returns the points at distance [1, radius] from p which are
// not visited and reachable without crossing a forbidden segment.
func (pb *pointBuckets) neighbors(p stitchpaint.Vec2, radius float64, visited map[stitchpaint.Vec2]bool, forbidden []Edge) []stitchpaint.Vec2 {
	var out []stitchpaint.Vec2
	ring := max(1, int(math.Ceil(radius/pb.size)))
	c := keyOf(p, pb.size)
	for dy := -ring; dy <= ring; dy++ {
		for dx := -ring; dx <= ring; dx++ {
			for _, q := range pb.buckets[bucketKey{c.x + dx, c.y + dy}] {
				if q == p || visited[q] {
					continue
				}
				d := p.Dist(q)
				if d < 1 || d > radius {
					continue
				}
				if crossesAny(Edge{U: p, V: q}, forbidden) {
					continue
				}
				out = append(out, q)
			}
		}
	}
	return out
}

// stitchBuckets indexes committed stitches by their midpoint.
type stitchBuckets struct {
	size    float64
	buckets map[bucketKey][]Edge
}

func newStitchBuckets(size int) *stitchBuckets {
	return &stitchBuckets{size: float64(size), buckets: make(map[bucketKey][]Edge)}
}

func (sb *stitchBuckets) add(e Edge) {
	k := keyOf(e.Midpoint(), sb.size)
	sb.buckets[k] = append(sb.buckets[k], e)
}

func (sb *stitchBuckets) remove(e Edge) {
	k := keyOf(e.Midpoint(), sb.size)
	list := sb.buckets[k]
	for i, o := range list {
		if o == e || o == e.Reverse() {
			sb.buckets[k] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

// collides reports whether the edge crosses a committed stitch near its midpoint.
func (sb *stitchBuckets) collides(e Edge) bool {
	c := keyOf(e.Midpoint(), sb.size)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			for _, o := range sb.buckets[bucketKey{c.x + dx, c.y + dy}] {
				if e.Intersects(o) {
					return true
				}
			}
		}
	}
	return false
}

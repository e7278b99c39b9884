package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// repairStats summarizes a cleanup pass.
type repairStats struct {
	jumps    []Edge
	repaired int
}

// cleanup turns the search tree into an undirected graph and tries to
// replace every jump by a better aligned edge reconnecting the two
// components the jump separates.
func cleanup(tree []Edge, w weigher, pb *pointBuckets, sb *stitchBuckets, threshold, radius float64, forbidden []Edge) (Adjacency, repairStats) {
	adj := make(Adjacency)
	for _, e := range tree {
		adj.Add(e.U, e.V)
	}

	var rs repairStats
	for _, e := range tree {
		if isJump(w.field, e, threshold) {
			rs.jumps = append(rs.jumps, e)
		}
	}

	for _, e := range rs.jumps {
		adj.Remove(e.U, e.V)
		sb.remove(e)

		small, fromU := adj.split(e.U, e.V)
		// side reports whether p is connected to u once the jump is removed.
		side := func(p stitchpaint.Vec2) (onU, inTree bool) {
			if _, ok := adj[p]; !ok {
				return false, false
			}
			if small[p] {
				return fromU, true
			}
			return !fromU, true
		}

		c1, g1 := bestReplacement(e.U, false, side, w, pb, sb, radius, forbidden)
		c2, g2 := bestReplacement(e.V, true, side, w, pb, sb, radius, forbidden)

		keep := e
		if c1 != math.MaxFloat64 || c2 != math.MaxFloat64 {
			cost, cand := c1, Edge{U: e.U, V: g1}
			if c2 < c1 {
				cost, cand = c2, Edge{U: e.V, V: g2}
			}
			if cost < w.align(e.U, e.V) {
				keep = cand
				rs.repaired++
			}
		}
		adj.Add(keep.U, keep.V)
		sb.add(keep)
	}
	return adj, rs
}

// bestReplacement searches the neighbours of from lying on the wanted side
// for the best aligned edge which does not cross a committed stitch.
func bestReplacement(
	from stitchpaint.Vec2,
	wantU bool,
	side func(stitchpaint.Vec2) (bool, bool),
	w weigher,
	pb *pointBuckets,
	sb *stitchBuckets,
	radius float64,
	forbidden []Edge,
) (float64, stitchpaint.Vec2) {
	best, bestCost := stitchpaint.Vec2{}, math.MaxFloat64
	for _, g := range pb.neighbors(from, radius, nil, forbidden) {
		onU, inTree := side(g)
		if !inTree || onU != wantU {
			continue
		}
		cand := Edge{U: from, V: g}
		if sb.collides(cand) {
			continue
		}
		if c := w.align(from, g); c < bestCost {
			best, bestCost = g, c
		}
	}
	return bestCost, best
}

// isJump reports whether the edge runs against the field at its start.
// Pixels without a preferred direction never produce jumps.
func isJump(f *Field, e Edge, threshold float64) bool {
	a, ok := f.Alignment(e)
	return ok && a < threshold
}

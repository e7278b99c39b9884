package stitch

import "math"

// Opt2Threshold shortens a contiguous path by exchanging the tails of a
// stitch longer than threshold with any other stitch whenever that makes
// the two stitches shorter. Long stitches which cannot be improved stay in
// place, except for the final stitch which is dropped. It returns the new
// path and the number of exchanges.
func Opt2Threshold(edges []Edge, threshold float64, maxIter int) ([]Edge, int) {
	var swaps int
	for swaps < maxIter {
		if !improveLongEdge(edges, threshold) {
			break
		}
		swaps++
	}
	if n := len(edges); n > 0 && edges[n-1].Weight() > threshold {
		edges = edges[:n-1]
	}
	return edges, swaps
}

func improveLongEdge(edges []Edge, threshold float64) bool {
	for k := 0; k < len(edges)-1; k++ {
		e := edges[k]
		if e.Weight() <= threshold {
			continue
		}
		for i := range edges {
			if i == k || i == k-1 || i == k+1 {
				continue
			}
			c := edges[i]
			if e.Weight()+c.Weight() > e.U.Dist(c.U)+e.V.Dist(c.V) {
				reconnect(edges, min(i, k), max(i, k))
				return true
			}
		}
	}
	return false
}

// Opt2Crossings removes crossings from a contiguous path, one pair at a
// time, until none is left or maxIter exchanges were made. capHit reports
// that crossings remain.
func Opt2Crossings(edges []Edge, maxIter int) (swaps int, capHit bool) {
	for {
		a, b, ok := findCrossing(edges)
		if !ok {
			return swaps, false
		}
		if swaps >= maxIter {
			return swaps, true
		}
		reconnect(edges, a, b)
		swaps++
	}
}

// reconnect replaces edges a and b (a < b) by the edges joining their
// starts and their ends, reversing the stitches in between so the path
// stays contiguous.
func reconnect(edges []Edge, a, b int) {
	ea, eb := edges[a], edges[b]
	edges[a] = Edge{U: ea.U, V: eb.U}
	edges[b] = Edge{U: ea.V, V: eb.V}
	for i, j := a+1, b-1; i <= j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j].Reverse(), edges[i].Reverse()
	}
}

const crossingCell = 2.0

// findCrossing returns the first pair of crossing edges a < b, scanning
// edges in path order over a uniform grid.
func findCrossing(edges []Edge) (int, int, bool) {
	grid := make(map[bucketKey][]int)
	for i, e := range edges {
		x0 := int(math.Floor(math.Min(e.U.X, e.V.X) / crossingCell))
		x1 := int(math.Floor(math.Max(e.U.X, e.V.X) / crossingCell))
		y0 := int(math.Floor(math.Min(e.U.Y, e.V.Y) / crossingCell))
		y1 := int(math.Floor(math.Max(e.U.Y, e.V.Y) / crossingCell))

		first := -1
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				for _, j := range grid[bucketKey{x, y}] {
					if j < i-1 && (first == -1 || j < first) && e.Intersects(edges[j]) {
						first = j
					}
				}
			}
		}
		if first != -1 {
			return first, i, true
		}
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				k := bucketKey{x, y}
				grid[k] = append(grid[k], i)
			}
		}
	}
	return 0, 0, false
}

// HasCrossing reports whether any two stitches of the path cross.
func HasCrossing(edges []Edge) bool {
	_, _, ok := findCrossing(edges)
	return ok
}

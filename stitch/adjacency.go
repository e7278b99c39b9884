package stitch

import stitchpaint "github.com/esimov/stitchpaint/core"

// Adjacency is an undirected stitch graph keyed by point.
type Adjacency map[stitchpaint.Vec2][]stitchpaint.Vec2

// Add links u and v in both directions.
func (a Adjacency) Add(u, v stitchpaint.Vec2) {
	a[u] = append(a[u], v)
	a[v] = append(a[v], u)
}

// Remove unlinks u and v.
func (a Adjacency) Remove(u, v stitchpaint.Vec2) {
	a[u] = without(a[u], v)
	a[v] = without(a[v], u)
}

func without(list []stitchpaint.Vec2, p stitchpaint.Vec2) []stitchpaint.Vec2 {
	for i, q := range list {
		if q == p {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

// Degree returns the number of neighbours of p.
func (a Adjacency) Degree(p stitchpaint.Vec2) int {
	return len(a[p])
}

// EdgeCount returns the number of undirected edges.
func (a Adjacency) EdgeCount() int {
	var n int
	for _, list := range a {
		n += len(list)
	}
	return n / 2
}

// walker is an iterative depth first traversal which can be advanced one vertex at a time.
type walker struct {
	adj   Adjacency
	stack []stitchpaint.Vec2
	seen  map[stitchpaint.Vec2]bool
}

func newWalker(adj Adjacency, from stitchpaint.Vec2) *walker {
	return &walker{
		adj:   adj,
		stack: []stitchpaint.Vec2{from},
		seen:  map[stitchpaint.Vec2]bool{from: true},
	}
}

// step expands one vertex and reports whether the traversal is complete.
func (w *walker) step() bool {
	if len(w.stack) == 0 {
		return true
	}
	p := w.stack[len(w.stack)-1]
	w.stack = w.stack[:len(w.stack)-1]
	for _, q := range w.adj[p] {
		if !w.seen[q] {
			w.seen[q] = true
			w.stack = append(w.stack, q)
		}
	}
	return len(w.stack) == 0
}

// split labels the two components left after removing the edge (u, v).
// Both sides are walked in lockstep so only the smaller component is
// fully enumerated; fromU tells which side it is.
func (a Adjacency) split(u, v stitchpaint.Vec2) (small map[stitchpaint.Vec2]bool, fromU bool) {
	wu, wv := newWalker(a, u), newWalker(a, v)
	for {
		if wu.step() {
			return wu.seen, true
		}
		if wv.step() {
			return wv.seen, false
		}
	}
}

package stitchpaint

import (
	"math"
	"slices"
)

// MaxNodeContributors caps the number of sites a single intersection node can reference.
const MaxNodeContributors = 4

// Boundary is the out-of-bounds signature of a node detected on the canvas
// border. Each component is -1, 0 or 1 depending on the side which was
// substituted for a missing site.
type Boundary struct {
	X, Y int
}

// Count returns how many axes are out of bounds.
func (b Boundary) Count() int {
	return abs(b.X) + abs(b.Y)
}

// Node is a derived intersection point where the regions of several sites meet.
type Node struct {
	ID       int
	Pos      Vec2
	Zone     int
	Sites    []int // sorted ascending
	Boundary Boundary

	AverageColor   Pixel
	AverageDensity uint8

	// nearest is the squared distance from the node to its closest contributor.
	nearest float64
}

// newNode builds a node from its contributors and computes the derived values.
func newNode(id int, pos Vec2, zone int, sites []*Site, bnd Boundary) *Node {
	n := &Node{
		ID:       id,
		Pos:      pos,
		Zone:     zone,
		Boundary: bnd,
		Sites:    make([]int, 0, len(sites)),
	}
	for _, s := range sites {
		n.Sites = append(n.Sites, s.ID)
	}
	slices.Sort(n.Sites)
	n.refresh(sites)
	return n
}

// refresh recomputes the averaged color, density and contributor distance.
func (n *Node) refresh(sites []*Site) {
	if len(sites) == 0 {
		return
	}
	var r, g, b, d int
	n.nearest = math.MaxFloat64
	for _, s := range sites {
		r += int(s.Color.R)
		g += int(s.Color.G)
		b += int(s.Color.B)
		d += int(s.Density)
		n.nearest = math.Min(n.nearest, n.Pos.SqrDist(s.Pos))
	}
	c := len(sites)
	n.AverageColor = Pixel{R: uint8(r / c), G: uint8(g / c), B: uint8(b / c)}
	n.AverageDensity = uint8(d / c)
}

// Has reports whether the site contributes to the node.
func (n *Node) Has(site int) bool {
	for _, id := range n.Sites {
		if id == site {
			return true
		}
	}
	return false
}

// IsInterior reports whether the node joins at least three sites.
func (n *Node) IsInterior() bool {
	return len(n.Sites) >= 3
}

// EnvelopesSamePoints reports whether both nodes cover the identical
// contributor set on the same canvas boundary.
func (n *Node) EnvelopesSamePoints(other *Node) bool {
	if n.Boundary != other.Boundary || len(n.Sites) != len(other.Sites) {
		return false
	}
	for i := range n.Sites {
		if n.Sites[i] != other.Sites[i] {
			return false
		}
	}
	return true
}

// ShouldDissolve reports whether a site placed at pos is strictly closer to
// the node than any of its contributors, which invalidates the node.
func (n *Node) ShouldDissolve(pos Vec2) bool {
	return n.Pos.SqrDist(pos) < n.nearest
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

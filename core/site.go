package stitchpaint

import "sort"

// Site is a user placed control point owning a Voronoi region within a zone.
type Site struct {
	ID       int
	Pos      Vec2
	Zone     int
	Color    Pixel
	Density  uint8
	Polarity bool

	nodes []nodeRef
}

// nodeRef is an entry of the angularly ordered neighbour list of a site.
type nodeRef struct {
	id    int
	angle float64
}

// NewSite creates a site with the neutral color and the default density.
func NewSite(id int, pos Vec2, zone int) *Site {
	return &Site{
		ID:       id,
		Pos:      pos,
		Zone:     zone,
		Color:    NeutralPixel,
		Density:  DefaultDensity,
		Polarity: true,
	}
}

// Nodes returns the IDs of the neighbouring intersection nodes ordered by
// their angle around the site.
func (s *Site) Nodes() []int {
	ids := make([]int, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.id
	}
	return ids
}

// addNode inserts the node keeping the list sorted by angle, then by ID.
func (s *Site) addNode(id int, pos Vec2) {
	for _, n := range s.nodes {
		if n.id == id {
			return
		}
	}
	ref := nodeRef{id: id, angle: pos.Sub(s.Pos).Angle()}
	i := sort.Search(len(s.nodes), func(i int) bool {
		n := s.nodes[i]
		if n.angle != ref.angle {
			return n.angle > ref.angle
		}
		return n.id > ref.id
	})
	s.nodes = append(s.nodes, nodeRef{})
	copy(s.nodes[i+1:], s.nodes[i:])
	s.nodes[i] = ref
}

// removeNode drops the node from the neighbour list.
func (s *Site) removeNode(id int) bool {
	for i, n := range s.nodes {
		if n.id == id {
			s.nodes = append(s.nodes[:i], s.nodes[i+1:]...)
			return true
		}
	}
	return false
}

func (s *Site) clearNodes() {
	s.nodes = s.nodes[:0]
}

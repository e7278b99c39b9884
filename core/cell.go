package stitchpaint

import "math"

// DynamicColor is the per pixel state of a layer: the closest site, the
// triangle the pixel blends across, and the output pixels it writes to.
type DynamicColor struct {
	x, y int
	zone int

	site int
	dist float64

	nodeA, nodeB int
	raw          Weights
	weights      Weights

	color   *Pixel
	density *Pixel
	queued  bool
}

func newDynamicColor(x, y, zone int, color, density *Pixel) DynamicColor {
	return DynamicColor{
		x:       x,
		y:       y,
		zone:    zone,
		dist:    math.MaxFloat64,
		color:   color,
		density: density,
	}
}

// Pos returns the pixel coordinates as a vector.
func (c *DynamicColor) Pos() Vec2 { return Vec2{float64(c.x), float64(c.y)} }

// Zone returns the zone the pixel belongs to.
func (c *DynamicColor) Zone() int { return c.zone }

// Site returns the ID of the closest site, or 0 when none was assigned.
func (c *DynamicColor) Site() int { return c.site }

// SiteDistance returns the squared distance to the closest site.
func (c *DynamicColor) SiteDistance() float64 { return c.dist }

// Triangle returns the node IDs of the blend triangle, 0 when absent.
func (c *DynamicColor) Triangle() (a, b int) { return c.nodeA, c.nodeB }

// Weights returns the clamped blend weights.
func (c *DynamicColor) Weights() Weights { return c.weights }

// RawWeights returns the weights as computed, before clamping.
func (c *DynamicColor) RawWeights() Weights { return c.raw }

// Color returns the current output color.
func (c *DynamicColor) Color() Pixel { return *c.color }

// DensityColor returns the current density map sample.
func (c *DynamicColor) DensityColor() Pixel { return *c.density }

// TryAddMinPoint records the site as the closest one if it belongs to the
// pixel's zone and is strictly closer than the current closest site.
func (c *DynamicColor) TryAddMinPoint(s *Site) bool {
	if s.Zone != c.zone {
		return false
	}
	d := c.Pos().SqrDist(s.Pos)
	if d >= c.dist {
		return false
	}
	c.site = s.ID
	c.dist = d
	return true
}

// triangulate tests the pixel against the triangle (site, a, b) and keeps
// the triangle when the pixel lies inside it.
func (c *DynamicColor) triangulate(site *Site, a, b *Node, renormalize bool) bool {
	u, v, w, ok := Barycentric(site.Pos, a.Pos, b.Pos, c.Pos())
	if !ok || !InTriangle(u, v, w) {
		return false
	}
	c.nodeA, c.nodeB = a.ID, b.ID
	c.raw = Weights{u, v, w}
	c.weights = c.raw.clamp(renormalize)
	return true
}

func (c *DynamicColor) clearTriangle() {
	c.nodeA, c.nodeB = 0, 0
	c.raw, c.weights = Weights{}, Weights{}
}

// release forgets the closest site and the triangle, keeping the queue state.
func (c *DynamicColor) release() {
	c.site = 0
	c.dist = math.MaxFloat64
	c.clearTriangle()
}

func (c *DynamicColor) reset() {
	c.site = 0
	c.dist = math.MaxFloat64
	c.queued = false
	c.clearTriangle()
}

// UpdatePixel writes the output color and density. With both triangle nodes
// the pixel is blended, with only a site it takes the site's flat values,
// otherwise it falls back to the neutral color.
func (c *DynamicColor) UpdatePixel(site *Site, a, b *Node) {
	if site == nil {
		*c.color = NeutralPixel
		*c.density = DensityPixel(DefaultDensity)
		return
	}
	if a == nil || b == nil {
		*c.color = site.Color
		*c.density = DensityPixel(site.Density)
		return
	}
	wt := c.weights
	blend := func(s, na, nb uint8) uint8 {
		return clampChannel(wt.U*float64(s) + wt.V*float64(na) + wt.W*float64(nb))
	}
	*c.color = Pixel{
		R: blend(site.Color.R, a.AverageColor.R, b.AverageColor.R),
		G: blend(site.Color.G, a.AverageColor.G, b.AverageColor.G),
		B: blend(site.Color.B, a.AverageColor.B, b.AverageColor.B),
	}
	*c.density = DensityPixel(blend(site.Density, a.AverageDensity, b.AverageDensity))
}

// bind copies the current output into the provided pixels and writes to them from now on.
func (c *DynamicColor) bind(color, density *Pixel) {
	if color != nil {
		*color = *c.color
		c.color = color
	}
	if density != nil {
		*density = *c.density
		c.density = density
	}
}

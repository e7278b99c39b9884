package stitchpaint

import (
	"errors"
	"image"
	"math"
	"slices"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrNotEditable is returned when sites are added to a layer loaded from imagery.
	ErrNotEditable = errors.New("layer is not editable")
	// ErrZoneMismatch is returned when a site is added to a layer of another zone.
	ErrZoneMismatch = errors.New("site zone does not match the layer zone")
	// ErrSiteExists is returned when a site is added twice.
	ErrSiteExists = errors.New("site already belongs to the layer")
	// ErrUnknownSite is returned when a site is not owned by the layer.
	ErrUnknownSite = errors.New("unknown site")
)

const (
	// redundantNodeDist is the squared distance below which a node near a
	// pixel that changed owner is considered stale.
	redundantNodeDist = 1.5
	// nodeMergeDist is the squared distance within which node candidates of
	// the same contributor set collapse into a single node.
	nodeMergeDist = 16
)

// Layer maintains the incremental Voronoi partition of one zone together
// with its intersection nodes and per pixel shading state.
type Layer struct {
	width, height int
	zone          int
	editable      bool

	cells   []DynamicColor
	normal  *Pixmap
	density *Pixmap

	sites map[int]*Site
	nodes map[int]*Node
	queue []int

	zones         *ZoneMap
	ids           *IDAllocator
	legacyWeights bool
	logger        *zap.Logger
}

// LayerOption customizes a layer on creation.
type LayerOption func(*Layer)

// WithLogger sets the logger receiving the layer diagnostics.
func WithLogger(l *zap.Logger) LayerOption {
	return func(ly *Layer) {
		if l != nil {
			ly.logger = l
		}
	}
}

// WithNodeIDs shares an ID allocator for intersection nodes.
func WithNodeIDs(ids *IDAllocator) LayerOption {
	return func(ly *Layer) {
		if ids != nil {
			ly.ids = ids
		}
	}
}

// WithZoneMap assigns each pixel the zone found in the zone map. Without it
// every pixel belongs to the layer zone.
func WithZoneMap(zm *ZoneMap) LayerOption {
	return func(ly *Layer) { ly.zones = zm }
}

// WithLegacyWeights disables renormalization of the clamped barycentric weights.
func WithLegacyWeights() LayerOption {
	return func(ly *Layer) { ly.legacyWeights = true }
}

// NewLayer creates an editable layer of the provided size for a zone.
func NewLayer(width, height, zone int, opts ...LayerOption) *Layer {
	l := newLayer(width, height, zone, true, opts)
	l.normal.Fill(NeutralPixel)
	l.density.Fill(DensityPixel(DefaultDensity))
	return l
}

func newLayer(width, height, zone int, editable bool, opts []LayerOption) *Layer {
	l := &Layer{
		width:    width,
		height:   height,
		zone:     zone,
		editable: editable,
		normal:   &Pixmap{Width: width, Height: height, Pix: make([]Pixel, width*height)},
		density:  &Pixmap{Width: width, Height: height, Pix: make([]Pixel, width*height)},
		sites:    make(map[int]*Site),
		nodes:    make(map[int]*Node),
		ids:      NewIDAllocator(),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.cells = make([]DynamicColor, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*width + x
			z := zone
			if l.zones != nil {
				z = l.zones.Zone(x, y)
			}
			l.cells[i] = newDynamicColor(x, y, z, &l.normal.Pix[i], &l.density.Pix[i])
		}
	}
	return l
}

// Width returns the layer width in pixels.
func (l *Layer) Width() int { return l.width }

// Height returns the layer height in pixels.
func (l *Layer) Height() int { return l.height }

// Zone returns the zone served by the layer.
func (l *Layer) Zone() int { return l.zone }

// Editable reports whether sites can be added to the layer.
func (l *Layer) Editable() bool { return l.editable }

// Cell returns the shading state of the pixel at (x, y), or nil when out of range.
func (l *Layer) Cell(x, y int) *DynamicColor {
	if x < 0 || y < 0 || x >= l.width || y >= l.height {
		return nil
	}
	return &l.cells[y*l.width+x]
}

// Raw returns the layer owned color and density buffers. Pixels rebound
// with SetPixelRefs are no longer written to them; use Output to read the
// current shading.
func (l *Layer) Raw() (normal, density *Pixmap) {
	return l.normal, l.density
}

// Output copies the current color and density of every cell, following
// the pixels bound with SetPixelRefs.
func (l *Layer) Output() (normal, density *Pixmap) {
	normal = &Pixmap{Width: l.width, Height: l.height, Pix: make([]Pixel, len(l.cells))}
	density = &Pixmap{Width: l.width, Height: l.height, Pix: make([]Pixel, len(l.cells))}
	for i := range l.cells {
		normal.Pix[i] = *l.cells[i].color
		density.Pix[i] = *l.cells[i].density
	}
	return normal, density
}

// Site returns an owned site by ID.
func (l *Layer) Site(id int) *Site { return l.sites[id] }

// Sites returns the owned sites ordered by ID.
func (l *Layer) Sites() []*Site {
	sites := make([]*Site, 0, len(l.sites))
	for _, s := range l.sites {
		sites = append(sites, s)
	}
	slices.SortFunc(sites, func(a, b *Site) int { return a.ID - b.ID })
	return sites
}

// Node returns a live intersection node by ID.
func (l *Layer) Node(id int) *Node { return l.nodes[id] }

// Nodes returns the live intersection nodes ordered by ID.
func (l *Layer) Nodes() []*Node {
	nodes := make([]*Node, 0, len(l.nodes))
	for _, n := range l.nodes {
		nodes = append(nodes, n)
	}
	slices.SortFunc(nodes, func(a, b *Node) int { return a.ID - b.ID })
	return nodes
}

// Pending returns the number of pixels waiting for UpdateQueuedPixels.
func (l *Layer) Pending() int { return len(l.queue) }

// nodeCandidate accumulates the pixel level detections of one node.
type nodeCandidate struct {
	key   string
	sites []int
	first Vec2
	sum   Vec2
	count int
	bnd   Boundary
}

// AddVoronoiPoint inserts a site into the layer, reassigning every pixel
// for which it is the strictly closest site and updating the intersection
// nodes around the affected region. When updateBarycentric is set the
// triangulation of affected pixels is recomputed and the pixels are queued
// for UpdateQueuedPixels.
func (l *Layer) AddVoronoiPoint(site *Site, updateBarycentric bool) error {
	switch {
	case !l.editable:
		return ErrNotEditable
	case site.Zone != l.zone:
		return ErrZoneMismatch
	}
	if _, ok := l.sites[site.ID]; ok {
		return ErrSiteExists
	}
	l.sites[site.ID] = site
	site.clearNodes()

	changed := make([]bool, len(l.cells))
	var owned []int
	for i := range l.cells {
		if l.cells[i].TryAddMinPoint(site) {
			changed[i] = true
			owned = append(owned, i)
		}
	}
	if len(owned) == 0 {
		return nil
	}

	redundant := make(map[int]bool)
	for id, n := range l.nodes {
		if n.ShouldDissolve(site.Pos) || l.nearChanged(n.Pos, changed) {
			redundant[id] = true
		}
	}

	affected := map[int]bool{site.ID: true}
	candidates := make(map[string][]*nodeCandidate)
	var order []*nodeCandidate

	for _, i := range owned {
		c := &l.cells[i]
		unique := []int{site.ID}
		pos := c.Pos()
		var oob Boundary

		for dx := -1; dx <= 1; dx++ {
			nx := c.x + dx
			if nx < 0 || nx >= l.width {
				if oob.X == 0 {
					oob.X = dx
				}
				continue
			}
			for dy := -1; dy <= 1; dy++ {
				ny := c.y + dy
				if ny < 0 || ny >= l.height {
					if oob.Y == 0 {
						oob.Y = dy
					}
					continue
				}
				nc := &l.cells[ny*l.width+nx]
				if nc.site == 0 || l.sites[nc.site] == nil || slices.Contains(unique, nc.site) {
					continue
				}
				affected[nc.site] = true
				if len(unique) < MaxNodeContributors {
					unique = append(unique, nc.site)
					pos = pos.Add(nc.Pos())
				}
			}
		}
		if len(unique) < 2 || len(unique)+oob.Count() < 3 {
			continue
		}
		pos = pos.Div(float64(len(unique)))

		sorted := slices.Clone(unique)
		slices.Sort(sorted)
		key := contributorKey(sorted)

		var merged bool
		for _, cand := range candidates[key] {
			if cand.first.SqrDist(pos) <= nodeMergeDist {
				cand.sum = cand.sum.Add(pos)
				cand.count++
				if cand.bnd.X == 0 {
					cand.bnd.X = oob.X
				}
				if cand.bnd.Y == 0 {
					cand.bnd.Y = oob.Y
				}
				merged = true
				break
			}
		}
		if !merged {
			cand := &nodeCandidate{key: key, sites: sorted, first: pos, sum: pos, count: 1, bnd: oob}
			candidates[key] = append(candidates[key], cand)
			order = append(order, cand)
		}
	}

	var created int
	for _, cand := range order {
		contributors := make([]*Site, 0, len(cand.sites))
		for _, id := range cand.sites {
			contributors = append(contributors, l.sites[id])
		}
		n := newNode(0, cand.sum.Div(float64(cand.count)), l.zone, contributors, cand.bnd)
		if l.duplicates(n, redundant) {
			continue
		}
		n.ID = l.ids.Next()
		l.nodes[n.ID] = n
		for _, s := range contributors {
			s.addNode(n.ID, n.Pos)
			affected[s.ID] = true
		}
		created++
	}

	for id := range redundant {
		for _, sid := range l.nodes[id].Sites {
			affected[sid] = true
		}
		l.dropNode(id)
	}

	l.logger.Debug("site added",
		zap.Int("site", site.ID),
		zap.Int("zone", l.zone),
		zap.Int("pixels", len(owned)),
		zap.Int("nodes_created", created),
		zap.Int("nodes_dissolved", len(redundant)),
	)

	if updateBarycentric {
		var flat int
		for i := range l.cells {
			c := &l.cells[i]
			if c.site == 0 || !affected[c.site] {
				continue
			}
			if !l.triangulate(c) {
				flat++
			}
			l.enqueue(i)
		}
		if flat > 0 {
			l.logger.Debug("pixels without triangle", zap.Int("site", site.ID), zap.Int("pixels", flat))
		}
	}
	return nil
}

// nearChanged reports whether a pixel within the redundancy distance of pos changed owner.
func (l *Layer) nearChanged(pos Vec2, changed []bool) bool {
	r := math.Sqrt(redundantNodeDist)
	x0, y0 := int(math.Ceil(pos.X-r)), int(math.Ceil(pos.Y-r))
	x1, y1 := int(math.Floor(pos.X+r)), int(math.Floor(pos.Y+r))
	for y := max(y0, 0); y <= min(y1, l.height-1); y++ {
		for x := max(x0, 0); x <= min(x1, l.width-1); x++ {
			i := y*l.width + x
			if changed[i] && l.cells[i].Pos().SqrDist(pos) <= redundantNodeDist {
				return true
			}
		}
	}
	return false
}

// duplicates reports whether a live node that survives the current insertion covers the same sites.
func (l *Layer) duplicates(n *Node, redundant map[int]bool) bool {
	s := l.sites[n.Sites[0]]
	for _, ref := range s.nodes {
		if redundant[ref.id] {
			continue
		}
		if other := l.nodes[ref.id]; other != nil && other.EnvelopesSamePoints(n) {
			return true
		}
	}
	return false
}

// dropNode removes the node from the table and from every contributor.
func (l *Layer) dropNode(id int) {
	n, ok := l.nodes[id]
	if !ok {
		return
	}
	for _, sid := range n.Sites {
		if s := l.sites[sid]; s != nil {
			s.removeNode(id)
		}
	}
	delete(l.nodes, id)
}

func contributorKey(ids []int) string {
	var sb strings.Builder
	for i, id := range ids {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(id))
	}
	return sb.String()
}

// RemovePoint removes the site and every node it contributes to. The
// pixels it owned become unassigned and keep their last color until the
// layer is rebuilt, which callers do afterwards.
func (l *Layer) RemovePoint(id int) error {
	s, ok := l.sites[id]
	if !ok {
		return ErrUnknownSite
	}
	for _, nid := range s.Nodes() {
		l.dropNode(nid)
	}
	delete(l.sites, id)
	for i := range l.cells {
		if l.cells[i].site == id {
			l.cells[i].release()
		}
	}
	return nil
}

// ClearData resets every pixel to the unassigned state and forgets all
// sites and nodes. Editable layers also reset their output to the neutral color.
func (l *Layer) ClearData() {
	for i := range l.cells {
		c := &l.cells[i]
		c.reset()
		if l.editable {
			c.UpdatePixel(nil, nil, nil)
		}
	}
	for _, s := range l.sites {
		s.clearNodes()
	}
	l.sites = make(map[int]*Site)
	l.nodes = make(map[int]*Node)
	l.queue = l.queue[:0]
}

// Rebuild recomputes the whole layer from its current sites in ID order.
func (l *Layer) Rebuild() {
	sites := l.Sites()
	l.ClearData()
	for _, s := range sites {
		if err := l.AddVoronoiPoint(s, false); err != nil {
			l.logger.Warn("rebuild skipped site", zap.Int("site", s.ID), zap.Error(err))
		}
	}
	l.UpdateLayerAll(true)
}

// UpdateLayerAll recomputes every pixel color, retriangulating first when
// barycentric is set. Layers without sites are left untouched.
func (l *Layer) UpdateLayerAll(barycentric bool) {
	if len(l.sites) == 0 {
		return
	}
	var flat int
	for i := range l.cells {
		c := &l.cells[i]
		if barycentric && !l.triangulate(c) && c.site != 0 {
			flat++
		}
		l.updateCell(c)
		c.queued = false
	}
	l.queue = l.queue[:0]
	l.logger.Debug("layer updated", zap.Int("zone", l.zone), zap.Bool("barycentric", barycentric), zap.Int("flat_pixels", flat))
}

// BarycentricUpdate recomputes the triangulation of the provided pixels and
// queues them for the next UpdateQueuedPixels. It returns how many pixels
// fell back to flat shading.
func (l *Layer) BarycentricUpdate(pixels []image.Point) int {
	var flat int
	for _, p := range pixels {
		c := l.Cell(p.X, p.Y)
		if c == nil {
			continue
		}
		if !l.triangulate(c) && c.site != 0 {
			flat++
		}
		l.enqueue(p.Y*l.width + p.X)
	}
	return flat
}

// UpdateQueuedPixels writes the color of every queued pixel and empties the
// queue. It returns the number of pixels written.
func (l *Layer) UpdateQueuedPixels() int {
	n := len(l.queue)
	for _, i := range l.queue {
		c := &l.cells[i]
		l.updateCell(c)
		c.queued = false
	}
	l.queue = l.queue[:0]
	return n
}

// CancelUpdate empties the queue without writing any pixel.
func (l *Layer) CancelUpdate() {
	for _, i := range l.queue {
		l.cells[i].queued = false
	}
	l.queue = l.queue[:0]
}

// SetPixelRefs binds the pixel at (x, y) to externally owned output
// pixels after copying the current values into them. Nil targets are ignored.
func (l *Layer) SetPixelRefs(x, y int, color, density *Pixel) {
	if c := l.Cell(x, y); c != nil {
		c.bind(color, density)
	}
}

// RecolorSites refreshes the nodes touching the sites after their color or
// density changed and queues every pixel shaded by them.
func (l *Layer) RecolorSites(ids []int) {
	set := make(map[int]bool, len(ids))
	for _, id := range ids {
		if _, ok := l.sites[id]; ok {
			set[id] = true
		}
	}
	if len(set) == 0 {
		return
	}
	touched := make(map[int]bool)
	for id, n := range l.nodes {
		for _, sid := range n.Sites {
			if set[sid] {
				n.refresh(l.contributors(n))
				touched[id] = true
				break
			}
		}
	}
	for i := range l.cells {
		c := &l.cells[i]
		if set[c.site] || touched[c.nodeA] || touched[c.nodeB] {
			l.enqueue(i)
		}
	}
}

func (l *Layer) contributors(n *Node) []*Site {
	sites := make([]*Site, 0, len(n.Sites))
	for _, id := range n.Sites {
		if s := l.sites[id]; s != nil {
			sites = append(sites, s)
		}
	}
	return sites
}

// triangulate finds the triangle of the closest site's fan containing the
// pixel. Pixels outside every triangle lose their triangulation.
func (l *Layer) triangulate(c *DynamicColor) bool {
	site := l.sites[c.site]
	if site == nil || len(site.nodes) < 2 {
		c.clearTriangle()
		return false
	}
	n := len(site.nodes)
	for i := 0; i < n; i++ {
		a, b := l.nodes[site.nodes[i].id], l.nodes[site.nodes[(i+1)%n].id]
		if a == nil || b == nil || a == b {
			continue
		}
		if c.triangulate(site, a, b, !l.legacyWeights) {
			return true
		}
	}
	c.clearTriangle()
	return false
}

func (l *Layer) updateCell(c *DynamicColor) {
	if !l.editable {
		return
	}
	site := l.sites[c.site]
	var a, b *Node
	if c.nodeA != 0 && c.nodeB != 0 {
		a, b = l.nodes[c.nodeA], l.nodes[c.nodeB]
	}
	c.UpdatePixel(site, a, b)
}

func (l *Layer) enqueue(i int) {
	if l.cells[i].queued {
		return
	}
	l.cells[i].queued = true
	l.queue = append(l.queue, i)
}

package stitchpaint

import (
	"errors"
	"fmt"
	"image"
	"math"
	"slices"

	"go.uber.org/zap"
)

// ErrNoZone is returned when a site is placed on a pixel outside every zone.
var ErrNoZone = errors.New("position is not inside a zone")

// Options holds the settings shared by every layer of a session.
type Options struct {
	// Logger receives the engine diagnostics. Nil means silent.
	Logger *zap.Logger
	// LegacyWeights keeps the clamped barycentric weights unnormalized.
	LegacyWeights bool
}

// Session owns the canvas: one layer per zone, the composited normal and
// density maps and the ID allocators of sites and nodes.
type Session struct {
	width, height int

	zones   *ZoneMap
	layers  []*Layer
	normal  *Pixmap
	density *Pixmap

	sites   map[int]*Site
	siteIDs *IDAllocator
	nodeIDs *IDAllocator
	logger  *zap.Logger
}

// NewSession creates an editable session. A nil zone map puts the whole
// canvas of the provided size into a single zone.
func NewSession(width, height int, zm *ZoneMap, opts Options) (*Session, error) {
	if zm == nil {
		zm = NewUniformZoneMap(width, height)
	}
	if zm.Width != width || zm.Height != height {
		return nil, fmt.Errorf("zone map is %dx%d, canvas is %dx%d", zm.Width, zm.Height, width, height)
	}
	s := newSession(width, height, zm, opts)
	for z := 0; z < zm.Count(); z++ {
		s.layers = append(s.layers, NewLayer(width, height, z, s.layerOptions(z, opts)...))
	}
	s.bind()
	return s, nil
}

// NewStaticSession creates a read-only session whose single layer is
// loaded from existing normal and density images.
func NewStaticSession(normal, density image.Image, width, height int, opts Options) *Session {
	s := newSession(width, height, NewUniformZoneMap(width, height), opts)
	s.layers = append(s.layers, NewStaticLayer(normal, density, width, height, 0, s.layerOptions(0, opts)...))
	s.bind()
	return s
}

func newSession(width, height int, zm *ZoneMap, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		width:   width,
		height:  height,
		zones:   zm,
		normal:  NewPixmap(width, height, UnpaintedPixel),
		density: NewPixmap(width, height, Gray(255)),
		sites:   make(map[int]*Site),
		siteIDs: NewIDAllocator(),
		nodeIDs: NewIDAllocator(),
		logger:  logger,
	}
}

func (s *Session) layerOptions(zone int, opts Options) []LayerOption {
	lo := []LayerOption{
		WithZoneMap(s.zones),
		WithNodeIDs(s.nodeIDs),
		WithLogger(s.logger.With(zap.Int("zone", zone))),
	}
	if opts.LegacyWeights {
		lo = append(lo, WithLegacyWeights())
	}
	return lo
}

// bind points every zoned pixel of its layer at the composited canvas.
func (s *Session) bind() {
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			z := s.zones.Zone(x, y)
			if z == NoZone {
				continue
			}
			s.layers[z].SetPixelRefs(x, y, s.normal.At(x, y), s.density.At(x, y))
		}
	}
}

// Width returns the canvas width.
func (s *Session) Width() int { return s.width }

// Height returns the canvas height.
func (s *Session) Height() int { return s.height }

// Zones returns the zone map of the canvas.
func (s *Session) Zones() *ZoneMap { return s.zones }

// Layers returns the layers indexed by zone.
func (s *Session) Layers() []*Layer { return s.layers }

// Layer returns the layer of a zone or nil.
func (s *Session) Layer(zone int) *Layer {
	if zone < 0 || zone >= len(s.layers) {
		return nil
	}
	return s.layers[zone]
}

// NormalMap returns the composited normal map. The pixmap is updated in place.
func (s *Session) NormalMap() *Pixmap { return s.normal }

// DensityMap returns the composited density map. The pixmap is updated in place.
func (s *Session) DensityMap() *Pixmap { return s.density }

// Site returns a site by ID.
func (s *Session) Site(id int) *Site { return s.sites[id] }

// Sites returns every site ordered by ID.
func (s *Session) Sites() []*Site {
	sites := make([]*Site, 0, len(s.sites))
	for _, st := range s.sites {
		sites = append(sites, st)
	}
	slices.SortFunc(sites, func(a, b *Site) int { return a.ID - b.ID })
	return sites
}

// AddSite places a new site and immediately shades the affected pixels.
func (s *Session) AddSite(pos Vec2, color Pixel, density uint8, polarity bool) (*Site, error) {
	site, err := s.insert(pos, color, density, polarity, true)
	if err != nil {
		return nil, err
	}
	s.layers[site.Zone].UpdateQueuedPixels()
	return site, nil
}

func (s *Session) insert(pos Vec2, color Pixel, density uint8, polarity, update bool) (*Site, error) {
	zone := s.zones.ZoneAt(pos)
	if zone == NoZone {
		return nil, ErrNoZone
	}
	site := NewSite(s.siteIDs.Next(), pos, zone)
	site.Color = color
	site.Density = density
	site.Polarity = polarity
	if err := s.layers[zone].AddVoronoiPoint(site, update); err != nil {
		return nil, err
	}
	s.sites[site.ID] = site
	return site, nil
}

// PaintStroke turns a stroke into a site at the stroke start.
func (s *Session) PaintStroke(st Stroke) (*Site, error) {
	base := NeutralPixel
	x, y := st.From.Floor()
	if s.normal.In(x, y) {
		base = *s.normal.At(x, y)
	}
	density := st.Density
	if density == 0 {
		density = DefaultDensity
	}
	return s.AddSite(st.From, st.Color(base), density, st.Polarity)
}

// DeleteSites removes sites and rebuilds the layers they belonged to.
func (s *Session) DeleteSites(ids ...int) error {
	if err := s.checkSites("delete", ids); err != nil {
		return err
	}
	touched := make(map[int]bool)
	for _, id := range ids {
		site, ok := s.sites[id]
		if !ok {
			// listed twice
			continue
		}
		if err := s.layers[site.Zone].RemovePoint(id); err != nil {
			s.rebuild(touched)
			return fmt.Errorf("delete site %d: %w", id, err)
		}
		delete(s.sites, id)
		touched[site.Zone] = true
	}
	s.rebuild(touched)
	return nil
}

// MoveSites offsets sites by delta. Sites may not leave their zone; in
// that case nothing is moved.
func (s *Session) MoveSites(delta Vec2, ids ...int) error {
	touched := make(map[int]bool)
	for _, id := range ids {
		site, ok := s.sites[id]
		if !ok {
			return fmt.Errorf("move site %d: %w", id, ErrUnknownSite)
		}
		if s.zones.ZoneAt(site.Pos.Add(delta)) != site.Zone {
			return fmt.Errorf("move site %d: %w", id, ErrZoneMismatch)
		}
		touched[site.Zone] = true
	}
	for _, id := range ids {
		s.sites[id].Pos = s.sites[id].Pos.Add(delta)
	}
	s.rebuild(touched)
	return nil
}

// RecolorSites assigns a new color to the sites and reshades their pixels.
func (s *Session) RecolorSites(color Pixel, ids ...int) error {
	return s.updateSites(ids, func(st *Site) { st.Color = color })
}

// SetSiteDensity assigns a new stitch density to the sites.
func (s *Session) SetSiteDensity(density uint8, ids ...int) error {
	return s.updateSites(ids, func(st *Site) { st.Density = density })
}

func (s *Session) updateSites(ids []int, fn func(*Site)) error {
	if err := s.checkSites("update", ids); err != nil {
		return err
	}
	byZone := make(map[int][]int)
	for _, id := range ids {
		site := s.sites[id]
		fn(site)
		byZone[site.Zone] = append(byZone[site.Zone], id)
	}
	for z, zids := range byZone {
		s.layers[z].RecolorSites(zids)
		s.layers[z].UpdateQueuedPixels()
	}
	return nil
}

// SeedDefaultMesh covers every editable zone with neutral sites placed on a
// staggered grid of the provided spacing. It returns the number of sites added.
func (s *Session) SeedDefaultMesh(spacing float64) int {
	if spacing < 1 {
		spacing = 1
	}
	touched := make(map[int]bool)
	var added int
	for row := 0; ; row++ {
		y := spacing/2 + float64(row)*spacing*math.Sqrt(3)/2
		if y >= float64(s.height) {
			break
		}
		offset := spacing / 2
		if row%2 == 1 {
			offset = spacing
		}
		for x := offset; x < float64(s.width); x += spacing {
			zone := s.zones.ZoneAt(V(x, y))
			if zone == NoZone || !s.layers[zone].Editable() {
				continue
			}
			if _, err := s.insert(V(x, y), NeutralPixel, DefaultDensity, true, false); err != nil {
				s.logger.Debug("mesh seed skipped", zap.Float64("x", x), zap.Float64("y", y), zap.Error(err))
				continue
			}
			touched[zone] = true
			added++
		}
	}
	for z := range touched {
		s.layers[z].UpdateLayerAll(true)
	}
	s.logger.Debug("default mesh seeded", zap.Int("sites", added), zap.Float64("spacing", spacing))
	return added
}

// RebuildAll recomputes every editable layer from scratch.
func (s *Session) RebuildAll() {
	touched := make(map[int]bool)
	for z := range s.layers {
		touched[z] = true
	}
	s.rebuild(touched)
}

func (s *Session) rebuild(zones map[int]bool) {
	for z := range zones {
		l := s.layers[z]
		if !l.Editable() {
			continue
		}
		l.Rebuild()
	}
}

// checkSites fails on the first unknown ID so that no site is touched
// by a partially valid request.
func (s *Session) checkSites(op string, ids []int) error {
	for _, id := range ids {
		if _, ok := s.sites[id]; !ok {
			return fmt.Errorf("%s site %d: %w", op, id, ErrUnknownSite)
		}
	}
	return nil
}

package stitchpaint

import "image"

// NoZone is the zone index of pixels which are not part of any zone.
const NoZone = -1

// ZoneMap assigns every canvas pixel to a zone. Zones are identified by
// distinct colors of a source image; pure white means no zone.
type ZoneMap struct {
	Width  int
	Height int
	// Colors holds the source color of each zone, indexed by zone.
	Colors []Pixel

	zones []int
}

// NewUniformZoneMap returns a zone map with every pixel in zone 0.
func NewUniformZoneMap(width, height int) *ZoneMap {
	return &ZoneMap{
		Width:  width,
		Height: height,
		Colors: []Pixel{NeutralPixel},
		zones:  make([]int, width*height),
	}
}

// ParseZoneMap builds a zone map from an image. Zone indices are assigned
// to distinct colors in row-major scan order.
func ParseZoneMap(img image.Image) *ZoneMap {
	pm := PixmapFromImage(img)
	zm := &ZoneMap{
		Width:  pm.Width,
		Height: pm.Height,
		zones:  make([]int, len(pm.Pix)),
	}
	index := make(map[Pixel]int)
	for i, p := range pm.Pix {
		if p == UnpaintedPixel {
			zm.zones[i] = NoZone
			continue
		}
		z, ok := index[p]
		if !ok {
			z = len(zm.Colors)
			index[p] = z
			zm.Colors = append(zm.Colors, p)
		}
		zm.zones[i] = z
	}
	return zm
}

// Zone returns the zone of the pixel at (x, y), or NoZone outside the map.
func (zm *ZoneMap) Zone(x, y int) int {
	if x < 0 || y < 0 || x >= zm.Width || y >= zm.Height {
		return NoZone
	}
	return zm.zones[y*zm.Width+x]
}

// ZoneAt returns the zone under a floating point canvas position.
func (zm *ZoneMap) ZoneAt(p Vec2) int {
	x, y := p.Floor()
	return zm.Zone(x, y)
}

// Count returns the number of zones.
func (zm *ZoneMap) Count() int {
	return len(zm.Colors)
}

// Area returns the number of pixels of each zone.
func (zm *ZoneMap) Area() []int {
	area := make([]int, len(zm.Colors))
	for _, z := range zm.zones {
		if z != NoZone {
			area[z]++
		}
	}
	return area
}

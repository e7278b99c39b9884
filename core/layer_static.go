package stitchpaint

import "image"

// NewStaticLayer creates a non editable layer whose pixels come from
// existing normal and density images, resampled to the canvas size. A nil
// normal image yields neutral colors and a nil density image the densest
// stitching.
func NewStaticLayer(normal, density image.Image, width, height, zone int, opts ...LayerOption) *Layer {
	l := newLayer(width, height, zone, false, opts)

	if normal != nil {
		copy(l.normal.Pix, Resample(normal, width, height).Pix)
	} else {
		l.normal.Fill(NeutralPixel)
	}
	if density != nil {
		copy(l.density.Pix, Resample(density, width, height).Pix)
	} else {
		l.density.Fill(Gray(0))
	}
	return l
}

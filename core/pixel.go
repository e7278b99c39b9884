package stitchpaint

import (
	"image"
	"image/color"
	"math"
)

// Pixel is a single 8-bit RGB sample of a normal or density map.
type Pixel struct {
	R, G, B uint8
}

var (
	// NeutralPixel is the normal map color pointing straight at the viewer.
	NeutralPixel = Pixel{R: 128, G: 128, B: 255}
	// UnpaintedPixel marks canvas pixels which belong to no zone.
	UnpaintedPixel = Pixel{R: 255, G: 255, B: 255}
)

// DefaultDensity is the stitch density assigned to new sites.
const DefaultDensity uint8 = 128

// RGBA implements the color.Color interface.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	return color.NRGBA{R: p.R, G: p.G, B: p.B, A: 0xff}.RGBA()
}

// Gray returns a pixel having all three channels set to v.
func Gray(v uint8) Pixel {
	return Pixel{R: v, G: v, B: v}
}

// DensityPixel encodes a stitch density as a density map sample.
// Density maps are intensity images: dark pixels are stitched densely.
func DensityPixel(density uint8) Pixel {
	return Gray(255 - density)
}

// PixelDensity is the inverse of DensityPixel.
func PixelDensity(p Pixel) uint8 {
	return 255 - p.R
}

// Pixmap is a row-major RGB raster.
type Pixmap struct {
	Width  int
	Height int
	Pix    []Pixel
}

// NewPixmap allocates a pixmap filled with the provided pixel.
func NewPixmap(width, height int, fill Pixel) *Pixmap {
	pm := &Pixmap{
		Width:  width,
		Height: height,
		Pix:    make([]Pixel, width*height),
	}
	pm.Fill(fill)
	return pm
}

// PixmapFromImage converts an image into a pixmap. Alpha is ignored.
func PixmapFromImage(img image.Image) *Pixmap {
	b := img.Bounds()
	pm := &Pixmap{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    make([]Pixel, b.Dx()*b.Dy()),
	}
	for y := 0; y < pm.Height; y++ {
		for x := 0; x < pm.Width; x++ {
			c := color.NRGBAModel.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.NRGBA)
			pm.Pix[y*pm.Width+x] = Pixel{R: c.R, G: c.G, B: c.B}
		}
	}
	return pm
}

// Fill overwrites every pixel.
func (pm *Pixmap) Fill(p Pixel) {
	for i := range pm.Pix {
		pm.Pix[i] = p
	}
}

// In reports whether (x, y) lies inside the pixmap.
func (pm *Pixmap) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < pm.Width && y < pm.Height
}

// At returns a pointer to the pixel at (x, y). The coordinates must be in range.
func (pm *Pixmap) At(x, y int) *Pixel {
	return &pm.Pix[y*pm.Width+x]
}

// Clone returns a deep copy of the pixmap.
func (pm *Pixmap) Clone() *Pixmap {
	cp := &Pixmap{Width: pm.Width, Height: pm.Height, Pix: make([]Pixel, len(pm.Pix))}
	copy(cp.Pix, pm.Pix)
	return cp
}

// Image converts the pixmap into an opaque NRGBA image.
func (pm *Pixmap) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, pm.Width, pm.Height))
	for i, p := range pm.Pix {
		img.Pix[i*4+0] = p.R
		img.Pix[i*4+1] = p.G
		img.Pix[i*4+2] = p.B
		img.Pix[i*4+3] = 0xff
	}
	return img
}

// Lerp linearly interpolates between a and b.
func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// InverseLerp returns the factor t for which Lerp(a, b, t) equals v.
func InverseLerp(a, b, v float64) float64 {
	if a == b {
		return 0
	}
	return (v - a) / (b - a)
}

// clampChannel clamps v into [0, 255] and rounds it to the nearest level.
func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}

package stitchpaint

import (
	"image"
	"io"
	"os"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp" // register the BMP decoder
)

// GetImage retrieves the image found at the provided path.
func GetImage(path string) (*image.NRGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return DecodeImage(file)
}

// DecodeImage decodes a PNG, JPEG, GIF, BMP or TIFF image into an NRGBA image.
func DecodeImage(r io.Reader) (*image.NRGBA, error) {
	src, err := imaging.Decode(r)
	if err != nil {
		return nil, err
	}
	return imaging.Clone(src), nil
}

// Resample scales an image to the canvas size using nearest neighbour
// sampling, so that map colors are never blended.
func Resample(img image.Image, width, height int) *Pixmap {
	b := img.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return PixmapFromImage(img)
	}
	return PixmapFromImage(imaging.Resize(img, width, height, imaging.NearestNeighbor))
}

package stitch

import (
	"math"
	"math/rand"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// Sample is a stitch point together with the density of the subgrid it was drawn from.
type Sample struct {
	Pos     stitchpaint.Vec2
	Density uint8
}

// GenPoints samples stitch points from a density map. The map is split
// into square subgrids; darker subgrids are split into more jittered
// sub-cells, each of which receives one point.
func GenPoints(density *stitchpaint.Pixmap, size int, inflate float64, rng *rand.Rand) []Sample {
	var samples []Sample
	area := float64(size * size)

	for gy := 0; gy < density.Height/size; gy++ {
		for gx := 0; gx < density.Width/size; gx++ {
			var sum float64
			for y := gy * size; y < (gy+1)*size; y++ {
				for x := gx * size; x < (gx+1)*size; x++ {
					sum += float64(density.At(x, y).R)
				}
			}
			mean := sum / area

			ss := int(math.Ceil(math.Sqrt(inflate * area * (255 - mean) / 255)))
			if ss <= 0 {
				continue
			}
			step := float64(size) / float64(ss)
			d := uint8(255 - mean)
			for i := 0; i < ss; i++ {
				for j := 0; j < ss; j++ {
					samples = append(samples, Sample{
						Pos: stitchpaint.V(
							float64(gx*size)+float64(i)*step+rng.Float64()*step,
							float64(gy*size)+float64(j)*step+rng.Float64()*step,
						),
						Density: d,
					})
				}
			}
		}
	}
	return samples
}

package stitch

import (
	"math"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

// horizontalCos is |cos| above which a stitch counts as horizontal (45 degrees).
const horizontalCos = 0.7

// SCR returns the stitch count ratio: non horizontal stitches per
// horizontal stitch. It is zero when no stitch is horizontal.
func SCR(edges []Edge) float64 {
	var h int
	for _, e := range edges {
		if math.Abs(stitchpaint.Cosine(e.V.Sub(e.U), stitchpaint.V(1, 0))) > horizontalCos {
			h++
		}
	}
	if h == 0 {
		return 0
	}
	return float64(len(edges)-h) / float64(h)
}

// AlignmentMap shades the normal map at every stitch start by how well the
// stitch follows the field. Pixels without a stitch are white.
func AlignmentMap(normal *stitchpaint.Pixmap, f *Field, edges []Edge) *stitchpaint.Pixmap {
	out := stitchpaint.NewPixmap(normal.Width, normal.Height, stitchpaint.UnpaintedPixel)
	for _, e := range edges {
		x, y := e.U.Floor()
		if !out.In(x, y) {
			continue
		}
		a, ok := f.Alignment(e)
		if !ok {
			a = 1
		}
		p := normal.At(x, y)
		*out.At(x, y) = stitchpaint.Pixel{
			R: uint8(a * float64(p.R)),
			G: uint8(a * float64(p.G)),
			B: uint8(a * float64(p.B)),
		}
	}
	return out
}

// RMSError is the per channel root mean square difference between two
// equally sized pixmaps, ignoring pixels which are white in b.
func RMSError(a, b *stitchpaint.Pixmap) stitchpaint.Pixel {
	var r, g, bl float64
	var count int
	for i := range a.Pix {
		if i >= len(b.Pix) {
			break
		}
		p, q := a.Pix[i], b.Pix[i]
		if q == stitchpaint.UnpaintedPixel {
			continue
		}
		dr, dg, db := float64(p.R)-float64(q.R), float64(p.G)-float64(q.G), float64(p.B)-float64(q.B)
		r += dr * dr
		g += dg * dg
		bl += db * db
		count++
	}
	if count == 0 {
		return stitchpaint.Pixel{}
	}
	n := float64(count)
	return stitchpaint.Pixel{
		R: uint8(math.Sqrt(r / n)),
		G: uint8(math.Sqrt(g / n)),
		B: uint8(math.Sqrt(bl / n)),
	}
}

// maxStartCandidates bounds the candidates examined by chooseIsolated.
const maxStartCandidates = 256

// chooseIsolated returns the index of the densest sample farthest away
// from any sample of a different density.
func chooseIsolated(samples []Sample) int {
	var top uint8
	for _, s := range samples {
		top = max(top, s.Density)
	}
	var cands, others []int
	for i, s := range samples {
		if s.Density == top {
			cands = append(cands, i)
		} else {
			others = append(others, i)
		}
	}
	if len(others) == 0 {
		return cands[0]
	}
	stride := max(1, len(cands)/maxStartCandidates)

	best, bestDist := cands[0], -1.0
	for k := 0; k < len(cands); k += stride {
		p := samples[cands[k]].Pos
		closest := math.MaxFloat64
		for _, j := range others {
			closest = math.Min(closest, p.SqrDist(samples[j].Pos))
		}
		if closest > bestDist {
			best, bestDist = cands[k], closest
		}
	}
	return best
}

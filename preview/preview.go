// Package preview renders stitch plans and layer diagnostics as images.
package preview

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/stitch"
)

var (
	// RampStart and RampEnd color the first and the last stitch of a plan.
	RampStart = colorful.Color{R: 0.1, G: 0.3, B: 0.9}
	RampEnd   = colorful.Color{R: 0.95, G: 0.75, B: 0.1}

	jumpColor = color.NRGBA{R: 230, G: 30, B: 30, A: 255}
	offColor  = color.NRGBA{R: 255, G: 140, B: 0, A: 255}
)

// Options controls the rendering.
type Options struct {
	// Scale multiplies the canvas size. Values below 1 are treated as 1.
	Scale float64
	// Fade in [0, 1] whitens the background map so stitches stand out.
	Fade float64
	// LineWidth of the stitches in output pixels.
	LineWidth float64
	// HideOff disables the highlighting of stitches running against the field.
	HideOff bool
	// Field, when set, colors every stitch by its alignment: red across the
	// field through green along it. Stitches without a preferred direction
	// keep the path ramp.
	Field *stitch.Field
}

func (o Options) scale() float64 {
	if o.Scale < 1 {
		return 1
	}
	return o.Scale
}

// Scale enlarges a pixmap without blending its colors.
func Scale(pm *stitchpaint.Pixmap, scale float64) *image.RGBA {
	if scale < 1 {
		scale = 1
	}
	src := pm.Image()
	dst := image.NewRGBA(image.Rect(0, 0, int(float64(pm.Width)*scale), int(float64(pm.Height)*scale)))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

func background(dc *gg.Context, pm *stitchpaint.Pixmap, o Options) {
	if pm == nil {
		dc.SetColor(color.White)
		dc.Clear()
		return
	}
	dc.DrawImage(Scale(pm, o.scale()), 0, 0)
	if o.Fade > 0 {
		dc.SetRGBA(1, 1, 1, o.Fade)
		dc.DrawRectangle(0, 0, float64(dc.Width()), float64(dc.Height()))
		dc.Fill()
	}
}

// Stitches draws the final plan over the normal map used to plan it.
// Stitches are colored along the path from RampStart to RampEnd, jumps are
// dashed red and stitches off the field are orange.
func Stitches(normal *stitchpaint.Pixmap, segs []stitch.Segment, width, height int, o Options) image.Image {
	s := o.scale()
	dc := gg.NewContext(int(float64(width)*s), int(float64(height)*s))
	background(dc, normal, o)

	lw := o.LineWidth
	if lw <= 0 {
		lw = 1
	}
	dc.SetLineWidth(lw)
	for i, seg := range segs {
		t := 0.0
		if len(segs) > 1 {
			t = float64(i) / float64(len(segs)-1)
		}
		switch {
		case seg.Jump:
			dc.SetColor(jumpColor)
			dc.SetDash(3*lw, 2*lw)
		case seg.Off && !o.HideOff:
			dc.SetColor(offColor)
			dc.SetDash()
		default:
			dc.SetColor(stitchColor(o.Field, seg, t))
			dc.SetDash()
		}
		dc.DrawLine(seg.From.X*s, seg.From.Y*s, seg.To.X*s, seg.To.Y*s)
		dc.Stroke()
	}
	return dc.Image()
}

func stitchColor(f *stitch.Field, seg stitch.Segment, t float64) color.Color {
	if f != nil {
		if a, ok := f.Alignment(stitch.Edge{U: seg.From, V: seg.To}); ok {
			return colorful.Hsv(120*a, 0.9, 0.85).Clamped()
		}
	}
	return RampStart.BlendLab(RampEnd, t).Clamped()
}

// Result draws a finished plan over its normal map, colored by alignment
// with the planning field.
func Result(normal *stitchpaint.Pixmap, res *stitch.Result, o Options) image.Image {
	if o.Field == nil {
		o.Field = res.Field
	}
	return Stitches(normal, res.Segments, res.Width, res.Height, o)
}

// Layer draws the triangulation of a layer over its shaded output: the
// triangle fans in gray, the sites colored by hue around the color wheel
// and the nodes as black squares.
func Layer(l *stitchpaint.Layer, o Options) image.Image {
	s := o.scale()
	dc := gg.NewContext(int(float64(l.Width())*s), int(float64(l.Height())*s))
	normal, _ := l.Output()
	background(dc, normal, o)

	sites := l.Sites()
	dc.SetLineWidth(1)
	dc.SetRGBA(0.2, 0.2, 0.2, 0.6)
	for _, site := range sites {
		ids := site.Nodes()
		for i, id := range ids {
			a, b := l.Node(id), l.Node(ids[(i+1)%len(ids)])
			if a == nil || b == nil || a == b {
				continue
			}
			dc.MoveTo(site.Pos.X*s, site.Pos.Y*s)
			dc.LineTo(a.Pos.X*s, a.Pos.Y*s)
			dc.LineTo(b.Pos.X*s, b.Pos.Y*s)
			dc.ClosePath()
			dc.Stroke()
		}
	}

	for i, site := range sites {
		dc.SetColor(colorful.Hsv(float64(i*47%360), 0.8, 0.9))
		dc.DrawCircle(site.Pos.X*s, site.Pos.Y*s, 1.5*s)
		dc.Fill()
	}
	dc.SetRGB(0, 0, 0)
	for _, n := range l.Nodes() {
		dc.DrawRectangle(n.Pos.X*s-s/2, n.Pos.Y*s-s/2, s, s)
		dc.Fill()
	}
	return dc.Image()
}

// Save writes an image as PNG.
func Save(path string, img image.Image) error {
	return gg.SavePNG(path, img)
}

package stitchpaint_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

func TestDirectionToNormal(t *testing.T) {
	if p := stitchpaint.DirectionToNormal(stitchpaint.V(1, 0)); p != (stitchpaint.Pixel{R: 255, G: 127, B: 128}) {
		t.Fatalf("unexpected color for the x axis: %v", p)
	}
	// Up on screen points up in field space.
	up := stitchpaint.NormalToField(stitchpaint.DirectionToNormal(stitchpaint.V(0, -1)))
	if up.Y < 0.99 {
		t.Fatalf("expected the field to point up, got %v", up)
	}
	if p := stitchpaint.DirectionToNormal(stitchpaint.V(1e-4, 0)); p != stitchpaint.NeutralPixel {
		t.Fatalf("vanishing direction should be neutral, got %v", p)
	}
	if f := stitchpaint.NormalToField(stitchpaint.NeutralPixel); !f.IsZero() {
		t.Fatalf("neutral color should have no direction, got %v", f)
	}
}

func TestHalfNormal_RoundTrip(t *testing.T) {
	for _, positive := range []bool{true, false} {
		for deg := -80.0; deg <= 80; deg += 10 {
			rad := deg * math.Pi / 180
			dir := stitchpaint.V(math.Cos(rad), math.Sin(rad))

			p := stitchpaint.DirectionToHalfNormal(dir, positive)
			got := stitchpaint.HalfNormalToDirection(p, positive)
			if got.Dist(dir) > 0.03 {
				t.Fatalf("%v degrees (positive %v): decoded %v from %v", deg, positive, got, p)
			}
			if opp := stitchpaint.DirectionToHalfNormal(dir.Mul(-1), positive); opp != p {
				t.Fatalf("opposite directions should share a color: %v != %v", opp, p)
			}
		}
	}
}

func TestHSV(t *testing.T) {
	p := stitchpaint.HSVToPixel(120, 1, 1)
	if p != (stitchpaint.Pixel{G: 255}) {
		t.Fatalf("expected pure green, got %v", p)
	}
	h, s, v := stitchpaint.PixelToHSV(p)
	if math.Abs(h-120) > 1e-6 || s != 1 || v != 1 {
		t.Fatalf("unexpected hsv %v %v %v", h, s, v)
	}
}

func TestDensityPixel(t *testing.T) {
	for d := 0; d < 256; d++ {
		if got := stitchpaint.PixelDensity(stitchpaint.DensityPixel(uint8(d))); got != uint8(d) {
			t.Fatalf("density %d decoded as %d", d, got)
		}
	}
	if stitchpaint.DensityPixel(255) != stitchpaint.Gray(0) {
		t.Fatalf("densest stitching should be black")
	}
}

func TestBarycentric(t *testing.T) {
	a, b, c := stitchpaint.V(0, 0), stitchpaint.V(6, 0), stitchpaint.V(0, 6)

	u, v, w, ok := stitchpaint.Barycentric(a, b, c, a)
	if !ok || u != 1 || v != 0 || w != 0 {
		t.Fatalf("vertex should have unit weight, got %v %v %v", u, v, w)
	}
	u, v, w, _ = stitchpaint.Barycentric(a, b, c, stitchpaint.V(2, 2))
	for _, x := range []float64{u, v, w} {
		if math.Abs(x-1.0/3) > 1e-9 {
			t.Fatalf("centroid should have equal weights, got %v %v %v", u, v, w)
		}
	}
	if _, _, _, ok := stitchpaint.Barycentric(a, b, stitchpaint.V(3, 0), a); ok {
		t.Fatalf("degenerate triangle should be rejected")
	}
	if !stitchpaint.InTriangle(1.01, -0.01, 0) {
		t.Fatalf("small negative weights are within tolerance")
	}
	if stitchpaint.InTriangle(1.02, -0.02, 0) {
		t.Fatalf("weights below the tolerance are outside")
	}
}

func TestVec2(t *testing.T) {
	if c := stitchpaint.Cosine(stitchpaint.V(1, 0), stitchpaint.Vec2{}); c != 0 {
		t.Fatalf("cosine with a zero vector should be 0, got %v", c)
	}
	if p := stitchpaint.V(1, 0).Perp(); p != stitchpaint.V(0, 1) {
		t.Fatalf("unexpected perpendicular %v", p)
	}
	if n := stitchpaint.V(3, 4).Normalize(); math.Abs(n.Len()-1) > 1e-12 {
		t.Fatalf("normalized vector should have unit length, got %v", n.Len())
	}
	if x, y := stitchpaint.V(-0.5, 2.7).Floor(); x != -1 || y != 2 {
		t.Fatalf("unexpected floor %d %d", x, y)
	}
}

func TestZoneMap(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.NRGBA{G: 255, A: 255})
		img.Set(x, 1, color.White)
	}
	img.Set(3, 0, color.NRGBA{R: 255, A: 255})

	zm := stitchpaint.ParseZoneMap(img)
	if zm.Count() != 2 {
		t.Fatalf("expected 2 zones, got %d", zm.Count())
	}
	if zm.Zone(0, 0) != 0 || zm.Zone(3, 0) != 1 || zm.Zone(1, 1) != stitchpaint.NoZone {
		t.Fatalf("unexpected zones %d %d %d", zm.Zone(0, 0), zm.Zone(3, 0), zm.Zone(1, 1))
	}
	if zm.Zone(-1, 0) != stitchpaint.NoZone {
		t.Fatalf("pixels outside the map have no zone")
	}
	if area := zm.Area(); area[0] != 3 || area[1] != 1 {
		t.Fatalf("unexpected zone areas %v", area)
	}
}

func TestIDAllocator(t *testing.T) {
	a := stitchpaint.NewIDAllocator()
	for want := 1; want <= 3; want++ {
		if id := a.Next(); id != want {
			t.Fatalf("expected %d, got %d", want, id)
		}
	}
	if a.Last() != 3 {
		t.Fatalf("expected the last ID to be 3, got %d", a.Last())
	}
	if stitchpaint.NewIDAllocator().Next() != 1 {
		t.Fatalf("allocators should not share state")
	}
}

func TestDecodeImage(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			src.Set(x, y, color.NRGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatalf("failed encoding: %v", err)
	}
	img, err := stitchpaint.DecodeImage(&buf)
	if err != nil {
		t.Fatalf("failed decoding: %v", err)
	}
	pm := stitchpaint.PixmapFromImage(img)
	if pm.Width != 4 || pm.Height != 4 || *pm.At(3, 2) != (stitchpaint.Pixel{R: 180, G: 120}) {
		t.Fatalf("unexpected decoded image")
	}

	palette := make(map[stitchpaint.Pixel]bool)
	for _, p := range pm.Pix {
		palette[p] = true
	}
	big := stitchpaint.Resample(img, 8, 8)
	for _, p := range big.Pix {
		if !palette[p] {
			t.Fatalf("resampling should not blend colors, got %v", p)
		}
	}

	back := stitchpaint.PixmapFromImage(pm.Image())
	for i := range pm.Pix {
		if back.Pix[i] != pm.Pix[i] {
			t.Fatalf("pixmap image conversion changed pixel %d", i)
		}
	}
}

func TestStroke_Color(t *testing.T) {
	base := stitchpaint.Pixel{R: 10, G: 20, B: 30}
	st := stitchpaint.Stroke{From: stitchpaint.V(0, 0), To: stitchpaint.V(0, 5)}
	if c := st.Color(base); c != stitchpaint.NeutralPixel {
		t.Fatalf("short stroke should be neutral, got %v", c)
	}
	st = stitchpaint.Stroke{From: stitchpaint.V(0, 0), To: stitchpaint.V(200, 0), Mode: stitchpaint.StrokeBlend}
	if c := st.Color(base); c != (stitchpaint.Pixel{R: 10, G: 20, B: 255}) {
		t.Fatalf("long blend stroke should reach the full blend, got %v", c)
	}
}

package stitch_test

import (
	"math"
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/stitch"
)

func TestCost1_PrefersShortAlignedStitches(t *testing.T) {
	p := stitch.DefaultParams()
	o, n := stitchpaint.V(0, 0), stitchpaint.V(1, 0)

	aligned := p.Cost1(o, stitchpaint.V(1, 0), n)
	across := p.Cost1(o, stitchpaint.V(0, 1), n)
	long := p.Cost1(o, stitchpaint.V(3, 0), n)

	if aligned >= 0 || across >= 0 || long >= 0 {
		t.Fatalf("costs should be negative: %v %v %v", aligned, across, long)
	}
	if aligned >= across {
		t.Errorf("aligned stitch should cost less than a stitch across the field: %v >= %v", aligned, across)
	}
	if aligned >= long {
		t.Errorf("short stitch should cost less than a long one: %v >= %v", aligned, long)
	}
}

func TestCost1_NoDirection(t *testing.T) {
	p := stitch.DefaultParams()
	got := p.Cost1(stitchpaint.V(0, 0), stitchpaint.V(2, 0), stitchpaint.Vec2{})
	want := -math.Pow(p.Alpha1, -2)
	if math.Abs(got-want) > 1e-12 {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestCost2_PenalizesReversal(t *testing.T) {
	p := stitch.DefaultParams()
	u, v := stitchpaint.V(0, 0), stitchpaint.V(1, 0)

	straight := p.Cost2(u, v, stitchpaint.V(2, 0))
	turn := p.Cost2(u, v, stitchpaint.V(1, 1))
	back := p.Cost2(u, v, u)

	if !(straight < turn && turn < back) {
		t.Fatalf("expected straight < turn < reversal, got %v %v %v", straight, turn, back)
	}
}

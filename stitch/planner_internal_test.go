package stitch

import (
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
)

func TestFlag_LongInteriorStitchesAreJumps(t *testing.T) {
	v := stitchpaint.V
	edges := []Edge{
		{U: v(1, 1), V: v(2, 1)},
		{U: v(2, 1), V: v(14, 1)},
		{U: v(14, 1), V: v(15, 1)},
		{U: v(15, 1), V: v(15, 14)},
	}
	p := DefaultParams()
	out, swaps := Opt2Threshold(edges, p.LongEdgeThreshold, p.MaxOpt2Iterations)
	if swaps != 0 {
		t.Fatalf("no exchange can shorten the path, got %d", swaps)
	}
	if len(out) != 3 {
		t.Fatalf("the long final stitch should be dropped, got %v", out)
	}

	pl := NewPlanner(p)
	f := NewField(stitchpaint.NewPixmap(16, 16, horizontalField), 0, false)
	var st Stats
	segs := pl.flag(out, f, &st)
	for i, s := range segs {
		long := s.From.Dist(s.To) > p.LongEdgeThreshold
		if long != s.Jump {
			t.Fatalf("segment %d: long %v but jump %v", i, long, s.Jump)
		}
	}
	if st.LongStitches != 1 {
		t.Fatalf("expected one long stitch, got %d", st.LongStitches)
	}
	if last := segs[len(segs)-1]; last.From.Dist(last.To) > p.LongEdgeThreshold {
		t.Fatalf("the final stitch may not be long")
	}
}

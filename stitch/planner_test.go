package stitch_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/stitch"
)

// horizontal encodes a field pointing along the x axis.
var horizontal = stitchpaint.Pixel{R: 255, G: 128, B: 255}

func testParams() stitch.Params {
	p := stitch.DefaultParams()
	p.MaxOpt2Iterations = 200
	return p
}

func testMaps(size int, density uint8) (*stitchpaint.Pixmap, *stitchpaint.Pixmap) {
	return stitchpaint.NewPixmap(size, size, horizontal), stitchpaint.NewPixmap(size, size, stitchpaint.Gray(density))
}

func TestPlanner_Plan(t *testing.T) {
	normal, density := testMaps(16, 128)

	var stages []stitch.Stage
	pl := stitch.NewPlanner(testParams())
	pl.OnStage = func(s stitch.Stage) { stages = append(stages, s) }

	res, err := pl.Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	if len(res.Segments) == 0 {
		t.Fatalf("expected a non empty plan")
	}
	for i, s := range res.Segments {
		if i > 0 && s.From != res.Segments[i-1].To {
			t.Fatalf("segment %d does not start where the previous one ended", i)
		}
		for _, p := range []stitchpaint.Vec2{s.From, s.To} {
			if p.X < 0 || p.Y < 0 || p.X >= 16 || p.Y >= 16 {
				t.Fatalf("stitch point out of the canvas: %v", p)
			}
		}
	}

	st := res.Stats
	if st.Points != len(res.Samples) {
		t.Errorf("expected %d points, got %d", len(res.Samples), st.Points)
	}
	if st.TreeEdges == 0 || st.TreeEdges > st.Points-1 {
		t.Errorf("tree on %d points cannot have %d edges", st.Points, st.TreeEdges)
	}
	if res.Graph.EdgeCount() != st.TreeEdges {
		t.Errorf("cleanup should keep %d edges, got %d", st.TreeEdges, res.Graph.EdgeCount())
	}
	if st.Repaired > st.Jumps {
		t.Errorf("repaired %d of only %d jumps", st.Repaired, st.Jumps)
	}
	if st.OffPercent < 0 || st.OffPercent > 100 {
		t.Errorf("off percentage out of range: %v", st.OffPercent)
	}

	want := []stitch.Stage{
		stitch.StageSampled,
		stitch.StageGraphBuilt,
		stitch.StageShortestPathTree,
		stitch.StageJumpsFlagged,
		stitch.StageCleanedUp,
		stitch.StagePathLinearized,
		stitch.StageOpt2Stable,
	}
	if !reflect.DeepEqual(stages, want) {
		t.Fatalf("unexpected stages: %v", stages)
	}
}

func TestPlanner_Deterministic(t *testing.T) {
	normal, density := testMaps(12, 100)
	a, err := stitch.NewPlanner(testParams()).Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	b, err := stitch.NewPlanner(testParams()).Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	if !reflect.DeepEqual(a.Segments, b.Segments) {
		t.Fatalf("the same seed should give the same plan")
	}
}

func TestPlanner_IsolatedStart(t *testing.T) {
	normal, density := testMaps(16, 200)
	for x := 8; x < 12; x++ {
		for y := 8; y < 12; y++ {
			*density.At(x, y) = stitchpaint.Gray(0)
		}
	}
	p := testParams()
	p.Start = stitch.StartIsolated
	res, err := stitch.NewPlanner(p).Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	if res.Root.X < 8 || res.Root.X >= 12 || res.Root.Y < 8 || res.Root.Y >= 12 {
		t.Fatalf("root should be placed in the dark square, got %v", res.Root)
	}
}

func TestPlanner_EmptyDensity(t *testing.T) {
	normal, density := testMaps(16, 255)
	res, err := stitch.NewPlanner(testParams()).Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Segments) != 0 {
		t.Fatalf("white density map should not produce stitches")
	}
}

func TestPlanner_Errors(t *testing.T) {
	normal, _ := testMaps(16, 0)
	_, small := testMaps(8, 0)
	pl := stitch.NewPlanner(testParams())
	if _, err := pl.Plan(context.Background(), normal, small); !errors.Is(err, stitch.ErrSizeMismatch) {
		t.Fatalf("expected ErrSizeMismatch, got %v", err)
	}

	p := testParams()
	p.SubgridSize = 0
	if _, err := stitch.NewPlanner(p).Plan(context.Background(), normal, normal); err == nil {
		t.Fatalf("expected invalid parameters to be rejected")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, density := testMaps(16, 0)
	if _, err := pl.Plan(ctx, normal, density); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParams_Validate(t *testing.T) {
	if err := stitch.DefaultParams().Validate(); err != nil {
		t.Fatalf("default parameters should be valid: %v", err)
	}
	p := stitch.DefaultParams()
	p.Start = "corner"
	if err := p.Validate(); err == nil {
		t.Fatalf("unknown start strategy should be rejected")
	}
	p = stitch.DefaultParams()
	p.Radius = 0.5
	if err := p.Validate(); err == nil {
		t.Fatalf("radius below 1 should be rejected")
	}
}

func TestGenerateStitchPlan(t *testing.T) {
	normal, density := testMaps(8, 128)
	segs, err := stitch.GenerateStitchPlan(normal, density, 4)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	if len(segs) == 0 {
		t.Fatalf("expected a non empty plan")
	}
}

func BenchmarkPlanner_Plan(b *testing.B) {
	normal, density := testMaps(32, 128)
	pl := stitch.NewPlanner(testParams())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pl.Plan(context.Background(), normal, density); err != nil {
			b.Fatal(err)
		}
	}
}

package stitch_test

import (
	"math/rand"
	"reflect"
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/stitch"
)

func TestGenPoints_WhiteMapHasNoPoints(t *testing.T) {
	density := stitchpaint.NewPixmap(16, 16, stitchpaint.Gray(255))
	if pts := stitch.GenPoints(density, 4, 1.5, rand.New(rand.NewSource(1))); len(pts) != 0 {
		t.Fatalf("expected no points, got %d", len(pts))
	}
}

func TestGenPoints_DarkMap(t *testing.T) {
	density := stitchpaint.NewPixmap(16, 16, stitchpaint.Gray(0))
	pts := stitch.GenPoints(density, 4, 1.5, rand.New(rand.NewSource(1)))

	// ceil(sqrt(1.5*16)) = 5 points per side in each of the 16 subgrids.
	if len(pts) != 16*25 {
		t.Fatalf("expected %d points, got %d", 16*25, len(pts))
	}
	for _, s := range pts {
		if s.Pos.X < 0 || s.Pos.Y < 0 || s.Pos.X >= 16 || s.Pos.Y >= 16 {
			t.Fatalf("point out of bounds: %v", s.Pos)
		}
		if s.Density != 255 {
			t.Fatalf("expected full density, got %d", s.Density)
		}
	}
}

func TestGenPoints_DarkerMeansMorePoints(t *testing.T) {
	light := stitchpaint.NewPixmap(16, 16, stitchpaint.Gray(200))
	dark := stitchpaint.NewPixmap(16, 16, stitchpaint.Gray(50))

	nl := len(stitch.GenPoints(light, 4, 1.5, rand.New(rand.NewSource(1))))
	nd := len(stitch.GenPoints(dark, 4, 1.5, rand.New(rand.NewSource(1))))
	if nd <= nl {
		t.Fatalf("darker map should produce more points: %d <= %d", nd, nl)
	}
}

func TestGenPoints_Deterministic(t *testing.T) {
	density := stitchpaint.NewPixmap(12, 12, stitchpaint.Gray(90))
	a := stitch.GenPoints(density, 4, 1.5, rand.New(rand.NewSource(7)))
	b := stitch.GenPoints(density, 4, 1.5, rand.New(rand.NewSource(7)))
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("same seed should give the same points")
	}
}

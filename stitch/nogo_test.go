package stitch_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/stitch"
)

func TestReadSegments(t *testing.T) {
	in := "# wall\n8 0 8 16\n\n1.5 2 3 4.25\n"
	segs, err := stitch.ReadSegments(strings.NewReader(in))
	if err != nil {
		t.Fatalf("failed reading segments: %v", err)
	}
	want := []stitch.Edge{edge(8, 0, 8, 16), edge(1.5, 2, 3, 4.25)}
	if len(segs) != len(want) || segs[0] != want[0] || segs[1] != want[1] {
		t.Fatalf("unexpected segments %v", segs)
	}

	var buf bytes.Buffer
	if err := stitch.WriteSegments(&buf, segs); err != nil {
		t.Fatalf("failed writing segments: %v", err)
	}
	if buf.String() != "8 0 8 16\n1.5 2 3 4.25\n" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestReadSegments_Malformed(t *testing.T) {
	for _, in := range []string{"1 2 3\n", "1 2 x 4\n"} {
		if _, err := stitch.ReadSegments(strings.NewReader(in)); err == nil {
			t.Fatalf("expected an error for %q", in)
		}
	}
}

func TestPlanner_ForbiddenWall(t *testing.T) {
	normal, density := testMaps(16, 128)
	pl := stitch.NewPlanner(testParams())
	pl.Forbidden = []stitch.Edge{edge(8, -1, 8, 17)}

	res, err := pl.Plan(context.Background(), normal, density)
	if err != nil {
		t.Fatalf("planning failed: %v", err)
	}
	left := res.Root.X < 8
	for _, e := range res.Tree {
		for _, p := range []stitchpaint.Vec2{e.U, e.V} {
			if (p.X < 8) != left {
				t.Fatalf("tree crossed the wall at %v", e)
			}
		}
	}
}

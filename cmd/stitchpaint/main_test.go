package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	stitchpaint "github.com/esimov/stitchpaint/core"
	"github.com/esimov/stitchpaint/utils"
)

func TestStrokeEntry(t *testing.T) {
	var entries []strokeEntry
	data := `[{"from":[1,2],"to":[30,2]},{"from":[5,5],"to":[5,40],"polarity":false,"blend":true,"density":90}]`
	if err := json.Unmarshal([]byte(data), &entries); err != nil {
		t.Fatalf("failed decoding strokes: %v", err)
	}
	a, b := entries[0].stroke(), entries[1].stroke()
	if !a.Polarity || a.Mode != stitchpaint.StrokeDirection || a.To != stitchpaint.V(30, 2) {
		t.Fatalf("unexpected first stroke %+v", a)
	}
	if b.Polarity || b.Mode != stitchpaint.StrokeBlend || b.Density != 90 {
		t.Fatalf("unexpected second stroke %+v", b)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	strokes := filepath.Join(dir, "strokes.json")
	if err := os.WriteFile(strokes, []byte(`[{"from":[4,4],"to":[20,4]},{"from":[18,18],"to":[18,2],"density":200}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	config := filepath.Join(dir, "params.yaml")
	if err := os.WriteFile(config, []byte("max_opt2_iterations: 100\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	o := options{
		strokes:   strokes,
		width:     24,
		height:    24,
		mesh:      8,
		normalOut: filepath.Join(dir, "normal.png"),
		csv:       filepath.Join(dir, "plan.csv"),
		preview:   filepath.Join(dir, "preview.png"),
		jsonf:     filepath.Join(dir, "plan.json"),
		dst:       filepath.Join(dir, "plan.dst"),
		converter: "stitchpaint-missing-converter",
		scale:     2,
		config:    config,
	}
	if err := run(context.Background(), o, zap.NewNop()); err != nil {
		t.Fatalf("run failed: %v", err)
	}

	for _, f := range []string{o.normalOut, o.preview} {
		if ct, err := utils.DetectFileContentType(f); err != nil || ct != "image/png" {
			t.Fatalf("%s should be a png image: %s %v", f, ct, err)
		}
	}
	if _, err := os.Stat(o.dst); !os.IsNotExist(err) {
		t.Fatalf("no embroidery file expected without a converter")
	}
	csv, err := os.ReadFile(o.csv)
	if err != nil {
		t.Fatalf("missing csv output: %v", err)
	}
	if !strings.Contains(string(csv), `"END"`) {
		t.Fatalf("csv plan should be terminated")
	}

	var rep report
	data, err := os.ReadFile(o.jsonf)
	if err != nil {
		t.Fatalf("missing json output: %v", err)
	}
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("invalid json report: %v", err)
	}
	if rep.Width != 24 || rep.Sites == 0 || rep.Stats == nil || len(rep.Segments) == 0 {
		t.Fatalf("unexpected report %+v", rep)
	}
}

func TestBuildSession_Static(t *testing.T) {
	dir := t.TempDir()
	normal := filepath.Join(dir, "normal.png")
	img := stitchpaint.NewPixmap(6, 4, stitchpaint.Pixel{R: 255, G: 128, B: 128}).Image()
	if err := writeImage(normal, img); err != nil {
		t.Fatalf("failed writing the image: %v", err)
	}

	sess, err := buildSession(options{normal: normal}, zap.NewNop())
	if err != nil {
		t.Fatalf("failed building the session: %v", err)
	}
	if sess.Width() != 6 || sess.Height() != 4 || sess.Layer(0).Editable() {
		t.Fatalf("expected a static 6x4 session")
	}

	bad := filepath.Join(dir, "bad.png")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := buildSession(options{normal: bad}, zap.NewNop()); err == nil {
		t.Fatalf("expected non image files to be rejected")
	}
}

func TestReadNogos(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nogos.txt")
	if err := os.WriteFile(path, []byte("12 0 12 24\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	segs, err := readNogos(path)
	if err != nil || len(segs) != 1 || segs[0].U != stitchpaint.V(12, 0) {
		t.Fatalf("unexpected segments %v: %v", segs, err)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("12 0 12\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readNogos(bad); err == nil {
		t.Fatalf("expected malformed segments to be rejected")
	}

	o := options{width: 24, height: 24, mesh: 8, forbidden: bad, jsonf: filepath.Join(dir, "plan.json")}
	if err := run(context.Background(), o, zap.NewNop()); err == nil {
		t.Fatalf("run should fail on a malformed no-go file")
	}
}

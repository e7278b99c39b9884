package utils_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/esimov/stitchpaint/utils"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestProgressIndicator(t *testing.T) {
	var out syncBuffer
	pi := utils.NewProgressIndicatorTo(&out, "sampling", time.Millisecond)
	pi.StopMsg = "done\n"
	pi.Start()
	time.Sleep(5 * time.Millisecond)
	pi.Update("planning")
	pi.Stop()
	pi.Stop()

	s := out.String()
	for _, want := range []string{"sampling", "planning", "done\n"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output should contain %q: %q", want, s)
		}
	}
	if strings.Count(s, "done") != 1 {
		t.Fatalf("stop message should be printed once")
	}
	if !strings.HasSuffix(s, "done\n") {
		t.Fatalf("nothing should be written after stopping: %q", s)
	}
}

func TestProgressIndicator_StopWithoutStart(t *testing.T) {
	var out syncBuffer
	pi := utils.NewProgressIndicatorTo(&out, "idle", time.Millisecond)
	pi.Fail("failed")
	if !strings.Contains(out.String(), "failed") {
		t.Fatalf("failure message should be printed")
	}
}

func TestDetectFileContentType(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed creating the file: %v", err)
	}
	if err := png.Encode(f, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("failed encoding: %v", err)
	}
	f.Close()

	ct, err := utils.DetectFileContentType(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != "image/png" {
		t.Fatalf("expected image/png, got %s", ct)
	}
	if _, err := utils.DetectFileContentType(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/esimov/stitchpaint/stitch"
)

func TestLoadParams_Defaults(t *testing.T) {
	p, err := loadParams("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p != stitch.DefaultParams() {
		t.Fatalf("expected the default parameters, got %+v", p)
	}
}

func TestLoadParams_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.yaml")
	conf := "subgrid_size: 6\nradius: 8\nstart: isolated\nzigzag:\n  k: 2.5\n"
	if err := os.WriteFile(path, []byte(conf), 0o644); err != nil {
		t.Fatalf("failed writing the config: %v", err)
	}
	t.Setenv("STITCHPAINT_SEED", "42")
	t.Setenv("STITCHPAINT_ZIGZAG_MAX_HEIGHT", "0.9")

	p, err := loadParams(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.SubgridSize != 6 || p.Radius != 8 || p.Start != stitch.StartIsolated || p.ZigZag.K != 2.5 {
		t.Fatalf("config file values not applied: %+v", p)
	}
	if p.Seed != 42 || p.ZigZag.MaxHeight != 0.9 {
		t.Fatalf("environment values not applied: %+v", p)
	}
	if p.Alpha1 != stitch.DefaultParams().Alpha1 {
		t.Fatalf("unset values should keep their default")
	}
}

func TestLoadParams_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	if err := os.WriteFile(path, []byte(`{"bucket_size": 0}`), 0o644); err != nil {
		t.Fatalf("failed writing the config: %v", err)
	}
	if _, err := loadParams(path); err == nil {
		t.Fatalf("expected invalid parameters to be rejected")
	}
	if _, err := loadParams(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected an error for a missing config file")
	}
}

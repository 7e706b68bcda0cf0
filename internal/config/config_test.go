package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadAndResolve(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"output_dir": "out",
		"render_size": 512,
		"webp_quality": 75,
		"camera_yaw": 30
	}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Resolve(Flags{}, "walk.bvh")

	if cfg.OutputDir != "out" {
		t.Errorf("OutputDir = %q, want out", cfg.OutputDir)
	}
	if cfg.RenderSize != 512 {
		t.Errorf("RenderSize = %d, want 512", cfg.RenderSize)
	}
	if cfg.WebPQuality != 75 {
		t.Errorf("WebPQuality = %d, want 75", cfg.WebPQuality)
	}
	if cfg.CameraYaw != 30 {
		t.Errorf("CameraYaw = %v, want 30", cfg.CameraYaw)
	}
	// Unset fields pick up defaults.
	if cfg.Supersample != 2 {
		t.Errorf("Supersample = %d, want 2", cfg.Supersample)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", cfg.Workers)
	}
	if cfg.FrameStride != 1 {
		t.Errorf("FrameStride = %d, want 1", cfg.FrameStride)
	}
}

func TestResolveFlagOverrides(t *testing.T) {
	cfg := Config{OutputDir: "from-config", WebPQuality: 50}
	cfg.Resolve(Flags{OutputDir: "from-flag", Quality: 80, Workers: 3, Stride: 4}, "walk.bvh")

	if cfg.OutputDir != "from-flag" {
		t.Errorf("OutputDir = %q, flag should win", cfg.OutputDir)
	}
	if cfg.WebPQuality != 80 {
		t.Errorf("WebPQuality = %d, want 80", cfg.WebPQuality)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d, want 3", cfg.Workers)
	}
	if cfg.FrameStride != 4 {
		t.Errorf("FrameStride = %d, want 4", cfg.FrameStride)
	}
}

func TestResolveDefaultOutputDir(t *testing.T) {
	var cfg Config
	cfg.Resolve(Flags{}, filepath.Join("clips", "run01.bvh"))
	if cfg.OutputDir != "run01-frames" {
		t.Errorf("OutputDir = %q, want run01-frames", cfg.OutputDir)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing config file")
	}
}

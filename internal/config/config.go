package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// Config holds all configurable paths and render settings.
type Config struct {
	// Paths
	OutputDir  string `json:"output_dir"`
	RigProfile string `json:"rig_profile"`

	// Render settings
	RenderSize  int     `json:"render_size"`
	Supersample int     `json:"supersample"`
	WebPQuality int     `json:"webp_quality"`
	Workers     int     `json:"workers"`
	FrameStride int     `json:"frame_stride"`
	CameraYaw   float64 `json:"camera_yaw"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	OutputDir  string
	RigProfile string
	Quality    int
	Workers    int
	Stride     int
}

// Resolve applies CLI overrides and fills remaining empty fields with
// defaults. inputPath seeds the default output directory.
func (c *Config) Resolve(flags Flags, inputPath string) {
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.RigProfile != "" {
		c.RigProfile = flags.RigProfile
	}
	if flags.Quality > 0 {
		c.WebPQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Stride > 0 {
		c.FrameStride = flags.Stride
	}

	if c.OutputDir == "" && inputPath != "" {
		base := filepath.Base(inputPath)
		c.OutputDir = base[:len(base)-len(filepath.Ext(base))] + "-frames"
	}

	if c.RenderSize <= 0 {
		c.RenderSize = 256
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.WebPQuality <= 0 {
		c.WebPQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.FrameStride <= 0 {
		c.FrameStride = 1
	}
}

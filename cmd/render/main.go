package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"bvh-skeleton-renderer/internal/batch"
	"bvh-skeleton-renderer/internal/bvh"
	"bvh-skeleton-renderer/internal/config"
	"bvh-skeleton-renderer/internal/normalize"
	"bvh-skeleton-renderer/internal/rigprofile"
	"bvh-skeleton-renderer/internal/skeleton"
)

func main() {
	// CLI flags
	inPath := flag.String("in", "", "Path to input BVH file")
	configFile := flag.String("config", "", "Path to config.json file")
	outputDir := flag.String("output", "", "Output directory (default: <name>-frames)")
	profile := flag.String("profile", "", "Rig profile JSON with custom joint-name heuristics")
	testN := flag.Int("test", 0, "Render only first N frames for testing")
	stride := flag.Int("stride", 0, "Render every Nth frame (default: 1)")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	quality := flag.Int("quality", 0, "WebP quality 1-100 (default: 90)")

	flag.Parse()

	if *inPath == "" && flag.NArg() > 0 {
		*inPath = flag.Arg(0)
	}
	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "Error: no input BVH file. Use -in flag.")
		os.Exit(1)
	}

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		OutputDir:  *outputDir,
		RigProfile: *profile,
		Quality:    *quality,
		Workers:    *workers,
		Stride:     *stride,
	}, *inPath)

	// Parse BVH
	doc, err := bvh.ParseFile(*inPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	for _, w := range doc.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}

	rig := skeleton.NewRig(doc)

	// Normalization heuristics, optionally overridden by a rig profile
	heur := normalize.Defaults()
	if cfg.RigProfile != "" {
		heur, err = rigprofile.Load(cfg.RigProfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: rig profile: %v\n", err)
		}
	}
	norm := normalize.Compute(rig, heur)

	// Select frames
	var frames []int
	for i := 0; i < doc.NFrames(); i += cfg.FrameStride {
		frames = append(frames, i)
	}
	if *testN > 0 && *testN < len(frames) {
		frames = frames[:*testN]
	}
	if len(frames) == 0 {
		fmt.Println("No frames to render.")
		os.Exit(0)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Printf("BVH Skeleton Renderer → WebP\n")
	fmt.Printf("Bones: %d, Channels: %d, Frames: %d @ %.1f fps\n",
		len(rig.Bones), doc.TotalChannels, doc.NFrames(), doc.FPS())
	if norm.Fallback {
		fmt.Printf("Normalization: bounding-box fallback, scale %.4f\n", norm.Scale)
	} else {
		fmt.Printf("Normalization: scale %.4f, offset %.2f\n", norm.Scale, norm.VerticalOffset)
	}
	fmt.Printf("Rendering: %d frames, Workers: %d\n", len(frames), cfg.Workers)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	start := time.Now()

	results := batch.Run(batch.Config{
		OutputDir:   cfg.OutputDir,
		Rig:         rig,
		Norm:        norm,
		RenderSize:  cfg.RenderSize,
		Supersample: cfg.Supersample,
		WebPQuality: cfg.WebPQuality,
		Workers:     cfg.Workers,
		CameraYaw:   cfg.CameraYaw,
		ViewHeight:  heur.CanonicalHeight * 1.2,
	}, frames)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())

	success, failed := 0, 0
	var errors []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
			errors = append(errors, r)
		}
	}
	fmt.Printf("Rendered: %d/%d\n", success, len(frames))

	if len(errors) > 0 {
		fmt.Printf("\nFailed (%d):\n", failed)
		limit := 20
		if len(errors) < limit {
			limit = len(errors)
		}
		for _, e := range errors[:limit] {
			fmt.Printf("  frame %d: %s\n", e.Frame, e.Error)
		}
	}

	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, doc, norm, frames); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: manifest write failed: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if failed > 0 {
		os.Exit(1)
	}
}

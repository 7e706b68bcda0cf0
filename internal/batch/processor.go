package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"bvh-skeleton-renderer/internal/mathutil"
	"bvh-skeleton-renderer/internal/normalize"
	"bvh-skeleton-renderer/internal/postprocess"
	"bvh-skeleton-renderer/internal/raster"
	"bvh-skeleton-renderer/internal/skeleton"

	"github.com/HugoSmits86/nativewebp"
)

// Config holds all shared resources for a batch run. Rig and Norm are
// read-only across workers; each worker carries its own pose buffer.
type Config struct {
	OutputDir   string
	Rig         *skeleton.Rig
	Norm        normalize.Normalization
	RenderSize  int
	Supersample int
	WebPQuality int
	Workers     int
	CameraYaw   float64
	ViewHeight  float64
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame   int
	Success bool
	Error   string
}

// Run renders the given frame indices using a worker pool.
func Run(cfg Config, frames []int) []Result {
	total := len(frames)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					elapsed := time.Since(start).Seconds()
					rate := float64(p) / elapsed
					fmt.Printf("  [%d/%d] %.1f frames/sec\n", p, total, rate)
				}
			}
		}
	}()

	// Worker pool
	frameChan := make(chan int, cfg.Workers*2)
	var wg sync.WaitGroup

	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pose := make([]mathutil.Vec3, len(cfg.Rig.Bones))
			for idx := range frameChan {
				results[idx] = renderFrame(cfg, frames[idx], pose)
				processed.Add(1)
			}
		}()
	}

	for i := range frames {
		frameChan <- i
	}
	close(frameChan)

	wg.Wait()
	close(done)

	return results
}

func renderFrame(cfg Config, frame int, pose []mathutil.Vec3) Result {
	if !cfg.Rig.Evaluate(frame, pose) {
		return Result{Frame: frame, Error: fmt.Sprintf("frame %d out of range", frame)}
	}

	img := raster.RenderSkeleton(cfg.Rig, pose, cfg.Norm, raster.Options{
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		YawDeg:      cfg.CameraYaw,
		ViewHeight:  cfg.ViewHeight,
	})
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.RenderSize)
	}

	outPath := filepath.Join(cfg.OutputDir, FrameFileName(frame))
	f, err := os.Create(outPath)
	if err != nil {
		return Result{Frame: frame, Error: err.Error()}
	}
	defer f.Close()

	if err := nativewebp.Encode(f, img, nil); err != nil {
		return Result{Frame: frame, Error: fmt.Sprintf("WebP encode: %v", err)}
	}
	return Result{Frame: frame, Success: true}
}

// FrameFileName returns the output file name for one frame index.
func FrameFileName(frame int) string {
	return fmt.Sprintf("frame_%05d.webp", frame)
}

package raster

import (
	"image"

	"bvh-skeleton-renderer/internal/mathutil"
	"bvh-skeleton-renderer/internal/normalize"
	"bvh-skeleton-renderer/internal/skeleton"
)

// Options holds per-run render settings.
type Options struct {
	Size        int     // output canvas edge in pixels
	Supersample int     // internal oversampling factor, >= 1
	YawDeg      float64 // camera rotation around the vertical axis
	ViewHeight  float64 // world units mapped onto the canvas height
}

// Bone and joint colors. Root gets its own color so orientation is visible.
var (
	boneColor  = [4]uint8{235, 235, 245, 255}
	jointColor = [4]uint8{120, 180, 255, 255}
	rootColor  = [4]uint8{255, 160, 80, 255}
)

// RenderSkeleton projects one evaluated pose orthographically and draws
// bone segments plus joint markers into an NRGBA image. positions are raw
// world positions; the normalization transform is applied here. Marker and
// line sizes are fixed in screen space, so they stay constant under the
// normalization scale.
func RenderSkeleton(rig *skeleton.Rig, positions []mathutil.Vec3, norm normalize.Normalization, opts Options) *image.NRGBA {
	if opts.Supersample < 1 {
		opts.Supersample = 1
	}
	renderSize := opts.Size * opts.Supersample
	fb := NewFrameBuffer(renderSize, renderSize)

	view := mathutil.Mat4RotY(mathutil.Deg2Rad(opts.YawDeg))
	margin := 16 * opts.Supersample
	pxPerUnit := float64(renderSize-2*margin) / opts.ViewHeight

	// Project to screen space: x centered, y flipped (y-up world,
	// y-down image) with the ground line near the bottom margin.
	px := make([]int, len(rig.Bones))
	py := make([]int, len(rig.Bones))
	for i, p := range positions {
		d := view.MulPoint(norm.Apply(p))
		px[i] = renderSize/2 + int(d[0]*pxPerUnit+0.5)
		py[i] = renderSize - margin - int(d[1]*pxPerUnit+0.5)
	}

	thickness := opts.Supersample
	for i, b := range rig.Bones {
		if b.Parent < 0 {
			continue
		}
		DrawSegment(fb, px[b.Parent], py[b.Parent], px[i], py[i], thickness,
			boneColor[0], boneColor[1], boneColor[2], boneColor[3])
	}
	for i, b := range rig.Bones {
		c := jointColor
		if b.Parent < 0 {
			c = rootColor
		}
		FillDot(fb, px[i], py[i], 2*opts.Supersample, c[0], c[1], c[2], c[3])
	}

	img := image.NewNRGBA(image.Rect(0, 0, renderSize, renderSize))
	copy(img.Pix, fb.Color)
	return img
}

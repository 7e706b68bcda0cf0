package postprocess

import (
	"image"
	"testing"
)

func TestDownsampleHalves(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	// Opaque white square in the middle of a transparent canvas.
	for y := 16; y < 48; y++ {
		for x := 16; x < 48; x++ {
			i := src.PixOffset(x, y)
			src.Pix[i] = 255
			src.Pix[i+1] = 255
			src.Pix[i+2] = 255
			src.Pix[i+3] = 255
		}
	}

	out := Downsample(src, 32)
	if out.Bounds().Dx() != 32 || out.Bounds().Dy() != 32 {
		t.Fatalf("bounds = %v, want 32x32", out.Bounds())
	}

	// Center of the square stays white and opaque.
	i := out.PixOffset(16, 16)
	if out.Pix[i+3] != 255 {
		t.Errorf("center alpha = %d, want 255", out.Pix[i+3])
	}
	if out.Pix[i] < 250 || out.Pix[i+1] < 250 || out.Pix[i+2] < 250 {
		t.Errorf("center color = %d,%d,%d, want near-white (no dark halo)",
			out.Pix[i], out.Pix[i+1], out.Pix[i+2])
	}

	// Far corner stays transparent.
	j := out.PixOffset(0, 0)
	if out.Pix[j+3] != 0 {
		t.Errorf("corner alpha = %d, want 0", out.Pix[j+3])
	}
}

func TestDownsampleNoOpWhenSmallEnough(t *testing.T) {
	src := image.NewNRGBA(image.Rect(0, 0, 16, 16))
	if out := Downsample(src, 32); out != src {
		t.Error("image within target size should pass through unchanged")
	}
}

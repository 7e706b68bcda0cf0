package postprocess

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample reduces a supersampled render to the target size with
// CatmullRom filtering. Alpha is premultiplied before scaling and divided
// back out afterwards, which avoids dark halos where bone strokes meet the
// transparent background.
func Downsample(img *image.NRGBA, targetSize int) *image.NRGBA {
	b := img.Bounds()
	if b.Dx() <= targetSize && b.Dy() <= targetSize {
		return img
	}

	premul := image.NewRGBA(b)
	for i := 0; i+3 < len(img.Pix); i += 4 {
		a := uint32(img.Pix[i+3])
		premul.Pix[i] = uint8((uint32(img.Pix[i])*a + 127) / 255)
		premul.Pix[i+1] = uint8((uint32(img.Pix[i+1])*a + 127) / 255)
		premul.Pix[i+2] = uint8((uint32(img.Pix[i+2])*a + 127) / 255)
		premul.Pix[i+3] = img.Pix[i+3]
	}

	dst := image.NewRGBA(image.Rect(0, 0, targetSize, targetSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), premul, premul.Bounds(), draw.Src, nil)

	out := image.NewNRGBA(dst.Bounds())
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		a := uint32(dst.Pix[i+3])
		if a > 1 {
			out.Pix[i] = clamp8(uint32(dst.Pix[i]) * 255 / a)
			out.Pix[i+1] = clamp8(uint32(dst.Pix[i+1]) * 255 / a)
			out.Pix[i+2] = clamp8(uint32(dst.Pix[i+2]) * 255 / a)
		}
		out.Pix[i+3] = dst.Pix[i+3]
	}
	return out
}

func clamp8(v uint32) uint8 {
	if v > 255 {
		return 255
	}
	return uint8(v)
}

package pipeline

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// ITU-R 601-2 luma weights.
const (
	lumaR = 0.299
	lumaG = 0.587
	lumaB = 0.114
)

// Grayscale converts img to single-channel luminance and stretches the result
// so the darkest pixel maps to 0 and the lightest to 255. Flat images are
// returned unchanged. Already grayscale input skips the luma conversion, which
// makes the step idempotent.
func Grayscale(img image.Image) (image.Image, error) {
	var gray *image.Gray
	if g, ok := img.(*image.Gray); ok {
		gray = cloneGray(g)
	} else {
		gray = luma(img)
	}
	autocontrast(gray)
	return gray, nil
}

// luma runs the weighted conversion through bild, which returns an RGBA image
// with equal channels, and keeps one channel of it.
func luma(img image.Image) *image.Gray {
	bounds := img.Bounds()
	if bounds.Empty() {
		return image.NewGray(image.Rect(0, 0, 0, 0))
	}

	rgba := effect.GrayscaleWithWeights(img, lumaR, lumaG, lumaB)
	w, h := rgba.Rect.Dx(), rgba.Rect.Dy()
	dst := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		src := rgba.Pix[y*rgba.Stride : y*rgba.Stride+w*4]
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w]
		for x := range row {
			row[x] = src[x*4]
		}
	}
	return dst
}

func autocontrast(img *image.Gray) {
	lo, hi, ok := grayRange(img)
	if !ok || hi <= lo {
		return
	}

	span := int(hi) - int(lo)

	// integer math keeps lo at exactly 0 and hi at exactly 255
	var lut [256]uint8
	for i := range lut {
		v := (i - int(lo)) * 255 / span
		lut[i] = uint8(clamp(v, 0, 255))
	}

	w := img.Rect.Dx()
	for y := 0; y < img.Rect.Dy(); y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			row[x] = lut[v]
		}
	}
}

func grayRange(img *image.Gray) (lo, hi uint8, ok bool) {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	if w == 0 || h == 0 {
		return 0, 0, false
	}

	lo, hi = 255, 0
	for y := 0; y < h; y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+w] {
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	return lo, hi, true
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(image.Rect(0, 0, src.Rect.Dx(), src.Rect.Dy()))
	w := src.Rect.Dx()
	for y := 0; y < src.Rect.Dy(); y++ {
		copy(dst.Pix[y*dst.Stride:y*dst.Stride+w], src.Pix[y*src.Stride:y*src.Stride+w])
	}
	return dst
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

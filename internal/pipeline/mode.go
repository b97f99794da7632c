package pipeline

import (
	"image"

	"github.com/disintegration/imaging"
)

// Mode names the pixel layout of an image.
type Mode string

const (
	ModeGray Mode = "L"
	ModeRGB  Mode = "RGB"
	ModeRGBA Mode = "RGBA"
)

type opaquer interface {
	Opaque() bool
}

func ModeOf(img image.Image) Mode {
	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return ModeGray
	}
	if o, ok := img.(opaquer); ok && !o.Opaque() {
		return ModeRGBA
	}
	return ModeRGB
}

// ToRGB returns an opaque copy of img anchored at the origin. Alpha is
// dropped rather than blended, so straight color values are kept as is.
func ToRGB(img image.Image) *image.RGBA {
	src := imaging.Clone(img)
	dst := image.NewRGBA(src.Rect)
	for y := 0; y < src.Rect.Dy(); y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+src.Rect.Dx()*4]
		d := dst.Pix[y*dst.Stride : y*dst.Stride+dst.Rect.Dx()*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+0]
			d[i+1] = s[i+1]
			d[i+2] = s[i+2]
			d[i+3] = 0xff
		}
	}
	return dst
}

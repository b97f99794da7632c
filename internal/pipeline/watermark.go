package pipeline

import (
	"image"
	"image/color"

	"github.com/dunamismax/pixelcraft/internal/domain"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// watermarkColor is white at 120/255 opacity.
var watermarkColor = color.NRGBA{R: 255, G: 255, B: 255, A: 120}

// Watermark draws text centered over img on a transparent layer, blends the
// layer over an opaque copy of img and returns that copy.
func Watermark(img image.Image, text string, fonts *FontLoader) (image.Image, error) {
	if text == "" {
		return nil, domain.ErrEmptyWatermarkText
	}
	if fonts == nil {
		fonts = DefaultFontLoader()
	}

	base := ToRGB(img)
	bounds := base.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	face := fonts.Face(text, width, height)
	defer face.Close()

	ink, _ := font.BoundString(face, text)
	textW := (ink.Max.X - ink.Min.X).Ceil()
	textH := (ink.Max.Y - ink.Min.Y).Ceil()
	x := (width - textW) / 2
	y := (height - textH) / 2

	layer := image.NewNRGBA(bounds)
	drawer := &font.Drawer{
		Dst:  layer,
		Src:  image.NewUniform(watermarkColor),
		Face: face,
		Dot:  fixed.Point26_6{X: fixed.I(x) - ink.Min.X, Y: fixed.I(y) - ink.Min.Y},
	}
	drawer.DrawString(text)

	// base is opaque, so Over keeps every pixel opaque.
	draw.Draw(base, bounds, layer, bounds.Min, draw.Over)
	return base, nil
}

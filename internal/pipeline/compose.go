package pipeline

import (
	"image"

	"github.com/dunamismax/pixelcraft/internal/domain"
)

// Composer builds pipelines from transformation requests.
type Composer struct {
	Fonts *FontLoader
}

// Compose builds a pipeline using the default font loader.
func Compose(req domain.TransformRequest) (Pipeline, error) {
	return Composer{}.Compose(req)
}

// Compose validates req and returns its steps in the fixed order
// watermark, rotate, grayscale. The order does not depend on how the
// request was assembled.
func (c Composer) Compose(req domain.TransformRequest) (Pipeline, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	fonts := c.Fonts
	if fonts == nil {
		fonts = DefaultFontLoader()
	}

	steps := make(Pipeline, 0, 3)
	if req.Watermark != nil && req.Watermark.Text != "" {
		text := req.Watermark.Text
		steps = append(steps, Step{
			Name: StepWatermark,
			Apply: func(img image.Image) (image.Image, error) {
				return Watermark(img, text, fonts)
			},
		})
	}
	if req.Rotation != nil {
		rotation := *req.Rotation
		steps = append(steps, Step{
			Name: StepRotate,
			Apply: func(img image.Image) (image.Image, error) {
				return Rotate(img, rotation.Degrees, rotation.Direction)
			},
		})
	}
	if req.Grayscale {
		steps = append(steps, Step{
			Name:  StepGrayscale,
			Apply: Grayscale,
		})
	}
	return steps, nil
}

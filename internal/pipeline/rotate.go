package pipeline

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/dunamismax/pixelcraft/internal/domain"
)

// rotationFill paints the corners uncovered by a non-right-angle rotation.
var rotationFill = color.Gray{Y: 0}

// Rotate turns img by degrees, counter-clockwise for DirectionLeft and
// clockwise for DirectionRight. The canvas grows to fit the rotated content.
// Multiples of 90 degrees are exact transposes.
func Rotate(img image.Image, degrees float64, direction domain.Direction) (image.Image, error) {
	if err := (domain.Rotation{Degrees: degrees, Direction: direction}).Validate(); err != nil {
		return nil, err
	}

	angle := degrees
	if direction == domain.DirectionRight {
		angle = -degrees
	}
	return imaging.Rotate(img, angle, rotationFill), nil
}

package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Direction is the rotation sense: left is counter-clockwise, right is
// clockwise.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

var (
	ErrInvalidRequest            = errors.New("invalid request")
	ErrInvalidInputPath          = errors.New("image not found")
	ErrEmptyWatermarkText        = errors.New("watermark text cannot be empty")
	ErrNegativeRotationDegrees   = errors.New("rotation degrees must be zero or positive")
	ErrNonFiniteRotationDegrees  = errors.New("rotation degrees must be a finite number")
	ErrInvalidDirection          = errors.New("rotation direction must be left or right")
	ErrNoTransformationRequested = errors.New("provide at least one transformation option")
)

// TransformRequest is the set of operations requested for one image.
// Field order carries no meaning; the pipeline order is fixed.
type TransformRequest struct {
	Grayscale bool
	Watermark *Watermark
	Rotation  *Rotation
}

// Watermark requests centered overlay text.
type Watermark struct {
	Text string
}

// Rotation requests a turn by Degrees in Direction.
type Rotation struct {
	Degrees   float64
	Direction Direction
}

// ParseDirection accepts "left" or "right" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionRight:
		return DirectionRight, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}

func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Empty reports whether no transformation was requested.
func (r TransformRequest) Empty() bool {
	return !r.Grayscale && r.Watermark == nil && r.Rotation == nil
}

// Validate reports the first problem with r. The returned error matches both
// ErrInvalidRequest and the specific kind under errors.Is.
func (r TransformRequest) Validate() error {
	if r.Watermark != nil && strings.TrimSpace(r.Watermark.Text) == "" {
		return invalid(ErrEmptyWatermarkText)
	}
	if r.Rotation != nil {
		if err := r.Rotation.Validate(); err != nil {
			return invalid(err)
		}
	}
	return nil
}

// Validate checks degrees before direction. Non-finite degrees are rejected
// ahead of negative ones.
func (r Rotation) Validate() error {
	if math.IsNaN(r.Degrees) || math.IsInf(r.Degrees, 0) {
		return ErrNonFiniteRotationDegrees
	}
	if r.Degrees < 0 {
		return ErrNegativeRotationDegrees
	}
	if !r.Direction.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDirection, r.Direction)
	}
	return nil
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", ErrInvalidRequest, err)
}

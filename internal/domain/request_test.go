package domain

import (
	"errors"
	"math"
	"testing"
)

func TestTransformRequestValidate(t *testing.T) {
	valid := TransformRequest{
		Grayscale: true,
		Watermark: &Watermark{Text: "PyBR"},
		Rotation:  &Rotation{Degrees: 90, Direction: DirectionLeft},
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid request, got error: %v", err)
	}

	if err := (TransformRequest{}).Validate(); err != nil {
		t.Fatalf("expected empty request to validate, got: %v", err)
	}

	tests := []struct {
		name string
		req  TransformRequest
		want error
	}{
		{"empty watermark", TransformRequest{Watermark: &Watermark{Text: ""}}, ErrEmptyWatermarkText},
		{"whitespace watermark", TransformRequest{Watermark: &Watermark{Text: " \t\n"}}, ErrEmptyWatermarkText},
		{"negative degrees", TransformRequest{Rotation: &Rotation{Degrees: -1, Direction: DirectionRight}}, ErrNegativeRotationDegrees},
		{"nan degrees", TransformRequest{Rotation: &Rotation{Degrees: math.NaN(), Direction: DirectionRight}}, ErrNonFiniteRotationDegrees},
		{"inf degrees", TransformRequest{Rotation: &Rotation{Degrees: math.Inf(1), Direction: DirectionLeft}}, ErrNonFiniteRotationDegrees},
		{"bad direction", TransformRequest{Rotation: &Rotation{Degrees: 10, Direction: "up"}}, ErrInvalidDirection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("expected error to wrap ErrInvalidRequest, got %v", err)
			}
		})
	}
}

func TestTransformRequestEmpty(t *testing.T) {
	if !(TransformRequest{}).Empty() {
		t.Fatal("expected zero request to be empty")
	}
	if (TransformRequest{Grayscale: true}).Empty() {
		t.Fatal("expected grayscale request to be non-empty")
	}
	if (TransformRequest{Rotation: &Rotation{Degrees: 0, Direction: DirectionRight}}).Empty() {
		t.Fatal("expected zero-degree rotation to count as requested")
	}
}

func TestParseDirection(t *testing.T) {
	for in, want := range map[string]Direction{
		"left":   DirectionLeft,
		"RIGHT":  DirectionRight,
		" left ": DirectionLeft,
	} {
		got, err := ParseDirection(in)
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDirection(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseDirection("sideways"); !errors.Is(err, ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

package pipeline

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/dunamismax/pixelcraft/internal/domain"
)

func TestRotate_SwapsDimensions(t *testing.T) {
	src := solidImage(100, 50, color.RGBA{255, 0, 0, 255})

	for _, dir := range []domain.Direction{domain.DirectionLeft, domain.DirectionRight} {
		for _, degrees := range []float64{90, 270} {
			out, err := Rotate(src, degrees, dir)
			if err != nil {
				t.Fatalf("rotate %s %v: %v", dir, degrees, err)
			}
			assertSize(t, out, 50, 100)
		}
	}
}

func TestRotate_RoundTrip(t *testing.T) {
	src := gradientImage(100, 50)

	left, err := Rotate(src, 90, domain.DirectionLeft)
	if err != nil {
		t.Fatalf("rotate left: %v", err)
	}
	back, err := Rotate(left, 90, domain.DirectionRight)
	if err != nil {
		t.Fatalf("rotate right: %v", err)
	}

	assertSize(t, back, 100, 50)
	if differs(src, back) {
		t.Fatal("right-angle round trip should be lossless")
	}
}

func TestRotate_Direction(t *testing.T) {
	a := color.RGBA{255, 0, 0, 255}
	b := color.RGBA{0, 0, 255, 255}

	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.Set(0, 0, a)
	src.Set(1, 0, b)

	tests := []struct {
		dir       domain.Direction
		top, down color.RGBA
	}{
		// counter-clockwise: the right-hand pixel ends on top
		{domain.DirectionLeft, b, a},
		// clockwise: the left-hand pixel ends on top
		{domain.DirectionRight, a, b},
	}

	for _, tt := range tests {
		t.Run(string(tt.dir), func(t *testing.T) {
			out, err := Rotate(src, 90, tt.dir)
			if err != nil {
				t.Fatalf("rotate: %v", err)
			}
			assertSize(t, out, 1, 2)
			if got := color.RGBAModel.Convert(out.At(0, 0)); got != tt.top {
				t.Fatalf("top pixel: got %v, want %v", got, tt.top)
			}
			if got := color.RGBAModel.Convert(out.At(0, 1)); got != tt.down {
				t.Fatalf("bottom pixel: got %v, want %v", got, tt.down)
			}
		})
	}
}

func TestRotate_ExpandsCanvas(t *testing.T) {
	src := solidImage(100, 50, color.RGBA{255, 0, 0, 255})

	out, err := Rotate(src, 45, domain.DirectionLeft)
	if err != nil {
		t.Fatalf("rotate: %v", err)
	}

	bounds := out.Bounds()
	if bounds.Dx() <= 100 || bounds.Dy() <= 50 {
		t.Fatalf("expected canvas larger than 100x50, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	want := color.RGBAModel.Convert(color.Black)
	if got := color.RGBAModel.Convert(out.At(bounds.Min.X, bounds.Min.Y)); got != want {
		t.Fatalf("corner fill: got %v, want %v", got, want)
	}
	if mode := ModeOf(out); mode != ModeRGB {
		t.Fatalf("mode: got %s, want %s", mode, ModeRGB)
	}
}

func TestRotate_FullTurnKeepsSize(t *testing.T) {
	src := solidImage(30, 20, color.White)
	for _, degrees := range []float64{0, 180, 360} {
		out, err := Rotate(src, degrees, domain.DirectionRight)
		if err != nil {
			t.Fatalf("rotate %v: %v", degrees, err)
		}
		assertSize(t, out, 30, 20)
	}
}

func TestRotate_Invalid(t *testing.T) {
	src := solidImage(10, 10, color.White)

	if _, err := Rotate(src, -1, domain.DirectionLeft); !errors.Is(err, domain.ErrNegativeRotationDegrees) {
		t.Fatalf("expected ErrNegativeRotationDegrees, got %v", err)
	}
	if _, err := Rotate(src, 90, "up"); !errors.Is(err, domain.ErrInvalidDirection) {
		t.Fatalf("expected ErrInvalidDirection, got %v", err)
	}
}

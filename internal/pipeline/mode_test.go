package pipeline

import (
	"image"
	"image/color"
	"testing"
)

func TestModeOf(t *testing.T) {
	translucent := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	translucent.Set(0, 0, color.NRGBA{R: 10, A: 100})

	tests := []struct {
		name string
		img  image.Image
		want Mode
	}{
		{"gray", image.NewGray(image.Rect(0, 0, 2, 2)), ModeGray},
		{"gray16", image.NewGray16(image.Rect(0, 0, 2, 2)), ModeGray},
		{"opaque rgba", solidImage(2, 2, color.White), ModeRGB},
		{"ycbcr", image.NewYCbCr(image.Rect(0, 0, 2, 2), image.YCbCrSubsampleRatio420), ModeRGB},
		{"translucent", translucent, ModeRGBA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ModeOf(tt.img); got != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestToRGB_DropsAlpha(t *testing.T) {
	src := image.NewNRGBA(image.Rect(5, 5, 7, 6))
	src.SetNRGBA(5, 5, color.NRGBA{R: 200, G: 100, B: 50, A: 0})
	src.SetNRGBA(6, 5, color.NRGBA{R: 1, G: 2, B: 3, A: 128})

	out := ToRGB(src)

	if out.Rect.Min != (image.Point{}) {
		t.Fatalf("expected origin-anchored result, got %v", out.Rect)
	}
	assertSize(t, out, 2, 1)
	if got := out.RGBAAt(0, 0); got != (color.RGBA{200, 100, 50, 255}) {
		t.Fatalf("pixel 0: got %v", got)
	}
	if got := out.RGBAAt(1, 0); got != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("pixel 1: got %v", got)
	}
	if ModeOf(out) != ModeRGB {
		t.Fatal("expected opaque result")
	}
}

func TestToRGB_FromGray(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 1, 1))
	src.SetGray(0, 0, color.Gray{Y: 77})

	if got := ToRGB(src).RGBAAt(0, 0); got != (color.RGBA{77, 77, 77, 255}) {
		t.Fatalf("got %v", got)
	}
}

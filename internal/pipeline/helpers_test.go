package pipeline

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func solidImage(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func gradientImage(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}
	return img
}

// writeSampleJPEG writes a 100x50 red JPEG to dir/sample.jpg.
func writeSampleJPEG(t *testing.T, dir string) string {
	t.Helper()

	path := filepath.Join(dir, "sample.jpg")
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, solidImage(100, 50, color.RGBA{255, 0, 0, 255}), nil); err != nil {
		t.Fatalf("encode sample jpeg: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write sample jpeg: %v", err)
	}
	return path
}

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatalf("write png %s: %v", path, err)
	}
}

func decodeFile(t *testing.T, path string) image.Image {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open image %s: %v", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		t.Fatalf("decode image %s: %v", path, err)
	}
	return img
}

func assertSize(t *testing.T, img image.Image, w, h int) {
	t.Helper()

	if got := img.Bounds(); got.Dx() != w || got.Dy() != h {
		t.Fatalf("size: got %dx%d, want %dx%d", got.Dx(), got.Dy(), w, h)
	}
}

// differs reports whether any pixel of a and b differs. Both images must have
// the same size.
func differs(a, b image.Image) bool {
	ab, bb := a.Bounds(), b.Bounds()
	for y := 0; y < ab.Dy(); y++ {
		for x := 0; x < ab.Dx(); x++ {
			r1, g1, b1, a1 := a.At(ab.Min.X+x, ab.Min.Y+y).RGBA()
			r2, g2, b2, a2 := b.At(bb.Min.X+x, bb.Min.Y+y).RGBA()
			if r1 != r2 || g1 != g2 || b1 != b2 || a1 != a2 {
				return true
			}
		}
	}
	return false
}

// fallbackFonts never resolves a system font, so the embedded face is used.
func fallbackFonts(t *testing.T) *FontLoader {
	t.Helper()
	return NewFontLoader(WithFontDirs(t.TempDir()))
}

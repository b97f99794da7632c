package pipeline

import (
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"strings"
)

// Format is an output image format keyed by file extension.
type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatGIF  Format = "gif"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
	FormatWebP Format = "webp"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// Codec decodes source bytes and encodes pipeline results.
type Codec interface {
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image, format Format) error
}

type CodecOptions struct {
	JPEGQuality    int
	PNGCompression string
}

// FormatFromPath picks the output format implied by the extension of p.
// Works for both filesystem paths and object keys.
func FormatFromPath(p string) (Format, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(strings.ReplaceAll(p, `\`, "/")), "."))
	switch ext {
	case "jpg", "jpeg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "gif":
		return FormatGIF, nil
	case "tif", "tiff":
		return FormatTIFF, nil
	case "bmp":
		return FormatBMP, nil
	case "webp":
		return FormatWebP, nil
	case "":
		return "", fmt.Errorf("%w: %s has no file extension", ErrUnsupportedFormat, p)
	default:
		return "", fmt.Errorf("%w: .%s", ErrUnsupportedFormat, ext)
	}
}

func contentTypeForFormat(format Format) string {
	switch format {
	case FormatJPEG:
		return "image/jpeg"
	case FormatGIF:
		return "image/gif"
	case FormatTIFF:
		return "image/tiff"
	case FormatBMP:
		return "image/bmp"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

func normalizeQuality(q int) int {
	if q <= 0 || q > 100 {
		return 75
	}
	return q
}

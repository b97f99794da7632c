package pipeline

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

type imagingCodec struct {
	jpegQuality int
	compression png.CompressionLevel
}

func newImagingCodec(opts CodecOptions) imagingCodec {
	return imagingCodec{
		jpegQuality: normalizeQuality(opts.JPEGQuality),
		compression: pngCompressionLevel(opts.PNGCompression),
	}
}

func (c imagingCodec) Decode(r io.Reader) (image.Image, error) {
	img, err := imaging.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	return img, nil
}

func (c imagingCodec) Encode(w io.Writer, img image.Image, format Format) error {
	var target imaging.Format
	switch format {
	case FormatJPEG:
		target = imaging.JPEG
	case FormatPNG:
		target = imaging.PNG
	case FormatGIF:
		target = imaging.GIF
	case FormatTIFF:
		target = imaging.TIFF
	case FormatBMP:
		target = imaging.BMP
	case FormatWebP:
		return fmt.Errorf("%w: webp export requires the govips build", ErrUnsupportedFormat)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	err := imaging.Encode(w, img, target,
		imaging.JPEGQuality(c.jpegQuality),
		imaging.PNGCompressionLevel(c.compression),
	)
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	return nil
}

func pngCompressionLevel(name string) png.CompressionLevel {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none":
		return png.NoCompression
	case "speed":
		return png.BestSpeed
	case "best":
		return png.BestCompression
	default:
		return png.DefaultCompression
	}
}

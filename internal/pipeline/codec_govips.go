//go:build govips && cgo

package pipeline

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/davidbyttow/govips/v2/vips"
)

// govipsCodec decodes through libvips and hands the pipeline a Go image.
// Formats libvips cannot export here fall back to the imaging codec.
type govipsCodec struct {
	quality  int
	fallback imagingCodec
}

func (c govipsCodec) Decode(r io.Reader) (image.Image, error) {
	ref, err := vips.NewImageFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	defer ref.Close()

	data, _, err := ref.ExportPng(vips.NewPngExportParams())
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode source image: %w", err)
	}
	return img, nil
}

func (c govipsCodec) Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case FormatJPEG, FormatPNG, FormatWebP:
	default:
		return c.fallback.Encode(w, img, format)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}

	ref, err := vips.NewImageFromBuffer(buf.Bytes())
	if err != nil {
		return fmt.Errorf("encode %s: %w", format, err)
	}
	defer ref.Close()

	data, err := exportGovipsImage(ref, format, c.quality)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func exportGovipsImage(img *vips.ImageRef, format Format, quality int) ([]byte, error) {
	switch format {
	case FormatJPEG:
		params := vips.NewJpegExportParams()
		params.Quality = quality
		data, _, err := img.ExportJpeg(params)
		if err != nil {
			return nil, fmt.Errorf("encode jpeg: %w", err)
		}
		return data, nil
	case FormatPNG:
		data, _, err := img.ExportPng(vips.NewPngExportParams())
		if err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return data, nil
	case FormatWebP:
		params := vips.NewWebpExportParams()
		params.Quality = quality
		data, _, err := img.ExportWebp(params)
		if err != nil {
			return nil, fmt.Errorf("encode webp: %w", err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

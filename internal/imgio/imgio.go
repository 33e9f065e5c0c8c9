// Package imgio implements the raster image codecs: png, jpeg, bmp and
// tiff. Decoded pixels land in the raw buffer layout of geometry.Image.
package imgio

import (
	"image"
	"image/jpeg"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

// Kind selects the wire format of a Codec instance.
type Kind int

const (
	PNG Kind = iota
	JPEG
	BMP
	TIFF
)

// Codec encodes/decodes one raster format.
//
// Option handling: JPEG honors Quality (default 90 when unset); PNG and
// TIFF honor Compressed by selecting a denser encoding; everything else is
// ignored. ASCII has no meaning for raster formats.
type Codec struct {
	K Kind
}

// Read decodes the file into a raw pixel buffer.
func (c Codec) Read(path string) (*geometry.Image, error) {
	var im *geometry.Image
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		var (
			src image.Image
			err error
		)
		switch c.K {
		case PNG:
			src, err = png.Decode(r)
		case JPEG:
			src, err = jpeg.Decode(r)
		case BMP:
			src, err = bmp.Decode(r)
		case TIFF:
			src, err = tiff.Decode(r)
		}
		if err != nil {
			return format.WrapParse(path, err)
		}
		im = geometry.FromGoImage(src)
		if im.IsEmpty() {
			return format.ParseErrorf(path, "image has no pixels")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return im, nil
}

// Write encodes the pixel buffer.
func (c Codec) Write(path string, im *geometry.Image, opts format.WriteOptions) error {
	src, err := im.ToGoImage()
	if err != nil {
		return format.WrapWrite(path, err)
	}
	err = fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		switch c.K {
		case PNG:
			enc := png.Encoder{CompressionLevel: png.DefaultCompression}
			if opts.Compressed {
				enc.CompressionLevel = png.BestCompression
			}
			return enc.Encode(w, src)
		case JPEG:
			q := opts.Quality
			if q <= 0 {
				q = 90
			}
			if q > 100 {
				q = 100
			}
			return jpeg.Encode(w, src, &jpeg.Options{Quality: q})
		case BMP:
			return bmp.Encode(w, src)
		default:
			topts := &tiff.Options{Compression: tiff.Uncompressed}
			if opts.Compressed {
				topts.Compression = tiff.Deflate
			}
			return tiff.Encode(w, src, topts)
		}
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

package geometry

import (
	"fmt"
	"image"
	"image/color"
)

// Image is a raw pixel buffer: Height rows of Width pixels, each pixel
// Channels values of BytesPerChannel bytes, row-major, no padding.
//
// The I/O layer supports 1-channel (grayscale) and 3-channel (RGB) images
// with 1 or 2 bytes per channel, which covers the depth and color images
// moved through the supported formats.
type Image struct {
	Width           int
	Height          int
	Channels        int
	BytesPerChannel int
	Data            []byte
}

// IsEmpty reports whether the image has no pixels.
func (im *Image) IsEmpty() bool { return im.Width == 0 || im.Height == 0 }

// Validate checks that the buffer length matches the declared geometry.
func (im *Image) Validate() error {
	want := im.Width * im.Height * im.Channels * im.BytesPerChannel
	if len(im.Data) != want {
		return fmt.Errorf("image buffer has %d bytes, geometry requires %d", len(im.Data), want)
	}
	return nil
}

// ToGoImage converts the buffer to a stdlib image for encoding.
func (im *Image) ToGoImage() (image.Image, error) {
	if err := im.Validate(); err != nil {
		return nil, err
	}
	rect := image.Rect(0, 0, im.Width, im.Height)
	switch {
	case im.Channels == 1 && im.BytesPerChannel == 1:
		out := image.NewGray(rect)
		copy(out.Pix, im.Data)
		return out, nil
	case im.Channels == 1 && im.BytesPerChannel == 2:
		out := image.NewGray16(rect)
		// Gray16 stores big-endian samples; the buffer is little-endian.
		for i := 0; i+1 < len(im.Data); i += 2 {
			out.Pix[i] = im.Data[i+1]
			out.Pix[i+1] = im.Data[i]
		}
		return out, nil
	case im.Channels == 3 && im.BytesPerChannel == 1:
		out := image.NewNRGBA(rect)
		for i, j := 0, 0; i < len(im.Data); i, j = i+3, j+4 {
			out.Pix[j+0] = im.Data[i+0]
			out.Pix[j+1] = im.Data[i+1]
			out.Pix[j+2] = im.Data[i+2]
			out.Pix[j+3] = 0xff
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported image layout: %d channels x %d bytes", im.Channels, im.BytesPerChannel)
	}
}

// FromGoImage fills the buffer from a decoded stdlib image.
// Gray and Gray16 inputs keep their channel depth; everything else is
// flattened to 3x1-byte RGB, dropping alpha.
func FromGoImage(src image.Image) *Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch s := src.(type) {
	case *image.Gray:
		im := &Image{Width: w, Height: h, Channels: 1, BytesPerChannel: 1, Data: make([]byte, w*h)}
		for y := 0; y < h; y++ {
			copy(im.Data[y*w:(y+1)*w], s.Pix[y*s.Stride:y*s.Stride+w])
		}
		return im
	case *image.Gray16:
		im := &Image{Width: w, Height: h, Channels: 1, BytesPerChannel: 2, Data: make([]byte, w*h*2)}
		for y := 0; y < h; y++ {
			row := s.Pix[y*s.Stride : y*s.Stride+w*2]
			for x := 0; x < w; x++ {
				im.Data[(y*w+x)*2+0] = row[x*2+1]
				im.Data[(y*w+x)*2+1] = row[x*2+0]
			}
		}
		return im
	}

	im := &Image{Width: w, Height: h, Channels: 3, BytesPerChannel: 1, Data: make([]byte, w*h*3)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(src.At(x, y)).(color.NRGBA)
			im.Data[i+0] = c.R
			im.Data[i+1] = c.G
			im.Data[i+2] = c.B
			i += 3
		}
	}
	return im
}

package imgio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
)

func testImage() *geometry.Image {
	im := &geometry.Image{Width: 4, Height: 3, Channels: 3, BytesPerChannel: 1}
	im.Data = make([]byte, 4*3*3)
	for i := range im.Data {
		im.Data[i] = byte(i * 7)
	}
	return im
}

func TestLosslessRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		opts format.WriteOptions
	}{
		{"png", PNG, format.WriteOptions{}},
		{"png compressed", PNG, format.WriteOptions{Compressed: true}},
		{"bmp", BMP, format.WriteOptions{}},
		{"tiff", TIFF, format.WriteOptions{}},
		{"tiff compressed", TIFF, format.WriteOptions{Compressed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := testImage()
			path := filepath.Join(t.TempDir(), "img.bin")
			c := Codec{K: tt.kind}
			require.NoError(t, c.Write(path, im, tt.opts))

			got, err := c.Read(path)
			require.NoError(t, err)
			require.Equal(t, im, got)
		})
	}
}

func TestGray16RoundTripPNG(t *testing.T) {
	// Depth images are 16-bit single channel; png keeps them lossless.
	im := &geometry.Image{Width: 2, Height: 2, Channels: 1, BytesPerChannel: 2,
		Data: []byte{0x00, 0x00, 0x34, 0x12, 0xff, 0xff, 0x01, 0x00}}
	path := filepath.Join(t.TempDir(), "depth.png")
	require.NoError(t, Codec{K: PNG}.Write(path, im, format.WriteOptions{}))

	got, err := Codec{K: PNG}.Read(path)
	require.NoError(t, err)
	require.Equal(t, im, got)
}

func TestJPEGRoundTripApproximate(t *testing.T) {
	im := testImage()
	path := filepath.Join(t.TempDir(), "img.jpg")
	require.NoError(t, Codec{K: JPEG}.Write(path, im, format.WriteOptions{Quality: 95}))

	got, err := Codec{K: JPEG}.Read(path)
	require.NoError(t, err)
	require.Equal(t, im.Width, got.Width)
	require.Equal(t, im.Height, got.Height)
	require.Equal(t, 3, got.Channels)
	// Lossy: just check the buffer shape and that pixels are in range.
	require.Len(t, got.Data, len(im.Data))
}

func TestJPEGQualityAffectsSize(t *testing.T) {
	im := &geometry.Image{Width: 64, Height: 64, Channels: 3, BytesPerChannel: 1}
	im.Data = make([]byte, 64*64*3)
	for i := range im.Data {
		im.Data[i] = byte((i*31 + i/192) % 251)
	}

	dir := t.TempDir()
	low := filepath.Join(dir, "low.jpg")
	high := filepath.Join(dir, "high.jpg")
	require.NoError(t, Codec{K: JPEG}.Write(low, im, format.WriteOptions{Quality: 10}))
	require.NoError(t, Codec{K: JPEG}.Write(high, im, format.WriteOptions{Quality: 100}))

	lowInfo, err := os.Stat(low)
	require.NoError(t, err)
	highInfo, err := os.Stat(high)
	require.NoError(t, err)
	require.Less(t, lowInfo.Size(), highInfo.Size())
}

func TestReadNotAnImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, []byte("this is not a png"), 0644))

	_, err := Codec{K: PNG}.Read(path)
	var parseErr *format.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestWriteBadBuffer(t *testing.T) {
	im := &geometry.Image{Width: 2, Height: 2, Channels: 3, BytesPerChannel: 1, Data: []byte{1, 2, 3}}
	path := filepath.Join(t.TempDir(), "img.png")
	err := Codec{K: PNG}.Write(path, im, format.WriteOptions{})
	var writeErr *format.WriteError
	require.ErrorAs(t, err, &writeErr)

	_, statErr := os.Stat(path)
	require.Error(t, statErr)
}

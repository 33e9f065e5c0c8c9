package geometry

import (
	"image"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestImageValidate(t *testing.T) {
	im := &Image{Width: 2, Height: 2, Channels: 3, BytesPerChannel: 1, Data: make([]byte, 12)}
	require.NoError(t, im.Validate())

	im.Data = im.Data[:11]
	require.Error(t, im.Validate())
}

func TestImageRoundTripRGB(t *testing.T) {
	im := &Image{Width: 2, Height: 1, Channels: 3, BytesPerChannel: 1,
		Data: []byte{10, 20, 30, 40, 50, 60}}

	src, err := im.ToGoImage()
	require.NoError(t, err)

	back := FromGoImage(src)
	require.Equal(t, im, back)
}

func TestImageRoundTripGray(t *testing.T) {
	im := &Image{Width: 3, Height: 2, Channels: 1, BytesPerChannel: 1,
		Data: []byte{0, 64, 128, 192, 255, 7}}

	src, err := im.ToGoImage()
	require.NoError(t, err)
	_, isGray := src.(*image.Gray)
	require.True(t, isGray)

	back := FromGoImage(src)
	require.Equal(t, im, back)
}

func TestImageRoundTripGray16(t *testing.T) {
	// Little-endian 16-bit samples, e.g. a depth image.
	im := &Image{Width: 2, Height: 1, Channels: 1, BytesPerChannel: 2,
		Data: []byte{0x34, 0x12, 0xff, 0x00}}

	src, err := im.ToGoImage()
	require.NoError(t, err)
	g16, ok := src.(*image.Gray16)
	require.True(t, ok)
	require.Equal(t, uint8(0x12), g16.Pix[0]) // big-endian in stdlib

	back := FromGoImage(src)
	require.Equal(t, im, back)
}

func TestImageUnsupportedLayout(t *testing.T) {
	im := &Image{Width: 1, Height: 1, Channels: 4, BytesPerChannel: 1, Data: make([]byte, 4)}
	_, err := im.ToGoImage()
	require.Error(t, err)
}

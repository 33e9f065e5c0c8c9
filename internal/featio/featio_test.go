package featio

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/registration"
)

func TestRoundTrip(t *testing.T) {
	f := &registration.Feature{
		Dimension: 33,
		Data:      make([]float32, 33*4),
	}
	for i := range f.Data {
		f.Data[i] = float32(i) * 0.5
	}

	path := filepath.Join(t.TempDir(), "fpfh.bin")
	require.NoError(t, Codec{}.Write(path, f, format.WriteOptions{}))

	got, err := Codec{}.Read(path)
	require.NoError(t, err)
	require.Equal(t, 33, got.Dimension)
	require.Equal(t, 4, got.Num())
	require.Equal(t, f.Data, got.Data)
	require.Equal(t, f.Descriptor(2), got.Descriptor(2))
}

func TestWriteEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fpfh.bin")
	err := Codec{}.Write(path, &registration.Feature{}, format.WriteOptions{})
	var writeErr *format.WriteError
	require.ErrorAs(t, err, &writeErr)
}

func TestReadErrors(t *testing.T) {
	var parseErr *format.ParseError

	t.Run("bad magic", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fpfh.bin")
		buf := make([]byte, 12)
		binary.LittleEndian.PutUint32(buf, 0x12345678)
		require.NoError(t, os.WriteFile(path, buf, 0644))

		_, err := Codec{}.Read(path)
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("oversized counts", func(t *testing.T) {
		// Dimension and Num maxed out declare a block of ~7e18 floats.
		// The reader must reject the header, not try to allocate for it.
		path := filepath.Join(t.TempDir(), "fpfh.bin")
		buf := make([]byte, 12)
		binary.LittleEndian.PutUint32(buf[0:], magic)
		binary.LittleEndian.PutUint32(buf[4:], 0xFFFFFFFF)
		binary.LittleEndian.PutUint32(buf[8:], 0xFFFFFFFF)
		require.NoError(t, os.WriteFile(path, buf, 0644))

		_, err := Codec{}.Read(path)
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("counts exceed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fpfh.bin")
		buf := make([]byte, 12+16)
		binary.LittleEndian.PutUint32(buf[0:], magic)
		binary.LittleEndian.PutUint32(buf[4:], 8)
		binary.LittleEndian.PutUint32(buf[8:], 1000)
		require.NoError(t, os.WriteFile(path, buf, 0644))

		_, err := Codec{}.Read(path)
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("truncated block", func(t *testing.T) {
		f := &registration.Feature{Dimension: 4, Data: make([]float32, 8)}
		path := filepath.Join(t.TempDir(), "fpfh.bin")
		require.NoError(t, Codec{}.Write(path, f, format.WriteOptions{}))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, data[:len(data)-4], 0644))

		_, err = Codec{}.Read(path)
		require.ErrorAs(t, err, &parseErr)
	})
}

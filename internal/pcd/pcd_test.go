package pcd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
)

func testCloud() *geometry.PointCloud {
	// float32-exact coordinates and n/255 colors survive the pcd encoding.
	return &geometry.PointCloud{
		Points:  []geometry.Vector3{{0, 0, 0}, {1.5, -2.25, 3}, {0.125, 4, -8}},
		Normals: []geometry.Vector3{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		Colors:  []geometry.Vector3{{1, 0, 0}, {0, 128.0 / 255, 0}, {51.0 / 255, 102.0 / 255, 255.0 / 255}},
	}
}

func TestRoundTrip(t *testing.T) {
	pc := testCloud()
	tests := []struct {
		name string
		opts format.WriteOptions
	}{
		{"ascii", format.WriteOptions{ASCII: true}},
		{"binary", format.WriteOptions{}},
		{"binary_compressed", format.WriteOptions{Compressed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cloud.pcd")
			require.NoError(t, Codec{}.Write(path, pc, tt.opts))

			got, err := Codec{}.Read(path)
			require.NoError(t, err)
			require.Equal(t, pc.Points, got.Points)
			require.Equal(t, pc.Normals, got.Normals)
			require.Equal(t, pc.Colors, got.Colors)
		})
	}
}

func TestRoundTripPointsOnly(t *testing.T) {
	pc := &geometry.PointCloud{Points: []geometry.Vector3{{1, 2, 3}, {4, 5, 6}}}
	path := filepath.Join(t.TempDir(), "cloud.pcd")
	require.NoError(t, Codec{}.Write(path, pc, format.WriteOptions{}))

	got, err := Codec{}.Read(path)
	require.NoError(t, err)
	require.Equal(t, pc.Points, got.Points)
	require.False(t, got.HasNormals())
	require.False(t, got.HasColors())
}

func TestReadSkipsUnknownFields(t *testing.T) {
	content := "VERSION 0.7\n" +
		"FIELDS x y z intensity\n" +
		"SIZE 4 4 4 4\n" +
		"TYPE F F F F\n" +
		"COUNT 1 1 1 1\n" +
		"WIDTH 2\nHEIGHT 1\nPOINTS 2\nDATA ascii\n" +
		"1 2 3 99\n4 5 6 42\n"
	path := filepath.Join(t.TempDir(), "cloud.pcd")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	pc, err := Codec{}.Read(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Vector3{{1, 2, 3}, {4, 5, 6}}, pc.Points)
}

func TestReadErrors(t *testing.T) {
	var parseErr *format.ParseError
	write := func(content string) string {
		path := filepath.Join(t.TempDir(), "cloud.pcd")
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
		return path
	}

	t.Run("missing xyz", func(t *testing.T) {
		_, err := Codec{}.Read(write("FIELDS a b\nSIZE 4 4\nTYPE F F\nCOUNT 1 1\nPOINTS 1\nDATA ascii\n1 2\n"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("unknown header key", func(t *testing.T) {
		_, err := Codec{}.Read(write("BOGUS 1\nFIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 0\nDATA ascii\n"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("truncated binary body", func(t *testing.T) {
		_, err := Codec{}.Read(write("FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 2\nDATA binary\n\x00\x00\x00\x00"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("truncated ascii body", func(t *testing.T) {
		_, err := Codec{}.Read(write("FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 3\nDATA ascii\n1 2 3\n"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("oversized binary count", func(t *testing.T) {
		// A POINTS value far past the file size must fail as a parse
		// error before the body buffer is allocated.
		_, err := Codec{}.Read(write("FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 999999999999999999\nDATA binary\n"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("oversized compressed sizes", func(t *testing.T) {
		header := "FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 1\nDATA binary_compressed\n"
		body := string([]byte{4, 0, 0, 0, 0xff, 0xff, 0xff, 0xff, 1, 2, 3, 4})
		_, err := Codec{}.Read(write(header + body))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("bad size entry", func(t *testing.T) {
		_, err := Codec{}.Read(write("FIELDS x y z\nSIZE 4 4 3\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 1\nDATA ascii\n1 2 3\n"))
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("no points", func(t *testing.T) {
		_, err := Codec{}.Read(write("FIELDS x y z\nSIZE 4 4 4\nTYPE F F F\nCOUNT 1 1 1\nPOINTS 0\nDATA ascii\n"))
		require.ErrorAs(t, err, &parseErr)
	})
}

func TestCompressedIncompressible(t *testing.T) {
	// A single point produces a body lz4 cannot shrink; the writer falls
	// back to a stored block and the reader must handle it.
	pc := &geometry.PointCloud{Points: []geometry.Vector3{{0.1, 0.2, 0.3}}}
	path := filepath.Join(t.TempDir(), "cloud.pcd")
	require.NoError(t, Codec{}.Write(path, pc, format.WriteOptions{Compressed: true}))

	got, err := Codec{}.Read(path)
	require.NoError(t, err)
	require.Len(t, got.Points, 1)
	require.InDelta(t, 0.1, got.Points[0][0], 1e-7)
}

package xyz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestReadXYZ(t *testing.T) {
	path := writeTemp(t, "cloud.xyz", "# comment line\n1 2 3\n\n4.5 -5 6\n")

	pc, err := Codec{V: XYZ}.Read(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Vector3{{1, 2, 3}, {4.5, -5, 6}}, pc.Points)
	require.Empty(t, pc.Normals)
	require.Empty(t, pc.Colors)
}

func TestReadXYZN(t *testing.T) {
	path := writeTemp(t, "cloud.xyzn", "1 2 3 0 0 1\n")

	pc, err := Codec{V: XYZN}.Read(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Vector3{{1, 2, 3}}, pc.Points)
	require.Equal(t, []geometry.Vector3{{0, 0, 1}}, pc.Normals)
}

func TestReadXYZRGB(t *testing.T) {
	path := writeTemp(t, "cloud.xyzrgb", "1 2 3 0.5 0.25 1\n")

	pc, err := Codec{V: XYZRGB}.Read(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Vector3{{0.5, 0.25, 1}}, pc.Colors)
}

func TestReadErrors(t *testing.T) {
	var parseErr *format.ParseError

	_, err := Codec{V: XYZ}.Read(writeTemp(t, "short.xyz", "1 2\n"))
	require.ErrorAs(t, err, &parseErr)

	_, err = Codec{V: XYZ}.Read(writeTemp(t, "bad.xyz", "1 2 three\n"))
	require.ErrorAs(t, err, &parseErr)

	_, err = Codec{V: XYZ}.Read(writeTemp(t, "empty.xyz", "# only a comment\n"))
	require.ErrorAs(t, err, &parseErr)
}

func TestRoundTrip(t *testing.T) {
	pc := &geometry.PointCloud{
		Points:  []geometry.Vector3{{0, 0, 0}, {1.5, -2.25, 3}},
		Normals: []geometry.Vector3{{0, 0, 1}, {1, 0, 0}},
		Colors:  []geometry.Vector3{{1, 0.5, 0.25}, {0, 0, 0}},
	}

	tests := []struct {
		name    string
		variant Variant
		check   func(t *testing.T, got *geometry.PointCloud)
	}{
		{"xyz", XYZ, func(t *testing.T, got *geometry.PointCloud) {
			require.Equal(t, pc.Points, got.Points)
			require.Empty(t, got.Normals)
		}},
		{"xyzn", XYZN, func(t *testing.T, got *geometry.PointCloud) {
			require.Equal(t, pc.Points, got.Points)
			require.Equal(t, pc.Normals, got.Normals)
		}},
		{"xyzrgb", XYZRGB, func(t *testing.T, got *geometry.PointCloud) {
			require.Equal(t, pc.Points, got.Points)
			require.Equal(t, pc.Colors, got.Colors)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cloud."+tt.name)
			c := Codec{V: tt.variant}
			require.NoError(t, c.Write(path, pc, format.DefaultWriteOptions()))
			got, err := c.Read(path)
			require.NoError(t, err)
			tt.check(t, got)
		})
	}
}

func TestWriteMissingDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "no", "dir", "cloud.xyz")
	pc := &geometry.PointCloud{Points: []geometry.Vector3{{1, 2, 3}}}

	err := Codec{V: XYZ}.Write(path, pc, format.DefaultWriteOptions())
	var writeErr *format.WriteError
	require.ErrorAs(t, err, &writeErr)
}

// Package xyz implements the plain-text point cloud family: xyz (points
// only), xyzn (points + normals) and xyzrgb (points + colors). One point per
// line, whitespace-separated decimal values.
package xyz

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

// Variant selects which attribute columns the codec expects per line.
type Variant int

const (
	// XYZ is three columns: x y z.
	XYZ Variant = iota
	// XYZN is six columns: x y z nx ny nz.
	XYZN
	// XYZRGB is six columns: x y z r g b, colors in [0,1].
	XYZRGB
)

func (v Variant) columns() int {
	if v == XYZ {
		return 3
	}
	return 6
}

// Codec reads and writes one variant of the xyz family. These are
// text-only formats: the ASCII and Compressed write options are ignored.
type Codec struct {
	V Variant
}

// Read parses the file into a point cloud.
func (c Codec) Read(path string) (*geometry.PointCloud, error) {
	pc := &geometry.PointCloud{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNo := 0
		for sc.Scan() {
			lineNo++
			line := strings.TrimSpace(sc.Text())
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) < c.V.columns() {
				return format.ParseErrorf(path, "line %d: have %d columns, want %d", lineNo, len(fields), c.V.columns())
			}
			vals := make([]float64, c.V.columns())
			for i := range vals {
				f, err := strconv.ParseFloat(fields[i], 64)
				if err != nil {
					return format.ParseErrorf(path, "line %d: column %d: %v", lineNo, i+1, err)
				}
				vals[i] = f
			}
			pc.Points = append(pc.Points, geometry.Vector3{vals[0], vals[1], vals[2]})
			switch c.V {
			case XYZN:
				pc.Normals = append(pc.Normals, geometry.Vector3{vals[3], vals[4], vals[5]})
			case XYZRGB:
				pc.Colors = append(pc.Colors, geometry.Vector3{vals[3], vals[4], vals[5]})
			}
		}
		if err := sc.Err(); err != nil {
			return format.WrapParse(path, err)
		}
		if pc.IsEmpty() {
			return format.ParseErrorf(path, "no points")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// Write serializes the point cloud. Attribute columns the variant does not
// carry are dropped; a variant whose attribute the cloud lacks writes
// zeros.
func (c Codec) Write(path string, pc *geometry.PointCloud, _ format.WriteOptions) error {
	hasNormals := pc.HasNormals()
	hasColors := pc.HasColors()

	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		for i, p := range pc.Points {
			var err error
			switch c.V {
			case XYZ:
				_, err = fmt.Fprintf(w, "%.10f %.10f %.10f\n", p[0], p[1], p[2])
			case XYZN:
				n := geometry.Vector3{}
				if hasNormals {
					n = pc.Normals[i]
				}
				_, err = fmt.Fprintf(w, "%.10f %.10f %.10f %.10f %.10f %.10f\n",
					p[0], p[1], p[2], n[0], n[1], n[2])
			case XYZRGB:
				col := geometry.Vector3{}
				if hasColors {
					col = pc.Colors[i]
				}
				_, err = fmt.Fprintf(w, "%.10f %.10f %.10f %.10f %.10f %.10f\n",
					p[0], p[1], p[2], col[0], col[1], col[2])
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

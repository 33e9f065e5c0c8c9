// Package stl implements the STL triangle format, ASCII and binary.
//
// STL carries no vertex sharing, colors or per-vertex normals: writing
// duplicates each triangle's vertices and drops vertex attributes
// deterministically; reading produces three fresh vertices per facet plus
// the facet normal as a triangle normal.
package stl

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

const (
	headerSize   = 80
	triangleSize = 50 // 12 floats + uint16 attribute
)

// Codec is the "stl" triangle mesh codec.
type Codec struct{}

// Read parses either encoding, detected from the content.
func (Codec) Read(path string) (*geometry.TriangleMesh, error) {
	m := &geometry.TriangleMesh{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		data, err := io.ReadAll(r)
		if err != nil {
			return format.WrapParse(path, err)
		}
		if isBinary(data) {
			err = readBinary(path, data, m)
		} else {
			err = readASCII(path, data, m)
		}
		if err != nil {
			return err
		}
		if m.IsEmpty() {
			return format.ParseErrorf(path, "no facets")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// isBinary distinguishes the encodings: a well-formed binary file's size
// matches its declared facet count exactly, which a text file's cannot.
func isBinary(data []byte) bool {
	if len(data) < headerSize+4 {
		return false
	}
	count := binary.LittleEndian.Uint32(data[headerSize:])
	return len(data) == headerSize+4+int(count)*triangleSize
}

func readBinary(path string, data []byte, m *geometry.TriangleMesh) error {
	count := int(binary.LittleEndian.Uint32(data[headerSize:]))
	off := headerSize + 4
	f32 := func() float64 {
		v := math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		return float64(v)
	}
	for i := 0; i < count; i++ {
		n := geometry.Vector3{f32(), f32(), f32()}
		base := int32(len(m.Vertices))
		for v := 0; v < 3; v++ {
			m.Vertices = append(m.Vertices, geometry.Vector3{f32(), f32(), f32()})
		}
		off += 2 // attribute byte count
		m.Triangles = append(m.Triangles, geometry.Triangle{base, base + 1, base + 2})
		m.TriangleNormals = append(m.TriangleNormals, n)
	}
	return nil
}

func readASCII(path string, data []byte, m *geometry.TriangleMesh) error {
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	parse3 := func(tok []string, what string, lineNo int) (geometry.Vector3, error) {
		var out geometry.Vector3
		if len(tok) != 3 {
			return out, format.ParseErrorf(path, "line %d: %s needs 3 values", lineNo, what)
		}
		for i, t := range tok {
			v, err := strconv.ParseFloat(t, 64)
			if err != nil {
				return out, format.ParseErrorf(path, "line %d: bad %s value %q", lineNo, what, t)
			}
			out[i] = v
		}
		return out, nil
	}

	lineNo := 0
	sawSolid := false
	var pending []geometry.Vector3
	var pendingNormal geometry.Vector3
	inFacet := false
	for sc.Scan() {
		lineNo++
		tok := strings.Fields(strings.TrimSpace(sc.Text()))
		if len(tok) == 0 {
			continue
		}
		switch tok[0] {
		case "solid":
			sawSolid = true
		case "endsolid":
			// Done.
		case "facet":
			if len(tok) < 5 || tok[1] != "normal" {
				return format.ParseErrorf(path, "line %d: bad facet line", lineNo)
			}
			n, err := parse3(tok[2:5], "normal", lineNo)
			if err != nil {
				return err
			}
			pendingNormal = n
			pending = pending[:0]
			inFacet = true
		case "outer", "endloop":
			// Structural keywords.
		case "vertex":
			if !inFacet {
				return format.ParseErrorf(path, "line %d: vertex outside facet", lineNo)
			}
			v, err := parse3(tok[1:], "vertex", lineNo)
			if err != nil {
				return err
			}
			pending = append(pending, v)
		case "endfacet":
			if len(pending) != 3 {
				return format.ParseErrorf(path, "line %d: facet has %d vertices", lineNo, len(pending))
			}
			base := int32(len(m.Vertices))
			m.Vertices = append(m.Vertices, pending...)
			m.Triangles = append(m.Triangles, geometry.Triangle{base, base + 1, base + 2})
			m.TriangleNormals = append(m.TriangleNormals, pendingNormal)
			inFacet = false
		default:
			return format.ParseErrorf(path, "line %d: unexpected token %q", lineNo, tok[0])
		}
	}
	if err := sc.Err(); err != nil {
		return format.WrapParse(path, err)
	}
	if !sawSolid {
		return format.ParseErrorf(path, "not an stl file")
	}
	return nil
}

// facetNormal returns the stored triangle normal or computes one from the
// winding order.
func facetNormal(m *geometry.TriangleMesh, i int, t geometry.Triangle) geometry.Vector3 {
	if len(m.TriangleNormals) == len(m.Triangles) {
		return m.TriangleNormals[i]
	}
	a, b, c := m.Vertices[t[0]], m.Vertices[t[1]], m.Vertices[t[2]]
	u := geometry.Vector3{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
	v := geometry.Vector3{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
	n := geometry.Vector3{
		u[1]*v[2] - u[2]*v[1],
		u[2]*v[0] - u[0]*v[2],
		u[0]*v[1] - u[1]*v[0],
	}
	norm := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if norm == 0 {
		return geometry.Vector3{}
	}
	return geometry.Vector3{n[0] / norm, n[1] / norm, n[2] / norm}
}

// Write serializes the mesh. Vertex normals and colors are dropped; the
// Compressed option is ignored.
func (Codec) Write(path string, m *geometry.TriangleMesh, opts format.WriteOptions) error {
	if !m.HasTriangles() {
		return format.WrapWrite(path, fmt.Errorf("mesh has no triangles"))
	}
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		if opts.ASCII {
			return writeASCII(w, m)
		}
		return writeBinary(w, m)
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

func writeASCII(w io.Writer, m *geometry.TriangleMesh) error {
	if _, err := io.WriteString(w, "solid geoio\n"); err != nil {
		return err
	}
	for i, t := range m.Triangles {
		n := facetNormal(m, i, t)
		if _, err := fmt.Fprintf(w, "facet normal %g %g %g\nouter loop\n", n[0], n[1], n[2]); err != nil {
			return err
		}
		for _, vi := range t {
			v := m.Vertices[vi]
			if _, err := fmt.Fprintf(w, "vertex %g %g %g\n", v[0], v[1], v[2]); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "endloop\nendfacet\n"); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "endsolid geoio\n")
	return err
}

func writeBinary(w io.Writer, m *geometry.TriangleMesh) error {
	var hdr [headerSize]byte
	copy(hdr[:], "geoio binary stl")
	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(m.Triangles))); err != nil {
		return err
	}
	buf := make([]byte, triangleSize)
	for i, t := range m.Triangles {
		off := 0
		put := func(v geometry.Vector3) {
			for _, c := range v {
				binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(float32(c)))
				off += 4
			}
		}
		put(facetNormal(m, i, t))
		put(m.Vertices[t[0]])
		put(m.Vertices[t[1]])
		put(m.Vertices[t[2]])
		binary.LittleEndian.PutUint16(buf[off:], 0)
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

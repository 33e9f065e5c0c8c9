package ply

import (
	"bufio"
	"io"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

// PointCloudCodec is the "ply" point cloud codec. Compression is not part
// of the format; the Compressed option is ignored.
type PointCloudCodec struct{}

// Read parses the vertex element into a point cloud.
func (PointCloudCodec) Read(path string) (*geometry.PointCloud, error) {
	pc := &geometry.PointCloud{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		br := bufio.NewReader(r)
		h, err := parseHeader(path, br)
		if err != nil {
			return err
		}
		d := newDecoder(path, h, br)
		for _, el := range h.elements {
			if el.name == "vertex" {
				vd, err := readVertices(path, d, el)
				if err != nil {
					return err
				}
				pc.Points = vd.points
				pc.Normals = vd.normals
				pc.Colors = vd.colors
			} else if err := skipElement(d, el); err != nil {
				return err
			}
		}
		if pc.IsEmpty() {
			return format.ParseErrorf(path, "no vertices")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pc, nil
}

// Write serializes the point cloud as a vertex-only PLY.
func (PointCloudCodec) Write(path string, pc *geometry.PointCloud, opts format.WriteOptions) error {
	hasNormals := pc.HasNormals()
	hasColors := pc.HasColors()
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		spec := headerSpec{
			ascii: opts.ASCII,
			elements: []headerElement{
				{name: "vertex", count: len(pc.Points), lines: vertexProps(hasNormals, hasColors)},
			},
		}
		if err := writeHeader(w, spec); err != nil {
			return err
		}
		e := newEncoder(w, opts.ASCII)
		for i, p := range pc.Points {
			e.f64(p[0])
			e.f64(p[1])
			e.f64(p[2])
			if hasNormals {
				n := pc.Normals[i]
				e.f64(n[0])
				e.f64(n[1])
				e.f64(n[2])
			}
			if hasColors {
				c := pc.Colors[i]
				e.u8(colorByte(c[0]))
				e.u8(colorByte(c[1]))
				e.u8(colorByte(c[2]))
			}
			e.endRow()
		}
		return e.err
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

// MeshCodec is the "ply" triangle mesh codec.
type MeshCodec struct{}

// Read parses vertex and face elements into a mesh.
func (MeshCodec) Read(path string) (*geometry.TriangleMesh, error) {
	m := &geometry.TriangleMesh{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		br := bufio.NewReader(r)
		h, err := parseHeader(path, br)
		if err != nil {
			return err
		}
		d := newDecoder(path, h, br)
		for _, el := range h.elements {
			switch el.name {
			case "vertex":
				vd, err := readVertices(path, d, el)
				if err != nil {
					return err
				}
				m.Vertices = vd.points
				m.VertexNormals = vd.normals
				m.VertexColors = vd.colors
			case "face":
				tris, err := readFaces(path, d, el, len(m.Vertices))
				if err != nil {
					return err
				}
				m.Triangles = tris
			default:
				if err := skipElement(d, el); err != nil {
					return err
				}
			}
		}
		if m.IsEmpty() {
			return format.ParseErrorf(path, "no vertices")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// Write serializes the mesh. WriteVertexNormals and WriteVertexColors gate
// attribute emission.
func (MeshCodec) Write(path string, m *geometry.TriangleMesh, opts format.WriteOptions) error {
	hasNormals := m.HasVertexNormals() && opts.WriteVertexNormals
	hasColors := m.HasVertexColors() && opts.WriteVertexColors
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		spec := headerSpec{
			ascii: opts.ASCII,
			elements: []headerElement{
				{name: "vertex", count: len(m.Vertices), lines: vertexProps(hasNormals, hasColors)},
				{name: "face", count: len(m.Triangles), lines: []string{"list uchar int vertex_indices"}},
			},
		}
		if err := writeHeader(w, spec); err != nil {
			return err
		}
		e := newEncoder(w, opts.ASCII)
		for i, v := range m.Vertices {
			e.f64(v[0])
			e.f64(v[1])
			e.f64(v[2])
			if hasNormals {
				n := m.VertexNormals[i]
				e.f64(n[0])
				e.f64(n[1])
				e.f64(n[2])
			}
			if hasColors {
				c := m.VertexColors[i]
				e.u8(colorByte(c[0]))
				e.u8(colorByte(c[1]))
				e.u8(colorByte(c[2]))
			}
			e.endRow()
		}
		for _, t := range m.Triangles {
			e.u8(3)
			e.i32(t[0])
			e.i32(t[1])
			e.i32(t[2])
			e.endRow()
		}
		return e.err
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

// LineSetCodec is the "ply" line set codec, using vertex and edge elements.
type LineSetCodec struct{}

// Read parses vertex and edge elements into a line set.
func (LineSetCodec) Read(path string) (*geometry.LineSet, error) {
	ls := &geometry.LineSet{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		br := bufio.NewReader(r)
		h, err := parseHeader(path, br)
		if err != nil {
			return err
		}
		d := newDecoder(path, h, br)
		for _, el := range h.elements {
			switch el.name {
			case "vertex":
				vd, err := readVertices(path, d, el)
				if err != nil {
					return err
				}
				ls.Points = vd.points
			case "edge":
				lines, colors, err := readEdges(path, d, el, len(ls.Points))
				if err != nil {
					return err
				}
				ls.Lines = lines
				ls.Colors = colors
			default:
				if err := skipElement(d, el); err != nil {
					return err
				}
			}
		}
		if ls.IsEmpty() {
			return format.ParseErrorf(path, "no vertices")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ls, nil
}

// Write serializes the line set.
func (LineSetCodec) Write(path string, ls *geometry.LineSet, opts format.WriteOptions) error {
	hasColors := ls.HasColors()
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		edgeProps := []string{"int vertex1", "int vertex2"}
		if hasColors {
			edgeProps = append(edgeProps, "uchar red", "uchar green", "uchar blue")
		}
		spec := headerSpec{
			ascii: opts.ASCII,
			elements: []headerElement{
				{name: "vertex", count: len(ls.Points), lines: vertexProps(false, false)},
				{name: "edge", count: len(ls.Lines), lines: edgeProps},
			},
		}
		if err := writeHeader(w, spec); err != nil {
			return err
		}
		e := newEncoder(w, opts.ASCII)
		for _, p := range ls.Points {
			e.f64(p[0])
			e.f64(p[1])
			e.f64(p[2])
			e.endRow()
		}
		for i, l := range ls.Lines {
			e.i32(l[0])
			e.i32(l[1])
			if hasColors {
				c := ls.Colors[i]
				e.u8(colorByte(c[0]))
				e.u8(colorByte(c[1]))
				e.u8(colorByte(c[2]))
			}
			e.endRow()
		}
		return e.err
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

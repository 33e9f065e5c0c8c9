package ply

import (
	"bufio"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
)

type vertexData struct {
	points  []geometry.Vector3
	normals []geometry.Vector3
	colors  []geometry.Vector3
}

// readVertices consumes a vertex element, capturing the recognized
// properties and discarding the rest.
func readVertices(path string, d decoder, el element) (vertexData, error) {
	var out vertexData
	ix, iy, iz := el.prop("x"), el.prop("y"), el.prop("z")
	if ix < 0 || iy < 0 || iz < 0 {
		return out, format.ParseErrorf(path, "vertex element lacks x/y/z")
	}
	inx, iny, inz := el.prop("nx"), el.prop("ny"), el.prop("nz")
	ir, ig, ib := el.prop("red"), el.prop("green"), el.prop("blue")
	hasNormals := inx >= 0 && iny >= 0 && inz >= 0
	hasColors := ir >= 0 && ig >= 0 && ib >= 0

	colorScale := 1.0
	if hasColors && el.props[ir].typ == typeUint8 {
		colorScale = 1.0 / 255.0
	}

	vals := make([]float64, len(el.props))
	for row := 0; row < el.count; row++ {
		if err := d.beginRow(); err != nil {
			return out, err
		}
		for i, p := range el.props {
			if p.isList {
				if _, err := d.list(p.countType, p.typ); err != nil {
					return out, err
				}
				continue
			}
			v, err := d.scalar(p.typ)
			if err != nil {
				return out, err
			}
			vals[i] = v
		}
		out.points = append(out.points, geometry.Vector3{vals[ix], vals[iy], vals[iz]})
		if hasNormals {
			out.normals = append(out.normals, geometry.Vector3{vals[inx], vals[iny], vals[inz]})
		}
		if hasColors {
			out.colors = append(out.colors, geometry.Vector3{
				vals[ir] * colorScale, vals[ig] * colorScale, vals[ib] * colorScale,
			})
		}
	}
	return out, nil
}

// readFaces consumes a face element, accepting only triangles.
func readFaces(path string, d decoder, el element, nVerts int) ([]geometry.Triangle, error) {
	var listIdx = -1
	for i, p := range el.props {
		if p.isList && (p.name == "vertex_indices" || p.name == "vertex_index") {
			listIdx = i
			break
		}
	}
	if listIdx < 0 {
		return nil, format.ParseErrorf(path, "face element lacks vertex_indices")
	}

	// el.count comes from an untrusted header, so grow instead of
	// preallocating for it.
	var tris []geometry.Triangle
	for row := 0; row < el.count; row++ {
		if err := d.beginRow(); err != nil {
			return nil, err
		}
		for i, p := range el.props {
			if i == listIdx {
				idx, err := d.list(p.countType, p.typ)
				if err != nil {
					return nil, err
				}
				if len(idx) != 3 {
					return nil, format.ParseErrorf(path, "face %d has %d vertices, only triangles supported", row, len(idx))
				}
				for _, v := range idx {
					if v < 0 || v >= nVerts {
						return nil, format.ParseErrorf(path, "face %d references vertex %d of %d", row, v, nVerts)
					}
				}
				tris = append(tris, geometry.Triangle{int32(idx[0]), int32(idx[1]), int32(idx[2])})
				continue
			}
			var err error
			if p.isList {
				_, err = d.list(p.countType, p.typ)
			} else {
				_, err = d.scalar(p.typ)
			}
			if err != nil {
				return nil, err
			}
		}
	}
	return tris, nil
}

// readEdges consumes an edge element with optional per-edge colors.
func readEdges(path string, d decoder, el element, nVerts int) ([]geometry.Line, []geometry.Vector3, error) {
	i1, i2 := el.prop("vertex1"), el.prop("vertex2")
	if i1 < 0 || i2 < 0 {
		return nil, nil, format.ParseErrorf(path, "edge element lacks vertex1/vertex2")
	}
	ir, ig, ib := el.prop("red"), el.prop("green"), el.prop("blue")
	hasColors := ir >= 0 && ig >= 0 && ib >= 0

	colorScale := 1.0
	if hasColors && el.props[ir].typ == typeUint8 {
		colorScale = 1.0 / 255.0
	}

	var lines []geometry.Line
	var colors []geometry.Vector3
	vals := make([]float64, len(el.props))
	for row := 0; row < el.count; row++ {
		if err := d.beginRow(); err != nil {
			return nil, nil, err
		}
		for i, p := range el.props {
			if p.isList {
				if _, err := d.list(p.countType, p.typ); err != nil {
					return nil, nil, err
				}
				continue
			}
			v, err := d.scalar(p.typ)
			if err != nil {
				return nil, nil, err
			}
			vals[i] = v
		}
		a, b := int(vals[i1]), int(vals[i2])
		if a < 0 || a >= nVerts || b < 0 || b >= nVerts {
			return nil, nil, format.ParseErrorf(path, "edge %d references vertex out of range", row)
		}
		lines = append(lines, geometry.Line{int32(a), int32(b)})
		if hasColors {
			colors = append(colors, geometry.Vector3{
				vals[ir] * colorScale, vals[ig] * colorScale, vals[ib] * colorScale,
			})
		}
	}
	return lines, colors, nil
}

func newDecoder(path string, h *header, br *bufio.Reader) decoder {
	if h.ascii {
		return newASCIIDecoder(path, br)
	}
	return newBinaryDecoder(path, br)
}

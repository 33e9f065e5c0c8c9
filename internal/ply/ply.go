// Package ply implements the PLY polygon format for point clouds, triangle
// meshes and line sets, in ASCII and binary_little_endian encodings.
//
// Coordinates and normals are stored as double properties, colors as uchar
// (8 bits per channel, the precision PLY color properties conventionally
// carry). Unrecognized elements and properties are consumed and ignored on
// read.
package ply

import (
	"bufio"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/geoforge/geoio/format"
)

type valueType int

const (
	typeInvalid valueType = iota
	typeInt8
	typeUint8
	typeInt16
	typeUint16
	typeInt32
	typeUint32
	typeFloat32
	typeFloat64
)

var typeNames = map[string]valueType{
	"char": typeInt8, "int8": typeInt8,
	"uchar": typeUint8, "uint8": typeUint8,
	"short": typeInt16, "int16": typeInt16,
	"ushort": typeUint16, "uint16": typeUint16,
	"int": typeInt32, "int32": typeInt32,
	"uint": typeUint32, "uint32": typeUint32,
	"float": typeFloat32, "float32": typeFloat32,
	"double": typeFloat64, "float64": typeFloat64,
}

func (t valueType) size() int {
	switch t {
	case typeInt8, typeUint8:
		return 1
	case typeInt16, typeUint16:
		return 2
	case typeInt32, typeUint32, typeFloat32:
		return 4
	default:
		return 8
	}
}

type property struct {
	name      string
	typ       valueType
	isList    bool
	countType valueType
}

type element struct {
	name  string
	count int
	props []property
}

func (e *element) prop(name string) int {
	for i, p := range e.props {
		if p.name == name {
			return i
		}
	}
	return -1
}

type header struct {
	ascii    bool
	elements []element
}

func parseHeader(path string, br *bufio.Reader) (*header, error) {
	readLine := func() (string, error) {
		line, err := br.ReadString('\n')
		if err != nil {
			return "", format.ParseErrorf(path, "truncated header: %v", err)
		}
		return strings.TrimSpace(line), nil
	}

	magic, err := readLine()
	if err != nil {
		return nil, err
	}
	if magic != "ply" {
		return nil, format.ParseErrorf(path, "not a ply file (magic %q)", magic)
	}

	h := &header{}
	seenFormat := false
	for {
		line, err := readLine()
		if err != nil {
			return nil, err
		}
		tok := strings.Fields(line)
		if len(tok) == 0 {
			continue
		}
		switch tok[0] {
		case "comment", "obj_info":
			// Ignored.
		case "format":
			if len(tok) != 3 {
				return nil, format.ParseErrorf(path, "bad format line %q", line)
			}
			switch tok[1] {
			case "ascii":
				h.ascii = true
			case "binary_little_endian":
				h.ascii = false
			default:
				return nil, format.ParseErrorf(path, "unsupported ply encoding %q", tok[1])
			}
			seenFormat = true
		case "element":
			if len(tok) != 3 {
				return nil, format.ParseErrorf(path, "bad element line %q", line)
			}
			n, err := strconv.Atoi(tok[2])
			if err != nil || n < 0 {
				return nil, format.ParseErrorf(path, "bad element count %q", tok[2])
			}
			h.elements = append(h.elements, element{name: tok[1], count: n})
		case "property":
			if len(h.elements) == 0 {
				return nil, format.ParseErrorf(path, "property before element")
			}
			el := &h.elements[len(h.elements)-1]
			if len(tok) >= 5 && tok[1] == "list" {
				ct, ok1 := typeNames[tok[2]]
				et, ok2 := typeNames[tok[3]]
				if !ok1 || !ok2 {
					return nil, format.ParseErrorf(path, "bad list property %q", line)
				}
				el.props = append(el.props, property{name: tok[4], typ: et, isList: true, countType: ct})
			} else if len(tok) == 3 {
				t, ok := typeNames[tok[1]]
				if !ok {
					return nil, format.ParseErrorf(path, "unknown property type %q", tok[1])
				}
				el.props = append(el.props, property{name: tok[2], typ: t})
			} else {
				return nil, format.ParseErrorf(path, "bad property line %q", line)
			}
		case "end_header":
			if !seenFormat {
				return nil, format.ParseErrorf(path, "missing format line")
			}
			return h, nil
		default:
			return nil, format.ParseErrorf(path, "unknown header keyword %q", tok[0])
		}
	}
}

// decoder yields one element row at a time, as float64 scalars and integer
// lists, for either encoding.
type decoder interface {
	// beginRow must be called once per row before reading properties.
	beginRow() error
	scalar(t valueType) (float64, error)
	list(countType, elemType valueType) ([]int, error)
}

type asciiDecoder struct {
	path string
	sc   *bufio.Scanner
	tok  []string
	pos  int
}

func newASCIIDecoder(path string, br *bufio.Reader) *asciiDecoder {
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &asciiDecoder{path: path, sc: sc}
}

func (d *asciiDecoder) beginRow() error {
	for d.sc.Scan() {
		line := strings.TrimSpace(d.sc.Text())
		if line == "" {
			continue
		}
		d.tok = strings.Fields(line)
		d.pos = 0
		return nil
	}
	if err := d.sc.Err(); err != nil {
		return format.WrapParse(d.path, err)
	}
	return format.ParseErrorf(d.path, "unexpected end of body")
}

func (d *asciiDecoder) next() (string, error) {
	if d.pos >= len(d.tok) {
		return "", format.ParseErrorf(d.path, "row has too few values")
	}
	t := d.tok[d.pos]
	d.pos++
	return t, nil
}

func (d *asciiDecoder) scalar(valueType) (float64, error) {
	t, err := d.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return 0, format.ParseErrorf(d.path, "bad value %q", t)
	}
	return v, nil
}

func (d *asciiDecoder) list(ct, et valueType) ([]int, error) {
	n, err := d.scalar(ct)
	if err != nil {
		return nil, err
	}
	count := int(n)
	if count < 0 || count > len(d.tok) {
		return nil, format.ParseErrorf(d.path, "bad list count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := d.scalar(et)
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

type binaryDecoder struct {
	path string
	r    io.Reader
	buf  [8]byte
}

func newBinaryDecoder(path string, br *bufio.Reader) *binaryDecoder {
	return &binaryDecoder{path: path, r: br}
}

func (d *binaryDecoder) beginRow() error { return nil }

func (d *binaryDecoder) scalar(t valueType) (float64, error) {
	b := d.buf[:t.size()]
	if _, err := io.ReadFull(d.r, b); err != nil {
		return 0, format.ParseErrorf(d.path, "truncated body: %v", err)
	}
	switch t {
	case typeInt8:
		return float64(int8(b[0])), nil
	case typeUint8:
		return float64(b[0]), nil
	case typeInt16:
		return float64(int16(binary.LittleEndian.Uint16(b))), nil
	case typeUint16:
		return float64(binary.LittleEndian.Uint16(b)), nil
	case typeInt32:
		return float64(int32(binary.LittleEndian.Uint32(b))), nil
	case typeUint32:
		return float64(binary.LittleEndian.Uint32(b)), nil
	case typeFloat32:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b))), nil
	default:
		return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
	}
}

func (d *binaryDecoder) list(ct, et valueType) ([]int, error) {
	n, err := d.scalar(ct)
	if err != nil {
		return nil, err
	}
	count := int(n)
	if count < 0 || count > 1<<20 {
		return nil, format.ParseErrorf(d.path, "bad list count %d", count)
	}
	out := make([]int, count)
	for i := range out {
		v, err := d.scalar(et)
		if err != nil {
			return nil, err
		}
		out[i] = int(v)
	}
	return out, nil
}

// skipElement consumes all rows of an element the codec does not use.
func skipElement(d decoder, el element) error {
	for i := 0; i < el.count; i++ {
		if err := d.beginRow(); err != nil {
			return err
		}
		for _, p := range el.props {
			var err error
			if p.isList {
				_, err = d.list(p.countType, p.typ)
			} else {
				_, err = d.scalar(p.typ)
			}
			if err != nil {
				return err
			}
		}
	}
	return nil
}

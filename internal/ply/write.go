package ply

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// encoder emits element rows in either encoding.
type encoder struct {
	w     io.Writer
	ascii bool
	row   []byte
	buf   [8]byte
	err   error
}

func newEncoder(w io.Writer, ascii bool) *encoder {
	return &encoder{w: w, ascii: ascii}
}

func (e *encoder) f64(v float64) {
	if e.err != nil {
		return
	}
	if e.ascii {
		if len(e.row) > 0 {
			e.row = append(e.row, ' ')
		}
		e.row = strconv.AppendFloat(e.row, v, 'g', -1, 64)
		return
	}
	binary.LittleEndian.PutUint64(e.buf[:8], math.Float64bits(v))
	_, e.err = e.w.Write(e.buf[:8])
}

func (e *encoder) u8(v uint8) {
	if e.err != nil {
		return
	}
	if e.ascii {
		if len(e.row) > 0 {
			e.row = append(e.row, ' ')
		}
		e.row = strconv.AppendUint(e.row, uint64(v), 10)
		return
	}
	e.buf[0] = v
	_, e.err = e.w.Write(e.buf[:1])
}

func (e *encoder) i32(v int32) {
	if e.err != nil {
		return
	}
	if e.ascii {
		if len(e.row) > 0 {
			e.row = append(e.row, ' ')
		}
		e.row = strconv.AppendInt(e.row, int64(v), 10)
		return
	}
	binary.LittleEndian.PutUint32(e.buf[:4], uint32(v))
	_, e.err = e.w.Write(e.buf[:4])
}

func (e *encoder) endRow() {
	if e.err != nil || !e.ascii {
		return
	}
	e.row = append(e.row, '\n')
	_, e.err = e.w.Write(e.row)
	e.row = e.row[:0]
}

func colorByte(f float64) uint8 {
	v := int(math.Round(f * 255))
	if v < 0 {
		v = 0
	}
	if v > 255 {
		v = 255
	}
	return uint8(v)
}

type headerSpec struct {
	ascii    bool
	elements []headerElement
}

type headerElement struct {
	name  string
	count int
	lines []string
}

func writeHeader(w io.Writer, spec headerSpec) error {
	enc := "binary_little_endian"
	if spec.ascii {
		enc = "ascii"
	}
	if _, err := fmt.Fprintf(w, "ply\nformat %s 1.0\ncomment created by geoio\n", enc); err != nil {
		return err
	}
	for _, el := range spec.elements {
		if _, err := fmt.Fprintf(w, "element %s %d\n", el.name, el.count); err != nil {
			return err
		}
		for _, l := range el.lines {
			if _, err := fmt.Fprintf(w, "property %s\n", l); err != nil {
				return err
			}
		}
	}
	_, err := io.WriteString(w, "end_header\n")
	return err
}

func vertexProps(hasNormals, hasColors bool) []string {
	props := []string{"double x", "double y", "double z"}
	if hasNormals {
		props = append(props, "double nx", "double ny", "double nz")
	}
	if hasColors {
		props = append(props, "uchar red", "uchar green", "uchar blue")
	}
	return props
}

// Package featio implements the binary descriptor container used for
// feature sets: a fixed little-endian header (magic, dimension, count)
// followed by the packed float32 descriptor block.
package featio

import (
	"encoding/binary"
	"errors"
	"io"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/internal/fsutil"
	"github.com/geoforge/geoio/registration"
)

const (
	magic      = 0x46454130 // "FEA0"
	headerSize = 12
)

type header struct {
	Magic     uint32
	Dimension uint32
	Num       uint32
}

// Codec is the "bin" feature codec. Binary only: ASCII and Compressed
// options are ignored.
type Codec struct{}

// Read loads a descriptor set.
func (Codec) Read(path string) (*registration.Feature, error) {
	f := &registration.Feature{}
	err := fsutil.ReadFileSized(path, func(r io.Reader, size int64) error {
		var h header
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return format.ParseErrorf(path, "short header: %v", err)
		}
		if h.Magic != magic {
			return format.ParseErrorf(path, "bad magic 0x%08x", h.Magic)
		}
		if h.Dimension == 0 || h.Num == 0 {
			return format.ParseErrorf(path, "empty descriptor set (%dx%d)", h.Dimension, h.Num)
		}
		// Header counts are untrusted: the block they declare must fit in
		// the bytes the file actually has.
		avail := uint64(size - headerSize)
		if need := uint64(h.Dimension) * uint64(h.Num); need > avail/4 {
			return format.ParseErrorf(path, "descriptor block needs %d floats, file has %d bytes", need, avail)
		}
		f.Dimension = int(h.Dimension)
		f.Data = make([]float32, int(h.Dimension)*int(h.Num))
		if err := binary.Read(r, binary.LittleEndian, f.Data); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				return format.ParseErrorf(path, "truncated descriptor block: want %d floats", len(f.Data))
			}
			return format.WrapParse(path, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Write stores a descriptor set.
func (Codec) Write(path string, f *registration.Feature, _ format.WriteOptions) error {
	if f.Dimension <= 0 || f.Num() == 0 {
		return format.WrapWrite(path, errors.New("feature has no descriptors"))
	}
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		h := header{Magic: magic, Dimension: uint32(f.Dimension), Num: uint32(f.Num())}
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
		return binary.Write(w, binary.LittleEndian, f.Data[:f.Dimension*f.Num()])
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

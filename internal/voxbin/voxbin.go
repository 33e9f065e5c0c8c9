// Package voxbin implements the "vxb" voxel grid container: a fixed
// little-endian header describing the grid extent, the occupied-cell set as
// a roaring bitmap over linearized grid indices, and an optional packed
// color block. The payload may be zstd-compressed.
package voxbin

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/klauspost/compress/zstd"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

const (
	magic   = 0x56584230 // "VXB0"
	version = 1

	flagColors     = 1 << 0
	flagCompressed = 1 << 1
)

var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
)

type fileHeader struct {
	Magic      uint32
	Version    uint32
	Flags      uint32
	Count      uint32
	VoxelSize  float64
	Origin     [3]float64
	MinIndex   [3]int32
	Dims       [3]uint32
	PayloadLen uint32
}

// Codec is the "vxb" voxel grid codec. Binary only: ASCII is ignored;
// Compressed selects the zstd payload.
type Codec struct{}

// Read loads a voxel grid.
func (Codec) Read(path string) (*geometry.VoxelGrid, error) {
	vg := &geometry.VoxelGrid{}
	err := fsutil.ReadFileSized(path, func(r io.Reader, size int64) error {
		var h fileHeader
		if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
			return format.ParseErrorf(path, "short header: %v", err)
		}
		if h.Magic != magic {
			return format.ParseErrorf(path, "bad magic 0x%08x", h.Magic)
		}
		if h.Version != version {
			return format.ParseErrorf(path, "unsupported version %d", h.Version)
		}
		if h.Count == 0 {
			return format.ParseErrorf(path, "no voxels")
		}
		// Header lengths are untrusted: the payload must fit in the file.
		if int64(h.PayloadLen) > size {
			return format.ParseErrorf(path, "payload of %d bytes, file has %d", h.PayloadLen, size)
		}

		payload := make([]byte, h.PayloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return format.ParseErrorf(path, "truncated payload: %v", err)
		}
		if h.Flags&flagCompressed != 0 {
			raw, err := zstdDecoder.DecodeAll(payload, nil)
			if err != nil {
				return format.ParseErrorf(path, "zstd: %v", err)
			}
			payload = raw
		}

		br := bytes.NewReader(payload)
		var bmLen uint32
		if err := binary.Read(br, binary.LittleEndian, &bmLen); err != nil {
			return format.ParseErrorf(path, "truncated bitmap length: %v", err)
		}
		if int64(bmLen) > int64(br.Len()) {
			return format.ParseErrorf(path, "bitmap of %d bytes, payload has %d left", bmLen, br.Len())
		}
		bmBytes := make([]byte, bmLen)
		if _, err := io.ReadFull(br, bmBytes); err != nil {
			return format.ParseErrorf(path, "truncated bitmap: %v", err)
		}
		bm := roaring.New()
		if err := bm.UnmarshalBinary(bmBytes); err != nil {
			return format.ParseErrorf(path, "bitmap: %v", err)
		}
		if bm.GetCardinality() != uint64(h.Count) {
			return format.ParseErrorf(path, "bitmap has %d cells, header says %d", bm.GetCardinality(), h.Count)
		}

		hasColors := h.Flags&flagColors != 0
		var colors []float64
		if hasColors {
			// The bitmap can match a bogus Count cheaply (a run container
			// covers billions of cells in a few bytes), so bound the color
			// allocation by what the payload actually holds.
			if need := uint64(h.Count) * 24; need > uint64(br.Len()) {
				return format.ParseErrorf(path, "color block needs %d bytes, payload has %d left", need, br.Len())
			}
			colors = make([]float64, 3*int(h.Count))
			if err := binary.Read(br, binary.LittleEndian, colors); err != nil {
				return format.ParseErrorf(path, "truncated color block: %v", err)
			}
		}

		dimX, dimY := h.Dims[0], h.Dims[1]
		if dimX == 0 || dimY == 0 || h.Dims[2] == 0 {
			return format.ParseErrorf(path, "degenerate grid dims %v", h.Dims)
		}

		vg.Origin = geometry.Vector3(h.Origin)
		vg.VoxelSize = h.VoxelSize
		vg.Voxels = make([]geometry.Voxel, 0, h.Count)
		it := bm.Iterator()
		i := 0
		for it.HasNext() {
			lin := it.Next()
			x := lin % dimX
			y := (lin / dimX) % dimY
			z := lin / (dimX * dimY)
			v := geometry.Voxel{GridIndex: [3]int32{
				h.MinIndex[0] + int32(x),
				h.MinIndex[1] + int32(y),
				h.MinIndex[2] + int32(z),
			}}
			if hasColors {
				v.Color = geometry.Vector3{colors[3*i], colors[3*i+1], colors[3*i+2]}
			}
			vg.Voxels = append(vg.Voxels, v)
			i++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return vg, nil
}

// Write stores a voxel grid. Voxels are emitted in ascending linearized
// index order; a duplicate grid index keeps the last voxel's color.
func (Codec) Write(path string, vg *geometry.VoxelGrid, opts format.WriteOptions) error {
	if vg.IsEmpty() {
		return format.WrapWrite(path, errors.New("voxel grid is empty"))
	}

	minIdx := vg.Voxels[0].GridIndex
	maxIdx := minIdx
	for _, v := range vg.Voxels {
		for a := 0; a < 3; a++ {
			if v.GridIndex[a] < minIdx[a] {
				minIdx[a] = v.GridIndex[a]
			}
			if v.GridIndex[a] > maxIdx[a] {
				maxIdx[a] = v.GridIndex[a]
			}
		}
	}
	var dims [3]uint32
	extent := uint64(1)
	for a := 0; a < 3; a++ {
		d := uint64(maxIdx[a]-minIdx[a]) + 1
		dims[a] = uint32(d)
		extent *= d
	}
	if extent > math.MaxUint32 {
		return format.WrapWrite(path, fmt.Errorf("grid extent %d exceeds addressable cells", extent))
	}

	hasColors := vg.HasColors()
	bm := roaring.New()
	colorByLin := make(map[uint32]geometry.Vector3, len(vg.Voxels))
	for _, v := range vg.Voxels {
		lin := uint32(v.GridIndex[0]-minIdx[0]) +
			dims[0]*(uint32(v.GridIndex[1]-minIdx[1])+dims[1]*uint32(v.GridIndex[2]-minIdx[2]))
		bm.Add(lin)
		colorByLin[lin] = v.Color
	}

	bm.RunOptimize()
	bmBytes, err := bm.MarshalBinary()
	if err != nil {
		return format.WrapWrite(path, err)
	}

	var payload bytes.Buffer
	if err := binary.Write(&payload, binary.LittleEndian, uint32(len(bmBytes))); err != nil {
		return format.WrapWrite(path, err)
	}
	payload.Write(bmBytes)
	if hasColors {
		colors := make([]float64, 0, 3*bm.GetCardinality())
		it := bm.Iterator()
		for it.HasNext() {
			c := colorByLin[it.Next()]
			colors = append(colors, c[0], c[1], c[2])
		}
		if err := binary.Write(&payload, binary.LittleEndian, colors); err != nil {
			return format.WrapWrite(path, err)
		}
	}

	flags := uint32(0)
	if hasColors {
		flags |= flagColors
	}
	body := payload.Bytes()
	if opts.Compressed {
		flags |= flagCompressed
		body = zstdEncoder.EncodeAll(body, nil)
	}

	h := fileHeader{
		Magic:      magic,
		Version:    version,
		Flags:      flags,
		Count:      uint32(bm.GetCardinality()),
		VoxelSize:  vg.VoxelSize,
		Origin:     [3]float64(vg.Origin),
		MinIndex:   minIdx,
		Dims:       dims,
		PayloadLen: uint32(len(body)),
	}

	err = fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		if err := binary.Write(w, binary.LittleEndian, h); err != nil {
			return err
		}
		_, err := w.Write(body)
		return err
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

// Package pcd implements the PCD point cloud format: a text header
// declaring the field layout followed by ASCII rows, packed little-endian
// binary, or an lz4-compressed binary block.
//
// Supported fields are x/y/z (float32), normal_x/normal_y/normal_z
// (float32) and rgb (packed 8-bit-per-channel uint32). Unrecognized fields
// are skipped on read. Colors are quantized to 8 bits per channel, the
// precision the packed rgb field can represent.
package pcd

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pierrec/lz4/v4"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/fsutil"
)

const (
	dataASCII      = "ascii"
	dataBinary     = "binary"
	dataCompressed = "binary_compressed"
)

// Codec is the "pcd" point cloud codec. ASCII selects the text body;
// Compressed selects the lz4 body (binary only).
type Codec struct{}

type field struct {
	name  string
	size  int
	typ   byte // F, I or U
	count int
}

type header struct {
	fields []field
	points int
	data   string
}

func (h *header) stride() int {
	n := 0
	for _, f := range h.fields {
		n += f.size * f.count
	}
	return n
}

// Read parses the file into a point cloud.
func (Codec) Read(path string) (*geometry.PointCloud, error) {
	pc := &geometry.PointCloud{}
	err := fsutil.ReadFileSized(path, func(r io.Reader, size int64) error {
		br := bufio.NewReader(r)
		h, err := parseHeader(path, br)
		if err != nil {
			return err
		}
		switch h.data {
		case dataASCII:
			err = readASCII(path, br, h, pc)
		case dataBinary:
			err = readBinary(path, br, h, pc, size)
		case dataCompressed:
			err = readCompressed(path, br, h, pc, size)
		default:
			err = format.ParseErrorf(path, "unsupported DATA kind %q", h.data)
		}
		if err != nil {
			return err
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

func parseHeader(path string, br *bufio.Reader) (*header, error) {
	h := &header{points: -1}
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			return nil, format.ParseErrorf(path, "truncated header: %v", err)
		}
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tok := strings.Fields(line)
		key := strings.ToUpper(tok[0])
		args := tok[1:]
		switch key {
		case "VERSION", "WIDTH", "HEIGHT", "VIEWPOINT":
			// Not needed for unorganized clouds.
		case "FIELDS":
			h.fields = make([]field, len(args))
			for i, name := range args {
				h.fields[i] = field{name: strings.ToLower(name), size: 4, typ: 'F', count: 1}
			}
		case "SIZE":
			if len(args) != len(h.fields) {
				return nil, format.ParseErrorf(path, "SIZE has %d entries, FIELDS has %d", len(args), len(h.fields))
			}
			for i, a := range args {
				v, err := strconv.Atoi(a)
				if err != nil || (v != 1 && v != 2 && v != 4 && v != 8) {
					return nil, format.ParseErrorf(path, "bad SIZE entry %q", a)
				}
				h.fields[i].size = v
			}
		case "TYPE":
			if len(args) != len(h.fields) {
				return nil, format.ParseErrorf(path, "TYPE has %d entries, FIELDS has %d", len(args), len(h.fields))
			}
			for i, a := range args {
				if len(a) != 1 {
					return nil, format.ParseErrorf(path, "bad TYPE entry %q", a)
				}
				h.fields[i].typ = a[0]
			}
		case "COUNT":
			if len(args) != len(h.fields) {
				return nil, format.ParseErrorf(path, "COUNT has %d entries, FIELDS has %d", len(args), len(h.fields))
			}
			for i, a := range args {
				v, err := strconv.Atoi(a)
				if err != nil || v <= 0 || v > 1<<20 {
					return nil, format.ParseErrorf(path, "bad COUNT entry %q", a)
				}
				h.fields[i].count = v
			}
		case "POINTS":
			if len(args) != 1 {
				return nil, format.ParseErrorf(path, "bad POINTS line %q", line)
			}
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return nil, format.ParseErrorf(path, "bad POINTS value %q", args[0])
			}
			h.points = v
		case "DATA":
			if len(args) != 1 {
				return nil, format.ParseErrorf(path, "bad DATA line %q", line)
			}
			h.data = strings.ToLower(args[0])
			if len(h.fields) == 0 {
				return nil, format.ParseErrorf(path, "DATA before FIELDS")
			}
			if h.points < 0 {
				return nil, format.ParseErrorf(path, "DATA before POINTS")
			}
			return h, nil
		default:
			return nil, format.ParseErrorf(path, "unknown header key %q", tok[0])
		}
	}
}

// fieldTargets resolves which destination each field feeds.
type targets struct {
	x, y, z    int // field index or -1
	nx, ny, nz int
	rgb        int
}

func resolveTargets(path string, h *header) (targets, error) {
	t := targets{x: -1, y: -1, z: -1, nx: -1, ny: -1, nz: -1, rgb: -1}
	for i, f := range h.fields {
		switch f.name {
		case "x":
			t.x = i
		case "y":
			t.y = i
		case "z":
			t.z = i
		case "normal_x":
			t.nx = i
		case "normal_y":
			t.ny = i
		case "normal_z":
			t.nz = i
		case "rgb", "rgba":
			t.rgb = i
		}
	}
	if t.x < 0 || t.y < 0 || t.z < 0 {
		return t, format.ParseErrorf(path, "missing x/y/z fields")
	}
	return t, nil
}

func unpackRGB(v uint32) geometry.Vector3 {
	return geometry.Vector3{
		float64((v >> 16) & 0xff) / 255,
		float64((v >> 8) & 0xff) / 255,
		float64(v & 0xff) / 255,
	}
}

func packRGB(c geometry.Vector3) uint32 {
	clamp := func(f float64) uint32 {
		v := int(math.Round(f * 255))
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		return uint32(v)
	}
	return clamp(c[0])<<16 | clamp(c[1])<<8 | clamp(c[2])
}

func readASCII(path string, br *bufio.Reader, h *header, pc *geometry.PointCloud) error {
	t, err := resolveTargets(path, h)
	if err != nil {
		return err
	}
	hasNormals := t.nx >= 0 && t.ny >= 0 && t.nz >= 0
	hasColors := t.rgb >= 0

	// Token offset of each field within a row.
	offsets := make([]int, len(h.fields))
	n := 0
	for i, f := range h.fields {
		offsets[i] = n
		n += f.count
	}

	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	row := 0
	for sc.Scan() && row < h.points {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tok := strings.Fields(line)
		if len(tok) < n {
			return format.ParseErrorf(path, "point %d: have %d values, want %d", row, len(tok), n)
		}
		get := func(fi int) (float64, error) {
			return strconv.ParseFloat(tok[offsets[fi]], 64)
		}
		var p geometry.Vector3
		for axis, fi := range []int{t.x, t.y, t.z} {
			v, err := get(fi)
			if err != nil {
				return format.ParseErrorf(path, "point %d: %v", row, err)
			}
			p[axis] = v
		}
		pc.Points = append(pc.Points, p)
		if hasNormals {
			var nv geometry.Vector3
			for axis, fi := range []int{t.nx, t.ny, t.nz} {
				v, err := get(fi)
				if err != nil {
					return format.ParseErrorf(path, "point %d: %v", row, err)
				}
				nv[axis] = v
			}
			pc.Normals = append(pc.Normals, nv)
		}
		if hasColors {
			raw := tok[offsets[t.rgb]]
			u, err := strconv.ParseUint(raw, 10, 32)
			if err != nil {
				// Some writers store the packed value through float bits.
				f, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil {
					return format.ParseErrorf(path, "point %d: bad rgb %q", row, raw)
				}
				u = uint64(math.Float32bits(float32(f)))
			}
			pc.Colors = append(pc.Colors, unpackRGB(uint32(u)))
		}
		row++
	}
	if err := sc.Err(); err != nil {
		return format.WrapParse(path, err)
	}
	if row < h.points {
		return format.ParseErrorf(path, "truncated body: %d of %d points", row, h.points)
	}
	return nil
}

func decodeBinaryBody(path string, body []byte, h *header, pc *geometry.PointCloud) error {
	t, err := resolveTargets(path, h)
	if err != nil {
		return err
	}
	stride := h.stride()
	if h.points > len(body)/stride {
		return format.ParseErrorf(path, "truncated body: %d bytes, want %d records of %d", len(body), h.points, stride)
	}
	hasNormals := t.nx >= 0 && t.ny >= 0 && t.nz >= 0
	hasColors := t.rgb >= 0

	byteOff := make([]int, len(h.fields))
	n := 0
	for i, f := range h.fields {
		byteOff[i] = n
		n += f.size * f.count
	}
	f32 := func(rec []byte, fi int) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(rec[byteOff[fi]:])))
	}

	for i := 0; i < h.points; i++ {
		rec := body[i*stride : (i+1)*stride]
		pc.Points = append(pc.Points, geometry.Vector3{f32(rec, t.x), f32(rec, t.y), f32(rec, t.z)})
		if hasNormals {
			pc.Normals = append(pc.Normals, geometry.Vector3{f32(rec, t.nx), f32(rec, t.ny), f32(rec, t.nz)})
		}
		if hasColors {
			pc.Colors = append(pc.Colors, unpackRGB(binary.LittleEndian.Uint32(rec[byteOff[t.rgb]:])))
		}
	}
	return nil
}

func readBinary(path string, br *bufio.Reader, h *header, pc *geometry.PointCloud, size int64) error {
	// POINTS is untrusted: the body it declares must fit in the file.
	stride := h.stride()
	if int64(h.points) > size/int64(stride) {
		return format.ParseErrorf(path, "body needs %d records of %d bytes, file has %d bytes", h.points, stride, size)
	}
	body := make([]byte, stride*h.points)
	if _, err := io.ReadFull(br, body); err != nil {
		return format.ParseErrorf(path, "truncated body: %v", err)
	}
	return decodeBinaryBody(path, body, h, pc)
}

func readCompressed(path string, br *bufio.Reader, h *header, pc *geometry.PointCloud, size int64) error {
	var sizes [2]uint32
	if err := binary.Read(br, binary.LittleEndian, &sizes); err != nil {
		return format.ParseErrorf(path, "truncated compression header: %v", err)
	}
	// Both sizes are untrusted. The compressed block must fit in the
	// file, and an lz4 block cannot expand past 255x its input, which
	// bounds the decompressed allocation too.
	if int64(sizes[0]) > size {
		return format.ParseErrorf(path, "compressed block of %d bytes, file has %d", sizes[0], size)
	}
	if uint64(sizes[1]) > 255*uint64(sizes[0])+16 {
		return format.ParseErrorf(path, "decompressed size %d implausible for %d compressed bytes", sizes[1], sizes[0])
	}
	compressed := make([]byte, sizes[0])
	if _, err := io.ReadFull(br, compressed); err != nil {
		return format.ParseErrorf(path, "truncated compressed body: %v", err)
	}
	if sizes[0] == sizes[1] {
		// Stored block.
		return decodeBinaryBody(path, compressed, h, pc)
	}
	body := make([]byte, sizes[1])
	n, err := lz4.UncompressBlock(compressed, body)
	if err != nil {
		return format.ParseErrorf(path, "lz4: %v", err)
	}
	return decodeBinaryBody(path, body[:n], h, pc)
}

// Write serializes the point cloud.
func (Codec) Write(path string, pc *geometry.PointCloud, opts format.WriteOptions) error {
	hasNormals := pc.HasNormals()
	hasColors := pc.HasColors()

	names := []string{"x", "y", "z"}
	types := []byte{'F', 'F', 'F'}
	if hasNormals {
		names = append(names, "normal_x", "normal_y", "normal_z")
		types = append(types, 'F', 'F', 'F')
	}
	if hasColors {
		names = append(names, "rgb")
		types = append(types, 'U')
	}

	data := dataBinary
	if opts.ASCII {
		data = dataASCII
	} else if opts.Compressed {
		data = dataCompressed
	}

	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		if err := writeHeader(w, names, types, len(pc.Points), data); err != nil {
			return err
		}
		switch data {
		case dataASCII:
			return writeASCII(w, pc, hasNormals, hasColors)
		case dataBinary:
			_, err := w.Write(encodeBinaryBody(pc, hasNormals, hasColors))
			return err
		default:
			return writeCompressed(w, pc, hasNormals, hasColors)
		}
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

func writeHeader(w io.Writer, names []string, types []byte, points int, data string) error {
	sizes := make([]string, len(names))
	counts := make([]string, len(names))
	typeStrs := make([]string, len(names))
	for i := range names {
		sizes[i] = "4"
		counts[i] = "1"
		typeStrs[i] = string(types[i])
	}
	_, err := fmt.Fprintf(w,
		"# .PCD v0.7 - Point Cloud Data file format\n"+
			"VERSION 0.7\n"+
			"FIELDS %s\nSIZE %s\nTYPE %s\nCOUNT %s\n"+
			"WIDTH %d\nHEIGHT 1\nVIEWPOINT 0 0 0 1 0 0 0\nPOINTS %d\nDATA %s\n",
		strings.Join(names, " "), strings.Join(sizes, " "),
		strings.Join(typeStrs, " "), strings.Join(counts, " "),
		points, points, data)
	return err
}

func writeASCII(w io.Writer, pc *geometry.PointCloud, hasNormals, hasColors bool) error {
	for i, p := range pc.Points {
		if _, err := fmt.Fprintf(w, "%g %g %g", float32(p[0]), float32(p[1]), float32(p[2])); err != nil {
			return err
		}
		if hasNormals {
			n := pc.Normals[i]
			if _, err := fmt.Fprintf(w, " %g %g %g", float32(n[0]), float32(n[1]), float32(n[2])); err != nil {
				return err
			}
		}
		if hasColors {
			if _, err := fmt.Fprintf(w, " %d", packRGB(pc.Colors[i])); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

func encodeBinaryBody(pc *geometry.PointCloud, hasNormals, hasColors bool) []byte {
	stride := 12
	if hasNormals {
		stride += 12
	}
	if hasColors {
		stride += 4
	}
	body := make([]byte, stride*len(pc.Points))
	off := 0
	putF32 := func(v float64) {
		binary.LittleEndian.PutUint32(body[off:], math.Float32bits(float32(v)))
		off += 4
	}
	for i, p := range pc.Points {
		putF32(p[0])
		putF32(p[1])
		putF32(p[2])
		if hasNormals {
			n := pc.Normals[i]
			putF32(n[0])
			putF32(n[1])
			putF32(n[2])
		}
		if hasColors {
			binary.LittleEndian.PutUint32(body[off:], packRGB(pc.Colors[i]))
			off += 4
		}
	}
	return body
}

func writeCompressed(w io.Writer, pc *geometry.PointCloud, hasNormals, hasColors bool) error {
	body := encodeBinaryBody(pc, hasNormals, hasColors)
	dst := make([]byte, lz4.CompressBlockBound(len(body)))
	n, err := lz4.CompressBlock(body, dst, nil)
	if err != nil {
		return err
	}
	if n == 0 || n >= len(body) {
		// Incompressible. Store the body raw; equal sizes in the
		// compression header mark a stored block for the reader.
		n = copy(dst, body)
	}
	if err := binary.Write(w, binary.LittleEndian, [2]uint32{uint32(n), uint32(len(body))}); err != nil {
		return err
	}
	_, err = w.Write(dst[:n])
	return err
}

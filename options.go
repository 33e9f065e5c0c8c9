package geoio

import "github.com/geoforge/geoio/format"

type readOptions struct {
	sel            format.Selection
	removeNaN      bool
	removeInfinite bool
}

func defaultReadOptions() readOptions {
	return readOptions{
		sel:            format.Inferred(),
		removeNaN:      true,
		removeInfinite: true,
	}
}

// ReadOption configures a Read* call. Options that do not apply to the
// entity kind being read are ignored.
type ReadOption func(*readOptions)

// WithFormat names the format explicitly instead of inferring it from the
// filename extension. The sentinel "auto" (or "") keeps inference.
func WithFormat(formatName string) ReadOption {
	return func(o *readOptions) {
		o.sel = format.FromString(formatName)
	}
}

// WithRemoveNaNPoints controls whether points containing NaN coordinates
// are removed after reading a point cloud. Default true.
func WithRemoveNaNPoints(remove bool) ReadOption {
	return func(o *readOptions) {
		o.removeNaN = remove
	}
}

// WithRemoveInfinitePoints controls whether points containing infinite
// coordinates are removed after reading a point cloud. Default true.
func WithRemoveInfinitePoints(remove bool) ReadOption {
	return func(o *readOptions) {
		o.removeInfinite = remove
	}
}

func applyReadOptions(opts []ReadOption) readOptions {
	o := defaultReadOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// WriteOption configures a Write* call. Options the target codec does not
// recognize are ignored, never an error.
type WriteOption func(*format.WriteOptions)

// WithASCII selects text encoding for formats that have one. Default is
// binary.
func WithASCII(ascii bool) WriteOption {
	return func(o *format.WriteOptions) {
		o.ASCII = ascii
	}
}

// WithCompressed requests the compressed variant for formats that have
// one. Compression never changes the logical content.
func WithCompressed(compressed bool) WriteOption {
	return func(o *format.WriteOptions) {
		o.Compressed = compressed
	}
}

// WithQuality sets the encoder quality for lossy image formats, 0-100.
// Default 90.
func WithQuality(quality int) WriteOption {
	return func(o *format.WriteOptions) {
		o.Quality = quality
	}
}

// WithWriteVertexNormals controls emission of vertex normals by mesh
// codecs, even when the mesh carries them. Default true.
func WithWriteVertexNormals(write bool) WriteOption {
	return func(o *format.WriteOptions) {
		o.WriteVertexNormals = write
	}
}

// WithWriteVertexColors controls emission of vertex colors by mesh codecs.
// Default true.
func WithWriteVertexColors(write bool) WriteOption {
	return func(o *format.WriteOptions) {
		o.WriteVertexColors = write
	}
}

func applyWriteOptions(opts []WriteOption) format.WriteOptions {
	o := format.DefaultWriteOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

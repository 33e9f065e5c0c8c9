package format

// WriteOptions is the option record handed to every codec's Write. Codecs
// apply the fields they recognize and ignore the rest; an inapplicable
// option is never an error.
type WriteOptions struct {
	// ASCII selects text encoding where the format has one. Default is
	// binary.
	ASCII bool
	// Compressed requests the format's compressed variant where one
	// exists. Compression never changes the logical content.
	Compressed bool
	// Quality is the encoder quality for lossy image formats, 0-100.
	Quality int
	// WriteVertexNormals and WriteVertexColors gate per-vertex attribute
	// emission for mesh formats, even when the mesh carries them.
	WriteVertexNormals bool
	WriteVertexColors  bool
}

// DefaultWriteOptions returns the documented defaults: binary encoding, no
// compression, image quality 90, vertex attributes emitted.
func DefaultWriteOptions() WriteOptions {
	return WriteOptions{
		Quality:            90,
		WriteVertexNormals: true,
		WriteVertexColors:  true,
	}
}

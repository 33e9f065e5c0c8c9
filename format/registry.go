package format

import "sync"

// Codec is the read/write contract one format implementation satisfies for
// one entity kind.
//
// Read must either produce a populated entity or fail; returning an empty
// entity with a nil error is a defect. Write must apply the recognized
// WriteOptions and leave no partial file behind on failure.
type Codec[T any] interface {
	Read(path string) (T, error)
	Write(path string, entity T, opts WriteOptions) error
}

// Registry maps tags to codecs for a single entity kind.
type Registry[T any] struct {
	kind string

	mu     sync.RWMutex
	codecs map[Tag]Codec[T]
}

// NewRegistry creates an empty registry. kind is the entity kind name used
// in error messages ("point cloud", "triangle mesh", ...).
func NewRegistry[T any](kind string) *Registry[T] {
	return &Registry[T]{
		kind:   kind,
		codecs: make(map[Tag]Codec[T]),
	}
}

// Register installs codec under tag, replacing any prior registration for
// the same tag (last registration wins).
func (r *Registry[T]) Register(tag Tag, codec Codec[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[Normalize(tag)] = codec
}

// Lookup returns the codec registered under tag.
func (r *Registry[T]) Lookup(tag Tag) (Codec[T], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.codecs[Normalize(tag)]
	return c, ok
}

// Tags returns the registered tags in unspecified order.
func (r *Registry[T]) Tags() []Tag {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]Tag, 0, len(r.codecs))
	for t := range r.codecs {
		tags = append(tags, t)
	}
	return tags
}

// Resolve maps a selection to a codec. An explicit tag that is not
// registered fails with UnsupportedFormatError; an inferred tag that is not
// registered fails with UnknownFormatError, since the extension matched no
// known format for this kind.
func (r *Registry[T]) Resolve(sel Selection, filename string) (Codec[T], error) {
	if sel.IsExplicit() {
		c, ok := r.Lookup(sel.Tag())
		if !ok {
			return nil, &UnsupportedFormatError{Kind: r.kind, Tag: sel.Tag()}
		}
		return c, nil
	}

	tag, err := Infer(filename)
	if err != nil {
		return nil, &UnknownFormatError{Kind: r.kind, Filename: filename}
	}
	c, ok := r.Lookup(tag)
	if !ok {
		return nil, &UnknownFormatError{Kind: r.kind, Filename: filename}
	}
	return c, nil
}

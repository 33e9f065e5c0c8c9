// Package format implements format tags, extension inference and per-entity
// codec registries.
//
// Each entity kind owns its own Registry; tags are scoped to a registry and
// never shared across kinds, even when spelled the same. Registries are
// populated once at startup and safe for concurrent resolution; hot
// registration is permitted and guarded by a reader-writer lock.
package format

import (
	"path/filepath"
	"strings"
)

// Tag names one concrete on-disk representation for an entity kind, e.g.
// "pcd" or "ply". Tags compare case-insensitively; Normalize is the
// canonical form.
type Tag string

// Normalize lowercases a tag for case-insensitive comparison.
func Normalize[S ~string](tag S) Tag {
	return Tag(strings.ToLower(string(tag)))
}

// Infer derives the candidate tag from a filename's final extension,
// case-insensitively. Compound suffixes beyond the final one are ignored:
// "cloud.backup.PCD" infers "pcd".
//
// Pure and side-effect free; whether the tag is actually registered for a
// given entity kind is decided by Registry.Resolve.
func Infer(filename string) (Tag, error) {
	ext := filepath.Ext(filepath.Base(filename))
	if len(ext) < 2 {
		return "", &UnknownFormatError{Filename: filename}
	}
	return Normalize(ext[1:]), nil
}

// Selection picks the codec for an operation: either an explicit tag or
// inference from the filename extension. The zero value infers.
type Selection struct {
	tag      Tag
	explicit bool
}

// Explicit selects a named tag.
func Explicit[S ~string](tag S) Selection {
	return Selection{tag: Normalize(tag), explicit: true}
}

// Inferred selects extension-based inference.
func Inferred() Selection {
	return Selection{}
}

// FromString maps a user-facing format argument to a Selection. The
// sentinel "auto" (or an empty string) means inference; anything else is an
// explicit tag.
func FromString(format string) Selection {
	if format == "" || strings.EqualFold(format, "auto") {
		return Inferred()
	}
	return Explicit(format)
}

// IsExplicit reports whether the selection carries an explicit tag.
func (s Selection) IsExplicit() bool { return s.explicit }

// Tag returns the explicit tag, or "" for an inferred selection.
func (s Selection) Tag() Tag { return s.tag }

package format

import "fmt"

// ParseError indicates structurally invalid file content: wrong magic
// header, truncated data, inconsistent counts. Detail identifies the
// offending field or offset where feasible.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ParseError struct {
	Path   string
	Detail string
	cause  error
}

// ParseErrorf builds a ParseError with a formatted detail string.
func ParseErrorf(path string, format string, args ...any) *ParseError {
	return &ParseError{Path: path, Detail: fmt.Sprintf(format, args...)}
}

// WrapParse attaches a path to an underlying decode error.
func WrapParse(path string, cause error) *ParseError {
	return &ParseError{Path: path, Detail: cause.Error(), cause: cause}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %s", e.Path, e.Detail)
}

func (e *ParseError) Unwrap() error { return e.cause }

// WriteError indicates an I/O failure while serializing: disk full,
// permission, unreachable parent directory.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type WriteError struct {
	Path  string
	cause error
}

// WrapWrite attaches a path to an underlying write failure.
func WrapWrite(path string, cause error) *WriteError {
	return &WriteError{Path: path, cause: cause}
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.cause)
}

func (e *WriteError) Unwrap() error { return e.cause }

// UnknownFormatError indicates that a filename's extension maps to no
// registered tag for the requested entity kind, or that the filename has no
// extension at all.
type UnknownFormatError struct {
	Kind     string
	Filename string
}

func (e *UnknownFormatError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("unknown format: %q has no recognizable extension", e.Filename)
	}
	return fmt.Sprintf("unknown %s format for %q", e.Kind, e.Filename)
}

// UnsupportedFormatError indicates that an explicitly requested tag has no
// registered codec for the entity kind.
type UnsupportedFormatError struct {
	Kind string
	Tag  Tag
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s format %q", e.Kind, e.Tag)
}

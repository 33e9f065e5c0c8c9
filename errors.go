package geoio

import (
	"io/fs"

	"github.com/geoforge/geoio/format"
)

// Error taxonomy. Resolution and codec errors propagate unchanged from the
// Read* functions; the Write* functions degrade them to a boolean false and
// log the detail.
//
// File access errors keep their platform identity: match them with
// errors.Is against ErrNotFound / ErrPermission.
type (
	// UnknownFormatError: the filename's extension maps to no registered
	// format for the entity kind.
	UnknownFormatError = format.UnknownFormatError
	// UnsupportedFormatError: an explicitly named format has no
	// registered codec for the entity kind.
	UnsupportedFormatError = format.UnsupportedFormatError
	// ParseError: structurally invalid file content.
	ParseError = format.ParseError
	// WriteError: I/O failure while serializing.
	WriteError = format.WriteError
)

var (
	// ErrNotFound matches read failures for missing files.
	ErrNotFound = fs.ErrNotExist
	// ErrPermission matches access failures.
	ErrPermission = fs.ErrPermission
)

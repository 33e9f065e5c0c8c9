// Package blobstore abstracts where geometry files live: a local
// directory, process memory, or S3-compatible object storage. The dataset
// package uses it to stage remote files for the codecs, which operate on
// local paths.
package blobstore

import (
	"context"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
// The default maps to os.ErrNotExist.
var ErrNotFound = os.ErrNotExist

// Store is a named collection of immutable blobs.
type Store interface {
	// Open opens a blob for sequential reading.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
	// Create opens a blob for writing. The blob becomes visible under
	// name when the returned writer is closed without error.
	Create(ctx context.Context, name string) (io.WriteCloser, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
	// List returns the names of blobs whose name starts with prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

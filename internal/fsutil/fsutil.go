// Package fsutil provides the file access discipline shared by all codecs:
// buffered scoped reads and atomic buffered writes.
package fsutil

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
)

const bufSize = 256 * 1024

// ReadFile opens filename, hands a buffered reader to readFunc and closes
// the file on all exit paths. Open errors (not-exist, permission) propagate
// unchanged so errors.Is against fs.ErrNotExist / fs.ErrPermission works.
func ReadFile(filename string, readFunc func(io.Reader) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	return readFunc(bufio.NewReaderSize(f, bufSize))
}

// ReadFileSized is ReadFile with the file's length handed to readFunc, so
// binary codecs can validate header-declared counts against it before
// allocating for them.
func ReadFileSized(filename string, readFunc func(r io.Reader, size int64) error) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return err
	}
	return readFunc(bufio.NewReaderSize(f, bufSize), fi.Size())
}

// WriteFileAtomic writes via writeFunc to a temp file in the target
// directory, fsyncs it and atomically renames it over filename. On any
// failure the temp file is removed and the target path is left untouched,
// so a failed write never leaves a partial file behind.
func WriteFileAtomic(filename string, writeFunc func(io.Writer) error) error {
	dir := filepath.Dir(filename)
	base := filepath.Base(filename)

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	// Match typical file permissions (best-effort).
	_ = tmp.Chmod(0644)

	buf := bufio.NewWriterSize(tmp, bufSize)
	if err := writeFunc(buf); err != nil {
		return err
	}
	if err := buf.Flush(); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Rename(tmpName, filename); err != nil {
		return err
	}

	// Best-effort: fsync the directory so the rename is durable on POSIX.
	if d, err := os.Open(dir); err == nil {
		_ = d.Sync()
		_ = d.Close()
	}

	tmpName = ""
	return nil
}

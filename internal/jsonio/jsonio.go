// Package jsonio reads and writes the JSON-convertible entities (camera
// intrinsics, camera parameters, trajectories, pose graphs) through a single
// canonical JSON representation.
package jsonio

import (
	"encoding/json"
	"io"

	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/internal/fsutil"
)

// Read decodes the JSON file at path into v. Open errors propagate
// unchanged; malformed content fails with a ParseError.
func Read(path string, v any) error {
	return fsutil.ReadFile(path, func(r io.Reader) error {
		if err := json.NewDecoder(r).Decode(v); err != nil {
			return format.WrapParse(path, err)
		}
		return nil
	})
}

// Write encodes v as indented JSON, atomically.
func Write(path string, v any) error {
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "\t")
		return enc.Encode(v)
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

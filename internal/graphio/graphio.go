// Package graphio implements the pose graph "json" codec.
package graphio

import (
	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/internal/jsonio"
	"github.com/geoforge/geoio/registration"
)

// JSONCodec stores pose graphs in their canonical JSON representation.
type JSONCodec struct{}

// Read loads a pose graph.
func (JSONCodec) Read(path string) (*registration.PoseGraph, error) {
	pg := &registration.PoseGraph{}
	if err := jsonio.Read(path, pg); err != nil {
		return nil, err
	}
	if pg.IsEmpty() {
		return nil, format.ParseErrorf(path, "no nodes")
	}
	return pg, nil
}

// Write stores a pose graph. Write options are ignored.
func (JSONCodec) Write(path string, pg *registration.PoseGraph, _ format.WriteOptions) error {
	return jsonio.Write(path, pg)
}

// Package geometry defines the in-memory value types moved through the I/O
// layer: point clouds, triangle meshes, line sets, voxel grids and images.
//
// All types are plain value containers owned by the caller. Codecs read and
// write their exported fields and never retain references past a single call.
package geometry

import "math"

// Vector3 is a 3D coordinate, normal or RGB color (components in [0,1]).
type Vector3 [3]float64

// IsNaN reports whether any component is NaN.
func (v Vector3) IsNaN() bool {
	return math.IsNaN(v[0]) || math.IsNaN(v[1]) || math.IsNaN(v[2])
}

// IsInf reports whether any component is infinite.
func (v Vector3) IsInf() bool {
	return math.IsInf(v[0], 0) || math.IsInf(v[1], 0) || math.IsInf(v[2], 0)
}

// Triangle indexes three vertices of a mesh.
type Triangle [3]int32

// Line indexes the two endpoints of a line segment.
type Line [2]int32

package geometry

// Voxel is one occupied cell of a VoxelGrid, addressed by integer grid
// coordinates relative to the grid origin.
type Voxel struct {
	GridIndex [3]int32
	Color     Vector3
}

// VoxelGrid is a sparse set of occupied voxels on a regular grid.
type VoxelGrid struct {
	Origin    Vector3
	VoxelSize float64
	Voxels    []Voxel
}

// IsEmpty reports whether the grid has no occupied voxels.
func (vg *VoxelGrid) IsEmpty() bool { return len(vg.Voxels) == 0 }

// HasColors reports whether the grid carries per-voxel colors.
// A grid written without colors reads back with all colors zero, so this is
// a heuristic for callers that want to skip color emission.
func (vg *VoxelGrid) HasColors() bool {
	for _, v := range vg.Voxels {
		if v.Color != (Vector3{}) {
			return true
		}
	}
	return false
}

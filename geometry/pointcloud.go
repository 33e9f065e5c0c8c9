package geometry

// PointCloud holds point coordinates with optional per-point normals and
// colors. Normals and Colors are either empty or the same length as Points.
type PointCloud struct {
	Points  []Vector3
	Normals []Vector3
	Colors  []Vector3
}

// IsEmpty reports whether the cloud has no points.
func (pc *PointCloud) IsEmpty() bool { return len(pc.Points) == 0 }

// HasNormals reports whether every point carries a normal.
func (pc *PointCloud) HasNormals() bool {
	return len(pc.Points) > 0 && len(pc.Normals) == len(pc.Points)
}

// HasColors reports whether every point carries a color.
func (pc *PointCloud) HasColors() bool {
	return len(pc.Points) > 0 && len(pc.Colors) == len(pc.Points)
}

// RemoveNonFinitePoints drops points whose coordinates contain NaN
// (if removeNaN) or an infinity (if removeInfinite), in place.
//
// A single linear pass preserves the relative order of surviving points.
// Normals and colors are filtered in lock-step so per-point attributes stay
// index-aligned with coordinates.
func (pc *PointCloud) RemoveNonFinitePoints(removeNaN, removeInfinite bool) {
	if !removeNaN && !removeInfinite {
		return
	}
	hasNormals := pc.HasNormals()
	hasColors := pc.HasColors()

	k := 0
	for i, p := range pc.Points {
		if removeNaN && p.IsNaN() {
			continue
		}
		if removeInfinite && p.IsInf() {
			continue
		}
		pc.Points[k] = pc.Points[i]
		if hasNormals {
			pc.Normals[k] = pc.Normals[i]
		}
		if hasColors {
			pc.Colors[k] = pc.Colors[i]
		}
		k++
	}
	pc.Points = pc.Points[:k]
	if hasNormals {
		pc.Normals = pc.Normals[:k]
	}
	if hasColors {
		pc.Colors = pc.Colors[:k]
	}
}

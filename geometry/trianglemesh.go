package geometry

// TriangleMesh holds mesh vertices with optional per-vertex attributes and
// triangle connectivity.
type TriangleMesh struct {
	Vertices      []Vector3
	VertexNormals []Vector3
	VertexColors  []Vector3
	Triangles     []Triangle
	// TriangleNormals are per-face normals. Formats without vertex
	// sharing (e.g. STL) carry these instead of vertex normals.
	TriangleNormals []Vector3
}

// IsEmpty reports whether the mesh has no vertices.
func (m *TriangleMesh) IsEmpty() bool { return len(m.Vertices) == 0 }

// HasVertexNormals reports whether every vertex carries a normal.
func (m *TriangleMesh) HasVertexNormals() bool {
	return len(m.Vertices) > 0 && len(m.VertexNormals) == len(m.Vertices)
}

// HasVertexColors reports whether every vertex carries a color.
func (m *TriangleMesh) HasVertexColors() bool {
	return len(m.Vertices) > 0 && len(m.VertexColors) == len(m.Vertices)
}

// HasTriangles reports whether the mesh has connectivity.
func (m *TriangleMesh) HasTriangles() bool {
	return len(m.Vertices) > 0 && len(m.Triangles) > 0
}

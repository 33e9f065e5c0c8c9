// Package registration defines the alignment artifacts moved through the
// I/O layer: feature descriptor sets and pose graphs.
package registration

import "gonum.org/v1/gonum/mat"

// Feature is a dense descriptor set: Num() descriptors of Dimension floats
// each, stored column-contiguous in Data (descriptor i occupies
// Data[i*Dimension : (i+1)*Dimension]).
type Feature struct {
	Dimension int
	Data      []float32
}

// Num returns the number of descriptors.
func (f *Feature) Num() int {
	if f.Dimension <= 0 {
		return 0
	}
	return len(f.Data) / f.Dimension
}

// Descriptor returns a view of descriptor i.
func (f *Feature) Descriptor(i int) []float32 {
	return f.Data[i*f.Dimension : (i+1)*f.Dimension]
}

// PoseGraphNode is one camera/fragment pose, a 4x4 transform.
type PoseGraphNode struct {
	Pose *mat.Dense
}

// PoseGraphEdge is a relative constraint between two nodes.
type PoseGraphEdge struct {
	SourceNodeID   int
	TargetNodeID   int
	Transformation *mat.Dense // 4x4
	Information    *mat.Dense // 6x6
	Uncertain      bool
	Confidence     float64
}

// PoseGraph is the optimization graph produced by multiway registration.
type PoseGraph struct {
	Nodes []PoseGraphNode
	Edges []PoseGraphEdge
}

// IsEmpty reports whether the graph has no nodes.
func (pg *PoseGraph) IsEmpty() bool { return len(pg.Nodes) == 0 }

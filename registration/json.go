package registration

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type nodeJSON struct {
	ClassName string    `json:"class_name"`
	Pose      []float64 `json:"pose"`
}

type edgeJSON struct {
	ClassName      string    `json:"class_name"`
	SourceNodeID   int       `json:"source_node_id"`
	TargetNodeID   int       `json:"target_node_id"`
	Transformation []float64 `json:"transformation"`
	Information    []float64 `json:"information"`
	Uncertain      bool      `json:"uncertain"`
	Confidence     float64   `json:"confidence"`
}

type poseGraphJSON struct {
	ClassName    string     `json:"class_name"`
	VersionMajor int        `json:"version_major"`
	VersionMinor int        `json:"version_minor"`
	Nodes        []nodeJSON `json:"nodes"`
	Edges        []edgeJSON `json:"edges"`
}

func flattenColMajor(m *mat.Dense, rows, cols int, what string) ([]float64, error) {
	if m == nil {
		return nil, fmt.Errorf("%s matrix is nil", what)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return nil, fmt.Errorf("%s matrix is %dx%d, want %dx%d", what, r, c, rows, cols)
	}
	out := make([]float64, 0, rows*cols)
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			out = append(out, m.At(i, j))
		}
	}
	return out, nil
}

func unflattenColMajor(vals []float64, rows, cols int, what string) (*mat.Dense, error) {
	if len(vals) != rows*cols {
		return nil, fmt.Errorf("%s has %d values, want %d", what, len(vals), rows*cols)
	}
	m := mat.NewDense(rows, cols, nil)
	k := 0
	for j := 0; j < cols; j++ {
		for i := 0; i < rows; i++ {
			m.Set(i, j, vals[k])
			k++
		}
	}
	return m, nil
}

// MarshalJSON implements json.Marshaler.
func (pg *PoseGraph) MarshalJSON() ([]byte, error) {
	out := poseGraphJSON{
		ClassName:    "PoseGraph",
		VersionMajor: 1,
		VersionMinor: 0,
		Nodes:        make([]nodeJSON, 0, len(pg.Nodes)),
		Edges:        make([]edgeJSON, 0, len(pg.Edges)),
	}
	for i, n := range pg.Nodes {
		pose, err := flattenColMajor(n.Pose, 4, 4, fmt.Sprintf("node %d pose", i))
		if err != nil {
			return nil, err
		}
		out.Nodes = append(out.Nodes, nodeJSON{ClassName: "PoseGraphNode", Pose: pose})
	}
	for i, e := range pg.Edges {
		trans, err := flattenColMajor(e.Transformation, 4, 4, fmt.Sprintf("edge %d transformation", i))
		if err != nil {
			return nil, err
		}
		info, err := flattenColMajor(e.Information, 6, 6, fmt.Sprintf("edge %d information", i))
		if err != nil {
			return nil, err
		}
		out.Edges = append(out.Edges, edgeJSON{
			ClassName:      "PoseGraphEdge",
			SourceNodeID:   e.SourceNodeID,
			TargetNodeID:   e.TargetNodeID,
			Transformation: trans,
			Information:    info,
			Uncertain:      e.Uncertain,
			Confidence:     e.Confidence,
		})
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler.
func (pg *PoseGraph) UnmarshalJSON(data []byte) error {
	var in poseGraphJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.ClassName != "PoseGraph" {
		return fmt.Errorf("unexpected class_name %q", in.ClassName)
	}
	nodes := make([]PoseGraphNode, 0, len(in.Nodes))
	for i, n := range in.Nodes {
		pose, err := unflattenColMajor(n.Pose, 4, 4, fmt.Sprintf("node %d pose", i))
		if err != nil {
			return err
		}
		nodes = append(nodes, PoseGraphNode{Pose: pose})
	}
	edges := make([]PoseGraphEdge, 0, len(in.Edges))
	for i, e := range in.Edges {
		trans, err := unflattenColMajor(e.Transformation, 4, 4, fmt.Sprintf("edge %d transformation", i))
		if err != nil {
			return err
		}
		info, err := unflattenColMajor(e.Information, 6, 6, fmt.Sprintf("edge %d information", i))
		if err != nil {
			return err
		}
		edges = append(edges, PoseGraphEdge{
			SourceNodeID:   e.SourceNodeID,
			TargetNodeID:   e.TargetNodeID,
			Transformation: trans,
			Information:    info,
			Uncertain:      e.Uncertain,
			Confidence:     e.Confidence,
		})
	}
	pg.Nodes = nodes
	pg.Edges = edges
	return nil
}

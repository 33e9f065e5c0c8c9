package camera

import (
	"encoding/json"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The JSON layout matches the canonical camera parameter files produced by
// reconstruction pipelines: matrices are flattened column-major and tagged
// with a class name and format version.

const (
	versionMajor = 1
	versionMinor = 0
)

type intrinsicJSON struct {
	ClassName       string    `json:"class_name"`
	VersionMajor    int       `json:"version_major"`
	VersionMinor    int       `json:"version_minor"`
	Width           int       `json:"width"`
	Height          int       `json:"height"`
	IntrinsicMatrix []float64 `json:"intrinsic_matrix"`
}

type parametersJSON struct {
	ClassName    string        `json:"class_name"`
	VersionMajor int           `json:"version_major"`
	VersionMinor int           `json:"version_minor"`
	Intrinsic    intrinsicJSON `json:"intrinsic"`
	Extrinsic    []float64     `json:"extrinsic"`
}

func flattenColMajor(m *mat.Dense) []float64 {
	r, c := m.Dims()
	out := make([]float64, 0, r*c)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			out = append(out, m.At(i, j))
		}
	}
	return out
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

func (in *PinholeCameraIntrinsic) toJSON() (intrinsicJSON, error) {
	if err := checkDims(in.IntrinsicMatrix, 3, 3, "intrinsic"); err != nil {
		return intrinsicJSON{}, err
	}
	return intrinsicJSON{
		ClassName:       "PinholeCameraIntrinsic",
		VersionMajor:    versionMajor,
		VersionMinor:    versionMinor,
		Width:           in.Width,
		Height:          in.Height,
		IntrinsicMatrix: flattenColMajor(in.IntrinsicMatrix),
	}, nil
}

func (in *PinholeCameraIntrinsic) fromJSON(j intrinsicJSON) error {
	if j.ClassName != "PinholeCameraIntrinsic" {
		return fmt.Errorf("unexpected class_name %q", j.ClassName)
	}
	m, err := unflattenColMajor(j.IntrinsicMatrix, 3, 3, "intrinsic_matrix")
	if err != nil {
		return err
	}
	in.Width = j.Width
	in.Height = j.Height
	in.IntrinsicMatrix = m
	return nil
}

// MarshalJSON implements json.Marshaler.
func (in *PinholeCameraIntrinsic) MarshalJSON() ([]byte, error) {
	j, err := in.toJSON()
	if err != nil {
		return nil, err
	}
	return json.Marshal(j)
}

// UnmarshalJSON implements json.Unmarshaler.
func (in *PinholeCameraIntrinsic) UnmarshalJSON(data []byte) error {
	var j intrinsicJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	return in.fromJSON(j)
}

type trajectoryJSON struct {
	ClassName    string                     `json:"class_name"`
	VersionMajor int                        `json:"version_major"`
	VersionMinor int                        `json:"version_minor"`
	Parameters   []*PinholeCameraParameters `json:"parameters"`
}

// MarshalJSON implements json.Marshaler.
func (t *PinholeCameraTrajectory) MarshalJSON() ([]byte, error) {
	params := make([]*PinholeCameraParameters, len(t.Parameters))
	for i := range t.Parameters {
		params[i] = &t.Parameters[i]
	}
	return json.Marshal(trajectoryJSON{
		ClassName:    "PinholeCameraTrajectory",
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		Parameters:   params,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *PinholeCameraTrajectory) UnmarshalJSON(data []byte) error {
	var j trajectoryJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.ClassName != "PinholeCameraTrajectory" {
		return fmt.Errorf("unexpected class_name %q", j.ClassName)
	}
	t.Parameters = make([]PinholeCameraParameters, len(j.Parameters))
	for i, p := range j.Parameters {
		if p == nil {
			return fmt.Errorf("parameters[%d] is null", i)
		}
		t.Parameters[i] = *p
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (p *PinholeCameraParameters) MarshalJSON() ([]byte, error) {
	ij, err := p.Intrinsic.toJSON()
	if err != nil {
		return nil, err
	}
	if err := checkDims(p.Extrinsic, 4, 4, "extrinsic"); err != nil {
		return nil, err
	}
	return json.Marshal(parametersJSON{
		ClassName:    "PinholeCameraParameters",
		VersionMajor: versionMajor,
		VersionMinor: versionMinor,
		Intrinsic:    ij,
		Extrinsic:    flattenColMajor(p.Extrinsic),
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *PinholeCameraParameters) UnmarshalJSON(data []byte) error {
	var j parametersJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	if j.ClassName != "PinholeCameraParameters" {
		return fmt.Errorf("unexpected class_name %q", j.ClassName)
	}
	if err := p.Intrinsic.fromJSON(j.Intrinsic); err != nil {
		return err
	}
	ext, err := unflattenColMajor(j.Extrinsic, 4, 4, "extrinsic")
	if err != nil {
		return err
	}
	p.Extrinsic = ext
	return nil
}

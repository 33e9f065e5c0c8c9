package camera

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestIntrinsicJSONRoundTrip(t *testing.T) {
	in := NewPinholeCameraIntrinsic(640, 480, 525.0, 525.0, 319.5, 239.5)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var back PinholeCameraIntrinsic
	require.NoError(t, json.Unmarshal(data, &back))

	require.Equal(t, in.Width, back.Width)
	require.Equal(t, in.Height, back.Height)
	require.True(t, mat.Equal(in.IntrinsicMatrix, back.IntrinsicMatrix))
}

func TestIntrinsicJSONColumnMajor(t *testing.T) {
	in := NewPinholeCameraIntrinsic(2, 2, 100, 200, 10, 20)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var raw struct {
		ClassName       string    `json:"class_name"`
		IntrinsicMatrix []float64 `json:"intrinsic_matrix"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Equal(t, "PinholeCameraIntrinsic", raw.ClassName)
	// Column-major: first column is (fx, 0, 0), cx/cy land in the last column.
	require.Equal(t, []float64{100, 0, 0, 0, 200, 0, 10, 20, 1}, raw.IntrinsicMatrix)
}

func TestIntrinsicJSONRejectsWrongClass(t *testing.T) {
	var in PinholeCameraIntrinsic
	err := json.Unmarshal([]byte(`{"class_name":"Bogus","width":1,"height":1,"intrinsic_matrix":[1,0,0,0,1,0,0,0,1]}`), &in)
	require.Error(t, err)
}

func TestIntrinsicJSONRejectsBadMatrix(t *testing.T) {
	var in PinholeCameraIntrinsic
	err := json.Unmarshal([]byte(`{"class_name":"PinholeCameraIntrinsic","width":1,"height":1,"intrinsic_matrix":[1,2,3]}`), &in)
	require.Error(t, err)
}

func TestParametersJSONRoundTrip(t *testing.T) {
	ext := IdentityExtrinsic()
	ext.Set(0, 3, 1.5)
	ext.Set(1, 3, -2.0)

	p := &PinholeCameraParameters{
		Intrinsic: *NewPinholeCameraIntrinsic(1920, 1080, 935.3, 935.3, 959.5, 539.5),
		Extrinsic: ext,
	}

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var back PinholeCameraParameters
	require.NoError(t, json.Unmarshal(data, &back))
	require.True(t, mat.Equal(p.Intrinsic.IntrinsicMatrix, back.Intrinsic.IntrinsicMatrix))
	require.True(t, mat.Equal(p.Extrinsic, back.Extrinsic))
}

func TestTrajectoryJSONRoundTrip(t *testing.T) {
	traj := &PinholeCameraTrajectory{}
	for i := 0; i < 3; i++ {
		ext := IdentityExtrinsic()
		ext.Set(2, 3, float64(i))
		traj.Parameters = append(traj.Parameters, PinholeCameraParameters{
			Intrinsic: *NewPinholeCameraIntrinsic(640, 480, 525, 525, 319.5, 239.5),
			Extrinsic: ext,
		})
	}

	data, err := json.Marshal(traj)
	require.NoError(t, err)

	var back PinholeCameraTrajectory
	require.NoError(t, json.Unmarshal(data, &back))
	require.Len(t, back.Parameters, 3)
	for i := range traj.Parameters {
		require.True(t, mat.Equal(traj.Parameters[i].Extrinsic, back.Parameters[i].Extrinsic))
	}
}

func TestIsValid(t *testing.T) {
	require.True(t, NewPinholeCameraIntrinsic(640, 480, 525, 525, 319.5, 239.5).IsValid())

	in := &PinholeCameraIntrinsic{Width: 640, Height: 480}
	require.False(t, in.IsValid())

	in = &PinholeCameraIntrinsic{Width: 0, Height: 480, IntrinsicMatrix: mat.NewDense(3, 3, nil)}
	require.False(t, in.IsValid())
}

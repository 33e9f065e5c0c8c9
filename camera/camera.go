// Package camera defines pinhole camera models: intrinsic parameters, full
// intrinsic+extrinsic parameter sets and recorded trajectories.
package camera

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// PinholeCameraIntrinsic describes a pinhole projection: sensor size in
// pixels plus the 3x3 intrinsic matrix
//
//	[[fx,  0, cx],
//	 [ 0, fy, cy],
//	 [ 0,  0,  1]]
type PinholeCameraIntrinsic struct {
	Width           int
	Height          int
	IntrinsicMatrix *mat.Dense
}

// NewPinholeCameraIntrinsic builds an intrinsic from focal lengths and the
// principal point.
func NewPinholeCameraIntrinsic(width, height int, fx, fy, cx, cy float64) *PinholeCameraIntrinsic {
	return &PinholeCameraIntrinsic{
		Width:  width,
		Height: height,
		IntrinsicMatrix: mat.NewDense(3, 3, []float64{
			fx, 0, cx,
			0, fy, cy,
			0, 0, 1,
		}),
	}
}

// IsValid reports whether the intrinsic carries a usable matrix and size.
func (in *PinholeCameraIntrinsic) IsValid() bool {
	if in.Width <= 0 || in.Height <= 0 || in.IntrinsicMatrix == nil {
		return false
	}
	r, c := in.IntrinsicMatrix.Dims()
	return r == 3 && c == 3
}

// PinholeCameraParameters pairs an intrinsic with a 4x4 world-to-camera
// extrinsic.
type PinholeCameraParameters struct {
	Intrinsic PinholeCameraIntrinsic
	Extrinsic *mat.Dense
}

// PinholeCameraTrajectory is an ordered sequence of camera parameters, one
// per captured frame.
type PinholeCameraTrajectory struct {
	Parameters []PinholeCameraParameters
}

// IdentityExtrinsic returns a fresh 4x4 identity matrix.
func IdentityExtrinsic() *mat.Dense {
	m := mat.NewDense(4, 4, nil)
	for i := 0; i < 4; i++ {
		m.Set(i, i, 1)
	}
	return m
}

func checkDims(m *mat.Dense, rows, cols int, what string) error {
	if m == nil {
		return fmt.Errorf("%s matrix is nil", what)
	}
	r, c := m.Dims()
	if r != rows || c != cols {
		return fmt.Errorf("%s matrix is %dx%d, want %dx%d", what, r, c, rows, cols)
	}
	return nil
}

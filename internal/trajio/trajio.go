// Package trajio implements camera trajectory codecs: the plain-text "log"
// interchange format (per-frame metadata triple followed by a 4x4 pose) and
// the canonical JSON representation.
package trajio

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/geoforge/geoio/camera"
	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/internal/fsutil"
	"github.com/geoforge/geoio/internal/jsonio"
)

// LogCodec is the "log" trajectory codec. The format carries extrinsics
// only: intrinsics are dropped deterministically on write and absent after
// read. Text-only; all write options are ignored.
type LogCodec struct{}

// Read parses the frame blocks into a trajectory.
func (LogCodec) Read(path string) (*camera.PinholeCameraTrajectory, error) {
	traj := &camera.PinholeCameraTrajectory{}
	err := fsutil.ReadFile(path, func(r io.Reader) error {
		sc := bufio.NewScanner(r)
		sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		lineNo := 0
		nextLine := func() ([]string, error) {
			for sc.Scan() {
				lineNo++
				fields := strings.Fields(strings.TrimSpace(sc.Text()))
				if len(fields) > 0 {
					return fields, nil
				}
			}
			if err := sc.Err(); err != nil {
				return nil, format.WrapParse(path, err)
			}
			return nil, nil // EOF
		}

		for {
			meta, err := nextLine()
			if err != nil {
				return err
			}
			if meta == nil {
				break
			}
			if len(meta) != 3 {
				return format.ParseErrorf(path, "line %d: metadata needs 3 integers", lineNo)
			}
			for _, m := range meta {
				if _, err := strconv.Atoi(m); err != nil {
					return format.ParseErrorf(path, "line %d: bad metadata value %q", lineNo, m)
				}
			}
			pose := mat.NewDense(4, 4, nil)
			for row := 0; row < 4; row++ {
				fields, err := nextLine()
				if err != nil {
					return err
				}
				if fields == nil || len(fields) != 4 {
					return format.ParseErrorf(path, "line %d: pose row needs 4 values", lineNo)
				}
				for col, f := range fields {
					v, err := strconv.ParseFloat(f, 64)
					if err != nil {
						return format.ParseErrorf(path, "line %d: bad pose value %q", lineNo, f)
					}
					pose.Set(row, col, v)
				}
			}
			traj.Parameters = append(traj.Parameters, camera.PinholeCameraParameters{Extrinsic: pose})
		}
		if len(traj.Parameters) == 0 {
			return format.ParseErrorf(path, "no frames")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return traj, nil
}

// Write serializes the trajectory's extrinsics.
func (LogCodec) Write(path string, traj *camera.PinholeCameraTrajectory, _ format.WriteOptions) error {
	err := fsutil.WriteFileAtomic(path, func(w io.Writer) error {
		for i, p := range traj.Parameters {
			if p.Extrinsic == nil {
				return fmt.Errorf("frame %d has no extrinsic", i)
			}
			if r, c := p.Extrinsic.Dims(); r != 4 || c != 4 {
				return fmt.Errorf("frame %d extrinsic is %dx%d, want 4x4", i, r, c)
			}
			if _, err := fmt.Fprintf(w, "%d %d %d\n", i, i, i+1); err != nil {
				return err
			}
			for row := 0; row < 4; row++ {
				if _, err := fmt.Fprintf(w, "%.12f %.12f %.12f %.12f\n",
					p.Extrinsic.At(row, 0), p.Extrinsic.At(row, 1),
					p.Extrinsic.At(row, 2), p.Extrinsic.At(row, 3)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return format.WrapWrite(path, err)
	}
	return nil
}

// JSONCodec is the "json" trajectory codec, preserving intrinsics and
// extrinsics.
type JSONCodec struct{}

// Read loads the canonical JSON representation.
func (JSONCodec) Read(path string) (*camera.PinholeCameraTrajectory, error) {
	traj := &camera.PinholeCameraTrajectory{}
	if err := jsonio.Read(path, traj); err != nil {
		return nil, err
	}
	if len(traj.Parameters) == 0 {
		return nil, format.ParseErrorf(path, "no frames")
	}
	return traj, nil
}

// Write stores the canonical JSON representation. Write options are
// ignored.
func (JSONCodec) Write(path string, traj *camera.PinholeCameraTrajectory, _ format.WriteOptions) error {
	return jsonio.Write(path, traj)
}

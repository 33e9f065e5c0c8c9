package geoio

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/geoforge/geoio/camera"
	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/registration"
)

func TestMain(m *testing.M) {
	SetLogger(NoopLogger())
	os.Exit(m.Run())
}

func samplePoseGraph() *registration.PoseGraph {
	id4 := camera.IdentityExtrinsic()
	info := mat.NewDense(6, 6, nil)
	for i := 0; i < 6; i++ {
		info.Set(i, i, 1)
	}
	return &registration.PoseGraph{
		Nodes: []registration.PoseGraphNode{{Pose: id4}, {Pose: camera.IdentityExtrinsic()}},
		Edges: []registration.PoseGraphEdge{{
			SourceNodeID:   0,
			TargetNodeID:   1,
			Transformation: camera.IdentityExtrinsic(),
			Information:    info,
			Confidence:     1,
		}},
	}
}

func sampleFeature() *registration.Feature {
	f := &registration.Feature{Dimension: 8, Data: make([]float32, 8*3)}
	for i := range f.Data {
		f.Data[i] = float32(i)
	}
	return f
}

func samplePointCloud() *geometry.PointCloud {
	return &geometry.PointCloud{
		Points:  []geometry.Vector3{{0, 0, 0}, {1.5, -2.25, 3}, {0.5, 0.5, 0.5}},
		Normals: []geometry.Vector3{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
		Colors:  []geometry.Vector3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
	}
}

func TestPointCloudRoundTripByExtension(t *testing.T) {
	pc := samplePointCloud()
	for _, ext := range []string{"xyz", "xyzn", "xyzrgb", "pcd", "ply"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "cloud."+ext)
			require.True(t, WritePointCloud(path, pc))

			got, err := ReadPointCloud(path)
			require.NoError(t, err)
			require.Equal(t, pc.Points, got.Points)
		})
	}
}

func TestReadPointCloudExplicitFormat(t *testing.T) {
	pc := samplePointCloud()
	path := filepath.Join(t.TempDir(), "cloud.xyz")
	require.True(t, WritePointCloud(path, pc))

	// A misleading copy: xyz content behind an unknown extension.
	odd := filepath.Join(t.TempDir(), "cloud.dat")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(odd, data, 0644))

	_, err = ReadPointCloud(odd)
	var unknown *UnknownFormatError
	require.ErrorAs(t, err, &unknown)

	got, err := ReadPointCloud(odd, WithFormat("xyz"))
	require.NoError(t, err)
	require.Equal(t, pc.Points, got.Points)

	// "auto" keeps extension inference.
	_, err = ReadPointCloud(odd, WithFormat("auto"))
	require.ErrorAs(t, err, &unknown)

	_, err = ReadPointCloud(odd, WithFormat("stl"))
	var unsupported *UnsupportedFormatError
	require.ErrorAs(t, err, &unsupported)
}

func TestReadPointCloudFiltersNonFinite(t *testing.T) {
	nan := math.NaN()
	inf := math.Inf(1)
	pc := &geometry.PointCloud{
		Points: []geometry.Vector3{{0, 0, 0}, {nan, 0, 0}, {inf, 0, 0}, {1, 1, 1}},
		Colors: []geometry.Vector3{{0.25, 0, 0}, {0.5, 0, 0}, {0.75, 0, 0}, {1, 0, 0}},
	}
	path := filepath.Join(t.TempDir(), "cloud.xyzrgb")
	require.True(t, WritePointCloud(path, pc))

	got, err := ReadPointCloud(path)
	require.NoError(t, err)
	require.Equal(t, []geometry.Vector3{{0, 0, 0}, {1, 1, 1}}, got.Points)
	if diff := cmp.Diff([]geometry.Vector3{{0.25, 0, 0}, {1, 0, 0}}, got.Colors); diff != "" {
		t.Errorf("colors not aligned after filtering (-want +got):\n%s", diff)
	}

	kept, err := ReadPointCloud(path, WithRemoveNaNPoints(false), WithRemoveInfinitePoints(false))
	require.NoError(t, err)
	require.Len(t, kept.Points, 4)

	noNaN, err := ReadPointCloud(path, WithRemoveInfinitePoints(false))
	require.NoError(t, err)
	require.Len(t, noNaN.Points, 3)
}

func TestWriteReturnsFalseAndLeavesNoFile(t *testing.T) {
	pc := samplePointCloud()

	t.Run("missing directory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "no", "dir", "cloud.xyz")
		require.False(t, WritePointCloud(path, pc))
		_, err := os.Stat(path)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "cloud.unknown")
		require.False(t, WritePointCloud(path, pc))
		_, err := os.Stat(path)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("no extension", func(t *testing.T) {
		require.False(t, WritePointCloud(filepath.Join(t.TempDir(), "cloud"), pc))
	})
}

func TestReadMissingFile(t *testing.T) {
	_, err := ReadPointCloud(filepath.Join(t.TempDir(), "absent.xyz"))
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTriangleMeshRoundTrip(t *testing.T) {
	m := &geometry.TriangleMesh{
		Vertices:      []geometry.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		VertexNormals: []geometry.Vector3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Triangles:     []geometry.Triangle{{0, 1, 2}},
	}
	for _, ext := range []string{"ply", "stl"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "mesh."+ext)
			require.True(t, WriteTriangleMesh(path, m, WithASCII(true)))

			got, err := ReadTriangleMesh(path)
			require.NoError(t, err)
			require.Len(t, got.Triangles, 1)
		})
	}
}

func TestWriteTriangleMeshAttributeOptions(t *testing.T) {
	m := &geometry.TriangleMesh{
		Vertices:      []geometry.Vector3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		VertexNormals: []geometry.Vector3{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		Triangles:     []geometry.Triangle{{0, 1, 2}},
	}
	path := filepath.Join(t.TempDir(), "mesh.ply")
	require.True(t, WriteTriangleMesh(path, m, WithWriteVertexNormals(false)))

	got, err := ReadTriangleMesh(path)
	require.NoError(t, err)
	require.Empty(t, got.VertexNormals)
}

func TestLineSetRoundTrip(t *testing.T) {
	ls := &geometry.LineSet{
		Points: []geometry.Vector3{{0, 0, 0}, {1, 0, 0}},
		Lines:  []geometry.Line{{0, 1}},
	}
	path := filepath.Join(t.TempDir(), "lines.ply")
	require.True(t, WriteLineSet(path, ls))

	got, err := ReadLineSet(path)
	require.NoError(t, err)
	require.Equal(t, ls.Lines, got.Lines)
}

func TestVoxelGridRoundTrip(t *testing.T) {
	vg := &geometry.VoxelGrid{
		VoxelSize: 0.1,
		Voxels: []geometry.Voxel{
			{GridIndex: [3]int32{0, 0, 0}, Color: geometry.Vector3{1, 0, 0}},
			{GridIndex: [3]int32{4, 2, 1}, Color: geometry.Vector3{0, 1, 0}},
		},
	}
	path := filepath.Join(t.TempDir(), "grid.vxb")
	require.True(t, WriteVoxelGrid(path, vg, WithCompressed(true)))

	got, err := ReadVoxelGrid(path)
	require.NoError(t, err)
	require.Len(t, got.Voxels, 2)
	require.Equal(t, vg.VoxelSize, got.VoxelSize)
}

func TestImageRoundTrip(t *testing.T) {
	im := &geometry.Image{Width: 2, Height: 2, Channels: 3, BytesPerChannel: 1,
		Data: []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}}
	for _, ext := range []string{"png", "bmp", "tiff", "tif"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "img."+ext)
			require.True(t, WriteImage(path, im))

			got, err := ReadImage(path)
			require.NoError(t, err)
			require.Equal(t, im, got)
		})
	}

	t.Run("jpg", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "img.jpg")
		require.True(t, WriteImage(path, im, WithQuality(100)))

		got, err := ReadImage(path)
		require.NoError(t, err)
		require.Equal(t, im.Width, got.Width)
		require.Equal(t, im.Height, got.Height)
	})
}

func TestTrajectoryRoundTrip(t *testing.T) {
	traj := &camera.PinholeCameraTrajectory{}
	for i := 0; i < 2; i++ {
		ext := camera.IdentityExtrinsic()
		ext.Set(0, 3, float64(i))
		traj.Parameters = append(traj.Parameters, camera.PinholeCameraParameters{
			Intrinsic: *camera.NewPinholeCameraIntrinsic(640, 480, 525, 525, 319.5, 239.5),
			Extrinsic: ext,
		})
	}
	for _, ext := range []string{"log", "json"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "traj."+ext)
			require.True(t, WritePinholeCameraTrajectory(path, traj))

			got, err := ReadPinholeCameraTrajectory(path)
			require.NoError(t, err)
			require.Len(t, got.Parameters, 2)
			require.True(t, mat.Equal(traj.Parameters[1].Extrinsic, got.Parameters[1].Extrinsic))
		})
	}
}

func TestPoseGraphRoundTrip(t *testing.T) {
	pg := samplePoseGraph()
	path := filepath.Join(t.TempDir(), "graph.json")
	require.True(t, WritePoseGraph(path, pg))

	got, err := ReadPoseGraph(path)
	require.NoError(t, err)
	require.Len(t, got.Nodes, len(pg.Nodes))
	require.Len(t, got.Edges, len(pg.Edges))
}

func TestFeatureRoundTrip(t *testing.T) {
	f := sampleFeature()
	path := filepath.Join(t.TempDir(), "fpfh.bin")
	require.True(t, WriteFeature(path, f))

	got, err := ReadFeature(path)
	require.NoError(t, err)
	require.Equal(t, f.Dimension, got.Dimension)
	require.Equal(t, f.Data, got.Data)
}

func TestCameraIntrinsicRoundTrip(t *testing.T) {
	in := camera.NewPinholeCameraIntrinsic(640, 480, 525, 525, 319.5, 239.5)
	path := filepath.Join(t.TempDir(), "intrinsic.json")
	require.True(t, WritePinholeCameraIntrinsic(path, in))

	got, err := ReadPinholeCameraIntrinsic(path)
	require.NoError(t, err)
	require.Equal(t, in.Width, got.Width)
	require.True(t, mat.Equal(in.IntrinsicMatrix, got.IntrinsicMatrix))
}

func TestCameraParametersRoundTrip(t *testing.T) {
	p := &camera.PinholeCameraParameters{
		Intrinsic: *camera.NewPinholeCameraIntrinsic(640, 480, 525, 525, 319.5, 239.5),
		Extrinsic: camera.IdentityExtrinsic(),
	}
	path := filepath.Join(t.TempDir(), "params.json")
	require.True(t, WritePinholeCameraParameters(path, p))

	got, err := ReadPinholeCameraParameters(path)
	require.NoError(t, err)
	require.True(t, mat.Equal(p.Extrinsic, got.Extrinsic))

	require.False(t, WritePinholeCameraParameters(filepath.Join(t.TempDir(), "no", "dir", "p.json"), p))
}

// reversePointCloudCodec wraps the registered xyz codec and reverses point
// order, to prove registration replaces the built-in.
type reversePointCloudCodec struct {
	inner format.Codec[*geometry.PointCloud]
}

func (c reversePointCloudCodec) Read(path string) (*geometry.PointCloud, error) {
	pc, err := c.inner.Read(path)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(pc.Points)-1; i < j; i, j = i+1, j-1 {
		pc.Points[i], pc.Points[j] = pc.Points[j], pc.Points[i]
	}
	return pc, nil
}

func (c reversePointCloudCodec) Write(path string, pc *geometry.PointCloud, opts format.WriteOptions) error {
	return c.inner.Write(path, pc, opts)
}

func TestRegisterReplacesBuiltin(t *testing.T) {
	pc := samplePointCloud()
	path := filepath.Join(t.TempDir(), "cloud.rev")

	inner, ok := pointCloudFormats.Lookup("xyz")
	require.True(t, ok)
	RegisterPointCloudFormat("rev", reversePointCloudCodec{inner: inner})

	require.True(t, WritePointCloud(path, pc))
	got, err := ReadPointCloud(path)
	require.NoError(t, err)
	require.Equal(t, pc.Points[2], got.Points[0])

	// Replace again: last registration wins.
	RegisterPointCloudFormat("rev", inner)
	got, err = ReadPointCloud(path)
	require.NoError(t, err)
	require.Equal(t, pc.Points, got.Points)
}

func TestRegistriesAreScopedPerKind(t *testing.T) {
	// "stl" is a mesh format; the point cloud registry must not know it.
	_, ok := pointCloudFormats.Lookup("stl")
	require.False(t, ok)
	_, ok = triangleMeshFormats.Lookup("stl")
	require.True(t, ok)

	// "ply" is registered independently for three kinds.
	_, ok = pointCloudFormats.Lookup("ply")
	require.True(t, ok)
	_, ok = lineSetFormats.Lookup("ply")
	require.True(t, ok)
}

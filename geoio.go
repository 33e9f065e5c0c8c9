package geoio

import (
	"github.com/geoforge/geoio/camera"
	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/internal/jsonio"
	"github.com/geoforge/geoio/registration"
)

// readEntity resolves the codec for one read operation and invokes it.
// Resolution and codec errors propagate unchanged.
func readEntity[T any](reg *format.Registry[T], kind, filename string, sel format.Selection) (T, error) {
	codec, err := reg.Resolve(sel, filename)
	if err != nil {
		var zero T
		logger().LogRead(kind, filename, err)
		return zero, err
	}
	entity, err := codec.Read(filename)
	logger().LogRead(kind, filename, err)
	return entity, err
}

// writeEntity resolves by extension only and degrades any failure to false,
// logging the detail. All write operations share this contract.
func writeEntity[T any](reg *format.Registry[T], kind, filename string, entity T, opts format.WriteOptions) bool {
	codec, err := reg.Resolve(format.Inferred(), filename)
	if err == nil {
		err = codec.Write(filename, entity, opts)
	}
	logger().LogWrite(kind, filename, err)
	return err == nil
}

// ReadPointCloud reads a point cloud, inferring the format from the
// filename extension unless WithFormat names one. Points with NaN or
// infinite coordinates are removed afterwards (see WithRemoveNaNPoints,
// WithRemoveInfinitePoints); per-point attributes are filtered in lock-step.
func ReadPointCloud(filename string, opts ...ReadOption) (*geometry.PointCloud, error) {
	o := applyReadOptions(opts)
	pc, err := readEntity(pointCloudFormats, "point cloud", filename, o.sel)
	if err != nil {
		return nil, err
	}
	pc.RemoveNonFinitePoints(o.removeNaN, o.removeInfinite)
	return pc, nil
}

// WritePointCloud writes a point cloud in the format inferred from the
// filename extension. Returns false on failure; the detail is logged.
func WritePointCloud(filename string, pc *geometry.PointCloud, opts ...WriteOption) bool {
	return writeEntity(pointCloudFormats, "point cloud", filename, pc, applyWriteOptions(opts))
}

// ReadTriangleMesh reads a triangle mesh.
func ReadTriangleMesh(filename string, opts ...ReadOption) (*geometry.TriangleMesh, error) {
	o := applyReadOptions(opts)
	return readEntity(triangleMeshFormats, "triangle mesh", filename, o.sel)
}

// WriteTriangleMesh writes a triangle mesh. WithWriteVertexNormals and
// WithWriteVertexColors gate attribute emission for formats that carry
// them.
func WriteTriangleMesh(filename string, m *geometry.TriangleMesh, opts ...WriteOption) bool {
	return writeEntity(triangleMeshFormats, "triangle mesh", filename, m, applyWriteOptions(opts))
}

// ReadLineSet reads a line set.
func ReadLineSet(filename string, opts ...ReadOption) (*geometry.LineSet, error) {
	o := applyReadOptions(opts)
	return readEntity(lineSetFormats, "line set", filename, o.sel)
}

// WriteLineSet writes a line set.
func WriteLineSet(filename string, ls *geometry.LineSet, opts ...WriteOption) bool {
	return writeEntity(lineSetFormats, "line set", filename, ls, applyWriteOptions(opts))
}

// ReadVoxelGrid reads a voxel grid.
func ReadVoxelGrid(filename string, opts ...ReadOption) (*geometry.VoxelGrid, error) {
	o := applyReadOptions(opts)
	return readEntity(voxelGridFormats, "voxel grid", filename, o.sel)
}

// WriteVoxelGrid writes a voxel grid.
func WriteVoxelGrid(filename string, vg *geometry.VoxelGrid, opts ...WriteOption) bool {
	return writeEntity(voxelGridFormats, "voxel grid", filename, vg, applyWriteOptions(opts))
}

// ReadImage reads an image.
func ReadImage(filename string, opts ...ReadOption) (*geometry.Image, error) {
	o := applyReadOptions(opts)
	return readEntity(imageFormats, "image", filename, o.sel)
}

// WriteImage writes an image. WithQuality applies to lossy formats.
func WriteImage(filename string, im *geometry.Image, opts ...WriteOption) bool {
	return writeEntity(imageFormats, "image", filename, im, applyWriteOptions(opts))
}

// ReadPinholeCameraTrajectory reads a camera trajectory.
func ReadPinholeCameraTrajectory(filename string, opts ...ReadOption) (*camera.PinholeCameraTrajectory, error) {
	o := applyReadOptions(opts)
	return readEntity(trajectoryFormats, "camera trajectory", filename, o.sel)
}

// WritePinholeCameraTrajectory writes a camera trajectory.
func WritePinholeCameraTrajectory(filename string, traj *camera.PinholeCameraTrajectory, opts ...WriteOption) bool {
	return writeEntity(trajectoryFormats, "camera trajectory", filename, traj, applyWriteOptions(opts))
}

// ReadPoseGraph reads a pose graph.
func ReadPoseGraph(filename string, opts ...ReadOption) (*registration.PoseGraph, error) {
	o := applyReadOptions(opts)
	return readEntity(poseGraphFormats, "pose graph", filename, o.sel)
}

// WritePoseGraph writes a pose graph. Like every other write operation it
// reports failure through its boolean result.
func WritePoseGraph(filename string, pg *registration.PoseGraph, opts ...WriteOption) bool {
	return writeEntity(poseGraphFormats, "pose graph", filename, pg, applyWriteOptions(opts))
}

// ReadFeature reads a feature descriptor set.
func ReadFeature(filename string, opts ...ReadOption) (*registration.Feature, error) {
	o := applyReadOptions(opts)
	return readEntity(featureFormats, "feature", filename, o.sel)
}

// WriteFeature writes a feature descriptor set.
func WriteFeature(filename string, f *registration.Feature, opts ...WriteOption) bool {
	return writeEntity(featureFormats, "feature", filename, f, applyWriteOptions(opts))
}

// The pinhole camera intrinsic/parameters family is JSON-convertible: it
// always uses the single canonical JSON codec and takes no format
// argument.

// ReadPinholeCameraIntrinsic reads camera intrinsics from JSON.
func ReadPinholeCameraIntrinsic(filename string) (*camera.PinholeCameraIntrinsic, error) {
	intrinsic := &camera.PinholeCameraIntrinsic{}
	err := jsonio.Read(filename, intrinsic)
	logger().LogRead("camera intrinsic", filename, err)
	if err != nil {
		return nil, err
	}
	return intrinsic, nil
}

// WritePinholeCameraIntrinsic writes camera intrinsics as JSON.
func WritePinholeCameraIntrinsic(filename string, intrinsic *camera.PinholeCameraIntrinsic) bool {
	err := jsonio.Write(filename, intrinsic)
	logger().LogWrite("camera intrinsic", filename, err)
	return err == nil
}

// ReadPinholeCameraParameters reads intrinsic plus extrinsic parameters
// from JSON.
func ReadPinholeCameraParameters(filename string) (*camera.PinholeCameraParameters, error) {
	params := &camera.PinholeCameraParameters{}
	err := jsonio.Read(filename, params)
	logger().LogRead("camera parameters", filename, err)
	if err != nil {
		return nil, err
	}
	return params, nil
}

// WritePinholeCameraParameters writes intrinsic plus extrinsic parameters
// as JSON.
func WritePinholeCameraParameters(filename string, params *camera.PinholeCameraParameters) bool {
	err := jsonio.Write(filename, params)
	logger().LogWrite("camera parameters", filename, err)
	return err == nil
}

package geoio

import (
	"github.com/geoforge/geoio/camera"
	"github.com/geoforge/geoio/format"
	"github.com/geoforge/geoio/geometry"
	"github.com/geoforge/geoio/registration"
)

// One registry per entity kind, initialized before the built-in codecs
// self-register. Tags are scoped to a kind: registering "ply" for meshes
// does not affect the point cloud registry.
//
// The JSON-convertible camera intrinsic/parameters family has no registry:
// only the canonical JSON representation exists for it.
var (
	pointCloudFormats   = format.NewRegistry[*geometry.PointCloud]("point cloud")
	triangleMeshFormats = format.NewRegistry[*geometry.TriangleMesh]("triangle mesh")
	lineSetFormats      = format.NewRegistry[*geometry.LineSet]("line set")
	voxelGridFormats    = format.NewRegistry[*geometry.VoxelGrid]("voxel grid")
	imageFormats        = format.NewRegistry[*geometry.Image]("image")
	trajectoryFormats   = format.NewRegistry[*camera.PinholeCameraTrajectory]("camera trajectory")
	poseGraphFormats    = format.NewRegistry[*registration.PoseGraph]("pose graph")
	featureFormats      = format.NewRegistry[*registration.Feature]("feature")
)

// RegisterPointCloudFormat installs (or replaces) the point cloud codec for
// tag.
func RegisterPointCloudFormat(tag string, codec format.Codec[*geometry.PointCloud]) {
	pointCloudFormats.Register(format.Normalize(tag), codec)
}

// RegisterTriangleMeshFormat installs (or replaces) the triangle mesh codec
// for tag.
func RegisterTriangleMeshFormat(tag string, codec format.Codec[*geometry.TriangleMesh]) {
	triangleMeshFormats.Register(format.Normalize(tag), codec)
}

// RegisterLineSetFormat installs (or replaces) the line set codec for tag.
func RegisterLineSetFormat(tag string, codec format.Codec[*geometry.LineSet]) {
	lineSetFormats.Register(format.Normalize(tag), codec)
}

// RegisterVoxelGridFormat installs (or replaces) the voxel grid codec for
// tag.
func RegisterVoxelGridFormat(tag string, codec format.Codec[*geometry.VoxelGrid]) {
	voxelGridFormats.Register(format.Normalize(tag), codec)
}

// RegisterImageFormat installs (or replaces) the image codec for tag.
func RegisterImageFormat(tag string, codec format.Codec[*geometry.Image]) {
	imageFormats.Register(format.Normalize(tag), codec)
}

// RegisterTrajectoryFormat installs (or replaces) the camera trajectory
// codec for tag.
func RegisterTrajectoryFormat(tag string, codec format.Codec[*camera.PinholeCameraTrajectory]) {
	trajectoryFormats.Register(format.Normalize(tag), codec)
}

// RegisterPoseGraphFormat installs (or replaces) the pose graph codec for
// tag.
func RegisterPoseGraphFormat(tag string, codec format.Codec[*registration.PoseGraph]) {
	poseGraphFormats.Register(format.Normalize(tag), codec)
}

// RegisterFeatureFormat installs (or replaces) the feature codec for tag.
func RegisterFeatureFormat(tag string, codec format.Codec[*registration.Feature]) {
	featureFormats.Register(format.Normalize(tag), codec)
}

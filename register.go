package geoio

import (
	"github.com/geoforge/geoio/internal/featio"
	"github.com/geoforge/geoio/internal/graphio"
	"github.com/geoforge/geoio/internal/imgio"
	"github.com/geoforge/geoio/internal/pcd"
	"github.com/geoforge/geoio/internal/ply"
	"github.com/geoforge/geoio/internal/stl"
	"github.com/geoforge/geoio/internal/trajio"
	"github.com/geoforge/geoio/internal/voxbin"
	"github.com/geoforge/geoio/internal/xyz"
)

// Built-in codecs register before first use. Tests and embedders may
// override any of these with the Register*Format functions.
func init() {
	RegisterPointCloudFormat("xyz", xyz.Codec{V: xyz.XYZ})
	RegisterPointCloudFormat("xyzn", xyz.Codec{V: xyz.XYZN})
	RegisterPointCloudFormat("xyzrgb", xyz.Codec{V: xyz.XYZRGB})
	RegisterPointCloudFormat("pcd", pcd.Codec{})
	RegisterPointCloudFormat("ply", ply.PointCloudCodec{})

	RegisterTriangleMeshFormat("ply", ply.MeshCodec{})
	RegisterTriangleMeshFormat("stl", stl.Codec{})

	RegisterLineSetFormat("ply", ply.LineSetCodec{})

	RegisterVoxelGridFormat("vxb", voxbin.Codec{})

	RegisterImageFormat("png", imgio.Codec{K: imgio.PNG})
	RegisterImageFormat("jpg", imgio.Codec{K: imgio.JPEG})
	RegisterImageFormat("jpeg", imgio.Codec{K: imgio.JPEG})
	RegisterImageFormat("bmp", imgio.Codec{K: imgio.BMP})
	RegisterImageFormat("tif", imgio.Codec{K: imgio.TIFF})
	RegisterImageFormat("tiff", imgio.Codec{K: imgio.TIFF})

	RegisterTrajectoryFormat("log", trajio.LogCodec{})
	RegisterTrajectoryFormat("json", trajio.JSONCodec{})

	RegisterPoseGraphFormat("json", graphio.JSONCodec{})

	RegisterFeatureFormat("bin", featio.Codec{})
}

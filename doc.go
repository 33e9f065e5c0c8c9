// Package geoio reads and writes geometry data structures from and to
// files: point clouds, triangle meshes, line sets, voxel grids, images,
// pinhole camera parameters, camera trajectories, pose graphs and feature
// descriptor sets.
//
// Each entity kind owns a registry of format codecs. The format is either
// named explicitly (WithFormat) or inferred from the filename extension;
// writes always infer from the extension. Read operations fail loudly with
// a typed error; write operations return false and log the detail, so batch
// callers can continue past individual failures:
//
//	pcd, err := geoio.ReadPointCloud("scan.pcd")
//	if err != nil { ... }
//	ok := geoio.WritePointCloud("scan.ply", pcd, geoio.WithASCII(true))
//
// Built-in codecs register at package initialization. Additional or
// replacement codecs can be installed with the Register*Format functions;
// the last registration for a tag wins.
package geoio

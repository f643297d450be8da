// Package geom provides the value types shared by display lists, canvases
// and layers: points, rectangles, rounded rectangles, paths and 4x4
// homogeneous transforms.
//
// Scalars are float32, matching the precision canvases rasterize at.
// Rectangles are {Left, Top, Right, Bottom} and are empty unless
// Left < Right and Top < Bottom. A Matrix is a row-major 4x4 transform;
// a.Concat(b) applies b first and then a.
package geom

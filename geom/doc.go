// Package geom provides the geometry value types used by the tiling engine:
// integer rectangles and sizes for grid math, float rectangles for
// screen-space computation, a rect-list region for invalidation tracking,
// and a projective 2D transform.
//
// All types are plain values with no internal state; operations return new
// values rather than mutating receivers, except where documented.
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians
package geom

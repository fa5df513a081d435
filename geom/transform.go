package geom

import "math"

// Transform represents a projective 2D transformation as a 3x3 matrix in
// row-major order:
//
//	| M00  M01  M02 |
//	| M10  M11  M12 |
//	| M20  M21  M22 |
//
// A point (x, y) maps to (x'/w, y'/w) where:
//
//	x' = M00*x + M01*y + M02
//	y' = M10*x + M11*y + M12
//	w  = M20*x + M21*y + M22
//
// Transforms with a zero bottom row other than M22 == 1 are affine; the
// compositor classifies transforms once per frame so that the common
// translation and affine cases avoid full projective math.
type Transform struct {
	M00, M01, M02 float64
	M10, M11, M12 float64
	M20, M21, M22 float64
}

// IdentityTransform returns the identity transformation.
func IdentityTransform() Transform {
	return Transform{
		M00: 1, M11: 1, M22: 1,
	}
}

// TranslationTransform creates a pure translation.
func TranslationTransform(x, y float64) Transform {
	return Transform{
		M00: 1, M02: x,
		M11: 1, M12: y,
		M22: 1,
	}
}

// ScaleTransform creates a scaling transformation.
func ScaleTransform(sx, sy float64) Transform {
	return Transform{
		M00: sx,
		M11: sy,
		M22: 1,
	}
}

// RotationTransform creates a rotation (angle in radians).
func RotationTransform(angle float64) Transform {
	sin, cos := math.Sincos(angle)
	return Transform{
		M00: cos, M01: -sin,
		M10: sin, M11: cos,
		M22: 1,
	}
}

// Mul multiplies two transforms (t * o), applying o first.
func (t Transform) Mul(o Transform) Transform {
	return Transform{
		M00: t.M00*o.M00 + t.M01*o.M10 + t.M02*o.M20,
		M01: t.M00*o.M01 + t.M01*o.M11 + t.M02*o.M21,
		M02: t.M00*o.M02 + t.M01*o.M12 + t.M02*o.M22,
		M10: t.M10*o.M00 + t.M11*o.M10 + t.M12*o.M20,
		M11: t.M10*o.M01 + t.M11*o.M11 + t.M12*o.M21,
		M12: t.M10*o.M02 + t.M11*o.M12 + t.M12*o.M22,
		M20: t.M20*o.M00 + t.M21*o.M10 + t.M22*o.M20,
		M21: t.M20*o.M01 + t.M21*o.M11 + t.M22*o.M21,
		M22: t.M20*o.M02 + t.M21*o.M12 + t.M22*o.M22,
	}
}

// Translation returns the transform's translation components.
func (t Transform) Translation() Vector {
	return Vector{X: t.M02, Y: t.M12}
}

// BasisX returns the image of the unit x vector (ignoring translation and
// perspective). Used to step across grid columns in screen space.
func (t Transform) BasisX() Vector {
	return Vector{X: t.M00, Y: t.M10}
}

// BasisY returns the image of the unit y vector (ignoring translation and
// perspective).
func (t Transform) BasisY() Vector {
	return Vector{X: t.M01, Y: t.M11}
}

// HasPerspective reports whether mapping a point requires a homogeneous
// divide.
func (t Transform) HasPerspective() bool {
	return t.M20 != 0 || t.M21 != 0 || t.M22 != 1
}

// IsApproxTranslation reports whether the transform is within eps of a pure
// 2D translation.
func (t Transform) IsApproxTranslation(eps float64) bool {
	if t.HasPerspective() {
		return false
	}
	return math.Abs(t.M00-1) <= eps && math.Abs(t.M01) <= eps &&
		math.Abs(t.M10) <= eps && math.Abs(t.M11-1) <= eps
}

// MapPoint maps a point through the transform. The second return value is
// false when the point maps behind the projection plane (w <= 0), in which
// case the mapped value is meaningless.
func (t Transform) MapPoint(p Point) (Point, bool) {
	x := t.M00*p.X + t.M01*p.Y + t.M02
	y := t.M10*p.X + t.M11*p.Y + t.M12
	w := t.M20*p.X + t.M21*p.Y + t.M22
	const wEps = 1e-12
	if w <= wEps {
		return Point{}, false
	}
	if w != 1 {
		inv := 1 / w
		x *= inv
		y *= inv
	}
	return Point{X: x, Y: y}, true
}

// MapRect maps a rectangle through the transform and returns the bounding
// box of the mapped corners. Corners that map behind the projection plane
// are dropped; the result is the zero RectF when no corner survives.
func (t Transform) MapRect(r RectF) RectF {
	corners := [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
	first := true
	var minX, minY, maxX, maxY float64
	for _, c := range corners {
		p, ok := t.MapPoint(c)
		if !ok {
			continue
		}
		if first {
			minX, maxX = p.X, p.X
			minY, maxY = p.Y, p.Y
			first = false
			continue
		}
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	if first {
		return RectF{}
	}
	return RectF{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// QuadBounds returns the bounding box of a parallelogram given its origin
// and two edge vectors. The affine priority fast path derives screen-space
// rectangles this way without per-tile matrix application.
func QuadBounds(origin Point, edgeX, edgeY Vector) RectF {
	p0 := origin
	p1 := origin.Add(edgeX)
	p2 := origin.Add(edgeX).Add(edgeY)
	p3 := origin.Add(edgeY)
	minX := math.Min(math.Min(p0.X, p1.X), math.Min(p2.X, p3.X))
	maxX := math.Max(math.Max(p0.X, p1.X), math.Max(p2.X, p3.X))
	minY := math.Min(math.Min(p0.Y, p1.Y), math.Min(p2.Y, p3.Y))
	maxY := math.Max(math.Max(p0.Y, p1.Y), math.Max(p2.Y, p3.Y))
	return RectF{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

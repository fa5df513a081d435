package geom

import "math"

// Size represents integer pixel dimensions.
type Size struct {
	W, H int
}

// Sz is a convenience function to create a Size.
func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// ScaleSizeCeil scales a size by a factor, rounding each dimension up.
func ScaleSizeCeil(s Size, scale float64) Size {
	return Size{
		W: int(math.Ceil(float64(s.W) * scale)),
		H: int(math.Ceil(float64(s.H) * scale)),
	}
}

// ScaleSizeFloor scales a size by a factor, rounding each dimension down.
func ScaleSizeFloor(s Size, scale float64) Size {
	return Size{
		W: int(math.Floor(float64(s.W) * scale)),
		H: int(math.Floor(float64(s.H) * scale)),
	}
}

// Rect represents an integer pixel rectangle.
// A rectangle with non-positive width or height is empty.
type Rect struct {
	X, Y, W, H int
}

// Rc is a convenience function to create a Rect.
func Rc(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// RectOfSize returns a rectangle at the origin with the given size.
func RectOfSize(s Size) Rect {
	return Rect{W: s.W, H: s.H}
}

// Right returns the exclusive right edge coordinate.
func (r Rect) Right() int { return r.X + r.W }

// Bottom returns the exclusive bottom edge coordinate.
func (r Rect) Bottom() int { return r.Y + r.H }

// Size returns the rectangle's dimensions.
func (r Rect) Size() Size { return Size{W: r.W, H: r.H} }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Area returns the rectangle's area. Empty rectangles have zero area.
func (r Rect) Area() int64 {
	if r.Empty() {
		return 0
	}
	return int64(r.W) * int64(r.H)
}

// Contains reports whether r fully contains o.
// An empty o is contained by any non-empty r; an empty r contains nothing.
func (r Rect) Contains(o Rect) bool {
	if r.Empty() {
		return false
	}
	if o.Empty() {
		return true
	}
	return o.X >= r.X && o.Y >= r.Y && o.Right() <= r.Right() && o.Bottom() <= r.Bottom()
}

// Intersects reports whether r and o share any area.
func (r Rect) Intersects(o Rect) bool {
	return !r.Empty() && !o.Empty() &&
		r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the intersection of r and o.
// Returns the zero Rect when they do not overlap, so the result of a
// failed intersection compares equal regardless of the inputs' origins.
func (r Rect) Intersect(o Rect) Rect {
	x := max(r.X, o.X)
	y := max(r.Y, o.Y)
	right := min(r.Right(), o.Right())
	bottom := min(r.Bottom(), o.Bottom())
	if x >= right || y >= bottom {
		return Rect{}
	}
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	right := max(r.Right(), o.Right())
	bottom := max(r.Bottom(), o.Bottom())
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// Inset shrinks the rectangle by dx on the left and right edges and dy on
// the top and bottom edges. Negative values grow it.
func (r Rect) Inset(dx, dy int) Rect {
	return Rect{X: r.X + dx, Y: r.Y + dy, W: r.W - 2*dx, H: r.H - 2*dy}
}

// InsetEdges moves each edge inward by the given amount.
func (r Rect) InsetEdges(left, top, right, bottom int) Rect {
	return Rect{
		X: r.X + left,
		Y: r.Y + top,
		W: r.W - left - right,
		H: r.H - top - bottom,
	}
}

// ToRectF converts the rectangle to float coordinates.
func (r Rect) ToRectF() RectF {
	return RectF{X: float64(r.X), Y: float64(r.Y), W: float64(r.W), H: float64(r.H)}
}

// ScaleToEnclosingRect scales a rectangle by the given factors and returns
// the smallest integer rectangle containing the result: the origin rounds
// down and the far corner rounds up.
func ScaleToEnclosingRect(r Rect, sx, sy float64) Rect {
	if r.Empty() {
		return Rect{}
	}
	x := int(math.Floor(float64(r.X) * sx))
	y := int(math.Floor(float64(r.Y) * sy))
	right := int(math.Ceil(float64(r.Right()) * sx))
	bottom := int(math.Ceil(float64(r.Bottom()) * sy))
	return Rect{X: x, Y: y, W: right - x, H: bottom - y}
}

// RectF represents a float pixel rectangle.
type RectF struct {
	X, Y, W, H float64
}

// Right returns the right edge coordinate.
func (r RectF) Right() float64 { return r.X + r.W }

// Bottom returns the bottom edge coordinate.
func (r RectF) Bottom() float64 { return r.Y + r.H }

// Empty reports whether the rectangle has no area.
func (r RectF) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Intersects reports whether r and o share any area.
func (r RectF) Intersects(o RectF) bool {
	return !r.Empty() && !o.Empty() &&
		r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Intersect returns the intersection of r and o, or the zero RectF when
// they do not overlap.
func (r RectF) Intersect(o RectF) RectF {
	x := math.Max(r.X, o.X)
	y := math.Max(r.Y, o.Y)
	right := math.Min(r.Right(), o.Right())
	bottom := math.Min(r.Bottom(), o.Bottom())
	if x >= right || y >= bottom {
		return RectF{}
	}
	return RectF{X: x, Y: y, W: right - x, H: bottom - y}
}

// Union returns the smallest rectangle containing both r and o.
func (r RectF) Union(o RectF) RectF {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	x := math.Min(r.X, o.X)
	y := math.Min(r.Y, o.Y)
	right := math.Max(r.Right(), o.Right())
	bottom := math.Max(r.Bottom(), o.Bottom())
	return RectF{X: x, Y: y, W: right - x, H: bottom - y}
}

// Offset returns the rectangle displaced by a vector.
func (r RectF) Offset(v Vector) RectF {
	return RectF{X: r.X + v.X, Y: r.Y + v.Y, W: r.W, H: r.H}
}

// Scale returns the rectangle with both origin and extent scaled.
func (r RectF) Scale(sx, sy float64) RectF {
	return RectF{X: r.X * sx, Y: r.Y * sy, W: r.W * sx, H: r.H * sy}
}

// ManhattanInternalDistance returns the Manhattan distance the rectangle
// would have to travel to overlap o. Zero when they already intersect.
// A small epsilon compensates for adjacent rectangles that only share an
// edge, which must still count as a positive distance.
func (r RectF) ManhattanInternalDistance(o RectF) float64 {
	u := r.Union(o)
	const eps = 2.220446049250313e-16 // math.Nextafter(1, 2) - 1
	dx := math.Max(0, u.W-r.W-o.W+eps)
	dy := math.Max(0, u.H-r.H-o.H+eps)
	return dx + dy
}

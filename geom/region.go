package geom

// Region is a set of integer rectangles. It is kept as a rect list rather
// than a band decomposition: regions in the tiling engine hold a handful of
// invalidation rectangles per commit, so the list stays short.
//
// The rectangles in a region may overlap after Union; Subtract produces a
// non-overlapping decomposition of what remains.
type Region struct {
	rects []Rect
}

// NewRegion returns a region covering the given rectangles.
// Empty rectangles are dropped.
func NewRegion(rects ...Rect) Region {
	var reg Region
	for _, r := range rects {
		reg.Union(r)
	}
	return reg
}

// Empty reports whether the region covers no area.
func (reg *Region) Empty() bool {
	return len(reg.rects) == 0
}

// Clear removes all rectangles from the region.
func (reg *Region) Clear() {
	reg.rects = reg.rects[:0]
}

// Union adds a rectangle to the region.
func (reg *Region) Union(r Rect) {
	if r.Empty() {
		return
	}
	// Cheap containment check keeps repeated identical invalidations from
	// growing the list.
	for _, existing := range reg.rects {
		if existing.Contains(r) {
			return
		}
	}
	reg.rects = append(reg.rects, r)
}

// Subtract removes a rectangle from the region. Each remaining rectangle
// that overlaps r is split into at most four pieces.
func (reg *Region) Subtract(r Rect) {
	if r.Empty() || len(reg.rects) == 0 {
		return
	}
	out := make([]Rect, 0, len(reg.rects))
	for _, existing := range reg.rects {
		if !existing.Intersects(r) {
			out = append(out, existing)
			continue
		}
		out = appendRectDifference(out, existing, r)
	}
	reg.rects = out
}

// appendRectDifference appends the parts of a not covered by b.
func appendRectDifference(out []Rect, a, b Rect) []Rect {
	// Top band.
	if b.Y > a.Y {
		out = append(out, Rect{X: a.X, Y: a.Y, W: a.W, H: b.Y - a.Y})
	}
	// Bottom band.
	if b.Bottom() < a.Bottom() {
		out = append(out, Rect{X: a.X, Y: b.Bottom(), W: a.W, H: a.Bottom() - b.Bottom()})
	}
	midTop := max(a.Y, b.Y)
	midBottom := min(a.Bottom(), b.Bottom())
	if midBottom > midTop {
		// Left band.
		if b.X > a.X {
			out = append(out, Rect{X: a.X, Y: midTop, W: b.X - a.X, H: midBottom - midTop})
		}
		// Right band.
		if b.Right() < a.Right() {
			out = append(out, Rect{X: b.Right(), Y: midTop, W: a.Right() - b.Right(), H: midBottom - midTop})
		}
	}
	return out
}

// Intersects reports whether any rectangle in the region overlaps r.
func (reg *Region) Intersects(r Rect) bool {
	for _, existing := range reg.rects {
		if existing.Intersects(r) {
			return true
		}
	}
	return false
}

// Bounds returns the smallest rectangle containing the whole region.
func (reg *Region) Bounds() Rect {
	var b Rect
	for _, r := range reg.rects {
		b = b.Union(r)
	}
	return b
}

// ForEach calls fn for each rectangle in the region.
func (reg *Region) ForEach(fn func(Rect)) {
	for _, r := range reg.rects {
		fn(r)
	}
}

// Rects returns the region's rectangles. The returned slice must not be
// modified.
func (reg *Region) Rects() []Rect {
	return reg.rects
}

package tiling

import (
	"math"

	"github.com/gogpu/tiling/geom"
)

// ExpandMemo caches the last rectangle expansion. The priority pass asks
// for the same expansion every frame while the viewport is idle, so a
// single entry removes the whole computation from the steady state.
type ExpandMemo struct {
	start  geom.Rect
	bounds geom.Rect
	target int64
	result geom.Rect
	primed bool
}

// edgeEvent records the moment an expanding edge reaches the corresponding
// edge of the bounding rectangle. Four such events occur during expansion.
type edgeEvent struct {
	edge     int  // one of edgeBottom..edgeRight
	numEdges *int // free-edge counter for this event's axis
	distance int
}

const (
	edgeBottom = iota
	edgeTop
	edgeLeft
	edgeRight
)

// computeExpansionDelta returns the amount to move every free edge outward
// so that the rectangle covers targetArea. With free edges on both axes
// this solves the quadratic (w + numX*d)(h + numY*d) = target for d; when
// one axis has no free edges left the equation degenerates to linear.
func computeExpansionDelta(numXEdges, numYEdges, width, height int, targetArea int64) int {
	// a*d^2 + b*d + c = 0
	a := int64(numYEdges) * int64(numXEdges)
	b := int64(numYEdges)*int64(width) + int64(numXEdges)*int64(height)
	c := int64(width)*int64(height) - targetArea

	if a == 0 {
		return int(-c / b)
	}
	disc := float64(b)*float64(b) - 4*float64(a)*float64(c)
	return int((-b + int64(math.Sqrt(disc))) / (2 * a))
}

// ExpandRectEquallyToAreaBoundedBy grows (or shrinks) start until its area
// is as close as possible to targetArea, moving all four edges by equal
// amounts. An edge stops as soon as it reaches the corresponding edge of
// bounds; growth then continues asymmetrically on the remaining free
// edges. The result never extends outside bounds.
//
// An empty start returns an empty rectangle, as does a start so far from
// bounds that the grown rectangle never reaches it. targetArea must be
// positive and bounds non-empty; violating either is a programmer error.
//
// The memo may be nil. When the same (start, bounds, targetArea) triple is
// asked twice in a row the memoized result is returned without computation.
func ExpandRectEquallyToAreaBoundedBy(start geom.Rect, targetArea int64, bounds geom.Rect, memo *ExpandMemo) geom.Rect {
	if start.Empty() {
		return start
	}

	if memo != nil && memo.primed &&
		memo.start == start && memo.bounds == bounds && memo.target == targetArea {
		return memo.result
	}
	if memo != nil {
		memo.start = start
		memo.bounds = bounds
		memo.target = targetArea
		memo.primed = true
	}
	save := func(r geom.Rect) geom.Rect {
		if memo != nil {
			memo.result = r
		}
		return r
	}

	if bounds.Empty() {
		panic("tiling: expansion with empty bounding rect")
	}
	if targetArea <= 0 {
		panic("tiling: expansion with non-positive target area")
	}

	// Expand the starting rect symmetrically to cover targetArea, if it is
	// smaller than it.
	delta := computeExpansionDelta(2, 2, start.W, start.H, targetArea)
	expanded := start
	if delta > 0 {
		expanded = expanded.Inset(-delta, -delta)
	}

	rect := expanded.Intersect(bounds)
	if rect.Empty() {
		// start and bounds are too far apart.
		return save(rect)
	}
	if delta >= 0 && rect == expanded {
		// The grown rect stayed inside bounds and already covers the target.
		return save(rect)
	}

	// Some edge hit the boundary (or the rect must shrink). Process the
	// four edge-reaches-boundary events nearest first, recomputing the
	// expansion delta for the remaining free edges at each one.
	originX := rect.X
	originY := rect.Y
	width := rect.W
	height := rect.H

	numYEdges := 2
	numXEdges := 2

	events := [4]edgeEvent{
		{edge: edgeBottom, numEdges: &numYEdges, distance: rect.Y - bounds.Y},
		{edge: edgeTop, numEdges: &numYEdges, distance: bounds.Bottom() - rect.Bottom()},
		{edge: edgeLeft, numEdges: &numXEdges, distance: rect.X - bounds.X},
		{edge: edgeRight, numEdges: &numXEdges, distance: bounds.Right() - rect.Right()},
	}

	// Sorting network for 4 elements, closest event first.
	if events[0].distance > events[1].distance {
		events[0], events[1] = events[1], events[0]
	}
	if events[2].distance > events[3].distance {
		events[2], events[3] = events[3], events[2]
	}
	if events[0].distance > events[2].distance {
		events[0], events[2] = events[2], events[0]
	}
	if events[1].distance > events[3].distance {
		events[1], events[3] = events[3], events[1]
	}
	if events[1].distance > events[2].distance {
		events[1], events[2] = events[2], events[1]
	}

	for eventIndex := range events {
		event := events[eventIndex]

		delta := computeExpansionDelta(numXEdges, numYEdges, width, height, targetArea)

		// The delta must not move any edge past its boundary.
		if delta > event.distance {
			delta = event.distance
		}

		// This event's edge is exhausted from here on.
		*event.numEdges--

		// Apply the delta to every remaining free edge and keep the event
		// distances in step with the moving edges.
		for i := eventIndex; i < len(events); i++ {
			switch events[i].edge {
			case edgeBottom:
				originY -= delta
				height += delta
			case edgeTop:
				height += delta
			case edgeLeft:
				originX -= delta
				width += delta
			case edgeRight:
				width += delta
			}
			events[i].distance -= delta
		}

		// Target reached before the next edge hit its boundary.
		if delta < event.distance {
			break
		}
	}

	return save(geom.Rect{X: originX, Y: originY, W: width, H: height})
}

package tiling

import (
	"math"

	"github.com/gogpu/tiling/geom"
)

// TilePriority is the scheduling signal computed for every tile bundle once
// per frame. The external tile scheduler orders raster work by time to
// visibility first, then distance.
type TilePriority struct {
	// Resolution of the tiling that produced this priority.
	Resolution Resolution

	// TimeToVisible estimates, in seconds, when the bundle's screen-space
	// bounds will first intersect the viewport given its current velocity.
	// Zero when already visible, +Inf when motion never brings it on screen.
	TimeToVisible float64

	// DistanceToVisible is the Manhattan distance in screen pixels between
	// the bundle's current screen bounds and the viewport. Never negative.
	DistanceToVisible float64
}

// newPriority returns the priority assigned to bundles that have never been
// prioritized: maximally distant and never visible.
func newPriority() TilePriority {
	return TilePriority{
		Resolution:        NonIdealResolution,
		TimeToVisible:     math.Inf(1),
		DistanceToVisible: math.Inf(1),
	}
}

// TimeForBoundsToIntersect estimates when a rectangle moving from last to
// current over timeDelta seconds will first intersect target, assuming its
// edges keep their linear velocity. Returns 0 when current already
// intersects target and +Inf when the extrapolated motion never reaches it
// or when timeDelta is zero (no velocity can be derived).
func TimeForBoundsToIntersect(last, current geom.RectF, timeDelta float64, target geom.RectF) float64 {
	if current.Intersects(target) {
		return 0
	}
	if timeDelta == 0 {
		return math.Inf(1)
	}

	// Solve each axis independently for the interval of future time during
	// which the moving span overlaps the target span, then intersect the
	// two intervals.
	xEnter, xExit := axisIntersectionWindow(
		last.X, last.Right(), current.X, current.Right(),
		target.X, target.Right(), timeDelta)
	if xEnter > xExit {
		return math.Inf(1)
	}
	yEnter, yExit := axisIntersectionWindow(
		last.Y, last.Bottom(), current.Y, current.Bottom(),
		target.Y, target.Bottom(), timeDelta)
	if yEnter > yExit {
		return math.Inf(1)
	}

	enter := math.Max(xEnter, yEnter)
	exit := math.Min(xExit, yExit)
	if enter > exit {
		return math.Inf(1)
	}
	return enter
}

// axisIntersectionWindow returns the [enter, exit] window of time t >= 0
// during which the moving span [lo(t), hi(t)] overlaps [targetLo, targetHi].
// t = 0 corresponds to the current position; edge velocities are derived
// from the last position over timeDelta. Returns enter > exit when the
// spans never overlap.
func axisIntersectionWindow(lastLo, lastHi, curLo, curHi, targetLo, targetHi, timeDelta float64) (enter, exit float64) {
	vLo := (curLo - lastLo) / timeDelta
	vHi := (curHi - lastHi) / timeDelta

	// Overlap requires lo(t) < targetHi and hi(t) > targetLo.
	enter = 0
	exit = math.Inf(1)

	// hi(t) > targetLo: curHi + vHi*t > targetLo.
	if curHi <= targetLo {
		if vHi <= 0 {
			return 1, 0 // moving away, never overlaps
		}
		enter = math.Max(enter, (targetLo-curHi)/vHi)
	} else if vHi < 0 {
		exit = math.Min(exit, (targetLo-curHi)/vHi)
	}

	// lo(t) < targetHi: curLo + vLo*t < targetHi.
	if curLo >= targetHi {
		if vLo >= 0 {
			return 1, 0
		}
		enter = math.Max(enter, (targetHi-curLo)/vLo)
	} else if vLo > 0 {
		exit = math.Min(exit, (targetHi-curLo)/vLo)
	}

	return enter, exit
}

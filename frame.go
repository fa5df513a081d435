package tiling

import (
	"github.com/gogpu/tiling/geom"
)

// approxTranslationEpsilon bounds how far a transform's rotation, scale and
// skew components may stray from identity while the translation-only
// priority path is still taken.
const approxTranslationEpsilon = 1.1920929e-07

// FrameInfo carries everything the per-frame priority pass needs. The
// driving compositor fills one of these per frame and hands it to every
// tiling it owns.
type FrameInfo struct {
	// Tree is the tree being prioritized. Must match the tiling's current
	// tree, except on the very first update, which adopts it.
	Tree Tree

	// DeviceViewport is the output surface size in screen pixels.
	DeviceViewport geom.Size

	// ViewportInLayerSpace is the viewport mapped into un-scaled layer
	// coordinates. Used as the interest seed when nothing is visible.
	ViewportInLayerSpace geom.Rect

	// VisibleLayerRect is the layer's visible part in un-scaled layer
	// coordinates. May be empty.
	VisibleLayerRect geom.Rect

	// LastLayerBounds and CurrentLayerBounds are the layer size on the
	// previous and current frame. A bounds change invalidates velocity
	// estimates, so elapsed time is treated as zero when they differ.
	LastLayerBounds    geom.Size
	CurrentLayerBounds geom.Size

	// LastContentsScale and CurrentContentsScale are the layer's ideal
	// scale on the previous and current frame.
	LastContentsScale    float64
	CurrentContentsScale float64

	// LastScreenTransform and CurrentScreenTransform map layer content
	// space to screen space on the previous and current frame.
	LastScreenTransform    geom.Transform
	CurrentScreenTransform geom.Transform

	// FrameTime is the frame timestamp in seconds. A tiling processes each
	// timestamp at most once. Must never be zero for a real frame.
	FrameTime float64

	// MaxTilesForInterestArea sets the tile budget the live region is
	// grown to cover.
	MaxTilesForInterestArea int
}

// hasEverBeenUpdated reports whether any priority pass has completed.
func (t *Tiling) hasEverBeenUpdated() bool {
	return t.lastFrameTime != 0
}

// needsUpdateForFrameAtTime reports whether the given frame timestamp has
// not been processed yet.
func (t *Tiling) needsUpdateForFrameAtTime(frameTime float64) bool {
	return frameTime != t.lastFrameTime
}

// UpdatePriorities recomputes every bundle's scheduling priority for the
// frame described by f, growing or shrinking the live region to the
// interest area first.
//
// The screen-space rectangle of each bundle is derived by one of three
// strategies classified once per frame: a scale-plus-offset when both
// transforms are (approximately) pure translations, precomputed basis
// steps for general affine transforms, and a full projective mapping only
// when perspective is present. Most frames are plain scrolls, and this
// pass runs over every bundle of every tiling each frame.
func (t *Tiling) UpdatePriorities(f FrameInfo) {
	if !t.hasEverBeenUpdated() {
		t.currentTree = f.Tree
	}
	if f.Tree != t.currentTree {
		panic("tiling: priority update for the wrong tree")
	}
	if !t.needsUpdateForFrameAtTime(f.FrameTime) {
		return
	}
	if t.ContentRect().Empty() {
		t.lastFrameTime = f.FrameTime
		return
	}

	viewportInContentSpace := geom.ScaleToEnclosingRect(
		f.ViewportInLayerSpace, t.contentsScale, t.contentsScale)
	visibleContentRect := geom.ScaleToEnclosingRect(
		f.VisibleLayerRect, t.contentsScale, t.contentsScale)

	tileSize := t.grid.TileSize()
	interestArea := int64(f.MaxTilesForInterestArea) * int64(tileSize.W) * int64(tileSize.H)

	startingRect := visibleContentRect
	if startingRect.Empty() {
		startingRect = viewportInContentSpace
	}
	interestRect := ExpandRectEquallyToAreaBoundedBy(
		startingRect, interestArea, t.ContentRect(), &t.expandMemo)

	t.SetLiveTilesRect(interestRect)

	var timeDelta float64
	if t.lastFrameTime != 0 && f.LastLayerBounds == f.CurrentLayerBounds {
		timeDelta = f.FrameTime - t.lastFrameTime
	}

	viewRect := geom.RectOfSize(f.DeviceViewport).ToRectF()
	currentScale := f.CurrentContentsScale / t.contentsScale
	lastScale := f.LastContentsScale / t.contentsScale

	switch {
	case f.LastScreenTransform.IsApproxTranslation(approxTranslationEpsilon) &&
		f.CurrentScreenTransform.IsApproxTranslation(approxTranslationEpsilon):
		t.updatePrioritiesTranslation(f, interestRect, viewRect, lastScale, currentScale, timeDelta)
	case !f.LastScreenTransform.HasPerspective() && !f.CurrentScreenTransform.HasPerspective():
		t.updatePrioritiesAffine(f, interestRect, viewRect, lastScale, currentScale, timeDelta)
	default:
		t.updatePrioritiesGeneral(f, interestRect, viewRect, lastScale, currentScale, timeDelta)
	}

	t.lastFrameTime = f.FrameTime
}

// setBundlePriority computes and stores one bundle's priority from its
// screen-space rectangles under the last and current frame transforms.
func (t *Tiling) setBundlePriority(tree Tree, bundle *TileBundle,
	lastScreenRect, currentScreenRect geom.RectF, timeDelta float64, viewRect geom.RectF) {
	bundle.SetPriority(tree, TilePriority{
		Resolution:        t.resolution,
		TimeToVisible:     TimeForBoundsToIntersect(lastScreenRect, currentScreenRect, timeDelta, viewRect),
		DistanceToVisible: currentScreenRect.ManhattanInternalDistance(viewRect),
	})
}

// updatePrioritiesTranslation is the fast path for frames where both
// screen transforms are pure translations: each bundle's screen rectangle
// is a single scale plus offset, with no matrix application at all.
func (t *Tiling) updatePrioritiesTranslation(f FrameInfo, interestRect geom.Rect,
	viewRect geom.RectF, lastScale, currentScale, timeDelta float64) {
	currentOffset := f.CurrentScreenTransform.Translation()
	lastOffset := f.LastScreenTransform.Translation()

	t.bundleGrid.ForEachIn(interestRect, func(bx, by int) {
		bundle := t.BundleAt(bx, by)
		if bundle == nil {
			return
		}
		bounds := t.bundleGrid.TileBounds(bx, by).ToRectF()
		currentScreenRect := bounds.Scale(currentScale, currentScale).Offset(currentOffset)
		lastScreenRect := bounds.Scale(lastScale, lastScale).Offset(lastOffset)
		t.setBundlePriority(f.Tree, bundle, lastScreenRect, currentScreenRect, timeDelta, viewRect)
	})
}

// updatePrioritiesAffine handles rotation, skew and non-uniform scale
// without per-bundle matrix application: the transformed basis vectors are
// computed once, and each bundle's screen quad follows by vector addition.
func (t *Tiling) updatePrioritiesAffine(f FrameInfo, interestRect geom.Rect,
	viewRect geom.RectF, lastScale, currentScale, timeDelta float64) {
	// The image of the local origin is just the translation component.
	currentOrigin := geom.Pt(f.CurrentScreenTransform.M02, f.CurrentScreenTransform.M12)
	lastOrigin := geom.Pt(f.LastScreenTransform.M02, f.LastScreenTransform.M12)

	currentBundleW := float64(t.bundleGrid.TileSizeX(0)) * currentScale
	currentBundleH := float64(t.bundleGrid.TileSizeY(0)) * currentScale
	lastBundleW := float64(t.bundleGrid.TileSizeX(0)) * lastScale
	lastBundleH := float64(t.bundleGrid.TileSizeY(0)) * lastScale

	// Images of the local basis vectors (bundleW, 0) and (0, bundleH).
	currentHorizontal := f.CurrentScreenTransform.BasisX().Mul(currentBundleW)
	currentVertical := f.CurrentScreenTransform.BasisY().Mul(currentBundleH)
	lastHorizontal := f.LastScreenTransform.BasisX().Mul(lastBundleW)
	lastVertical := f.LastScreenTransform.BasisY().Mul(lastBundleH)

	t.bundleGrid.ForEachIn(interestRect, func(bx, by int) {
		bundle := t.BundleAt(bx, by)
		if bundle == nil {
			return
		}
		fx, fy := float64(bx), float64(by)
		currentBundleOrigin := currentOrigin.
			Add(currentHorizontal.Mul(fx)).
			Add(currentVertical.Mul(fy))
		lastBundleOrigin := lastOrigin.
			Add(lastHorizontal.Mul(fx)).
			Add(lastVertical.Mul(fy))

		currentScreenRect := geom.QuadBounds(currentBundleOrigin, currentHorizontal, currentVertical)
		lastScreenRect := geom.QuadBounds(lastBundleOrigin, lastHorizontal, lastVertical)
		t.setBundlePriority(f.Tree, bundle, lastScreenRect, currentScreenRect, timeDelta, viewRect)
	})
}

// updatePrioritiesGeneral is the slow path for perspective transforms:
// every bundle's content rectangle goes through the full projective
// mapping.
func (t *Tiling) updatePrioritiesGeneral(f FrameInfo, interestRect geom.Rect,
	viewRect geom.RectF, lastScale, currentScale, timeDelta float64) {
	t.bundleGrid.ForEachIn(interestRect, func(bx, by int) {
		bundle := t.BundleAt(bx, by)
		if bundle == nil {
			return
		}
		bounds := t.bundleGrid.TileBounds(bx, by).ToRectF()
		currentScreenRect := f.CurrentScreenTransform.MapRect(
			bounds.Scale(currentScale, currentScale))
		lastScreenRect := f.LastScreenTransform.MapRect(
			bounds.Scale(lastScale, lastScale))
		t.setBundlePriority(f.Tree, bundle, lastScreenRect, currentScreenRect, timeDelta, viewRect)
	})
}

package tiling

import (
	"fmt"
	"log/slog"

	"github.com/gogpu/tiling/geom"
)

// Tiling manages the grid of raster tiles covering one layer's content at
// one scale. It owns the bundle collection and the live-region tracking,
// and runs entirely on the compositor thread: no method may be called
// concurrently with any other.
//
// A layer typically owns one tiling per scale per tree; the two tilings at
// the same scale in opposite trees are twins and share TileBundle
// instances so double buffering never rasters the same cell twice.
type Tiling struct {
	contentsScale float64
	layerBounds   geom.Size
	resolution    Resolution
	client        Client

	grid       Grid
	bundleGrid Grid
	bundles    map[bundleKey]*TileBundle

	liveTilesRect geom.Rect
	currentTree   Tree

	// lastFrameTime gates the per-frame priority pass; zero means the
	// tiling has never been updated.
	lastFrameTime float64
	expandMemo    ExpandMemo
}

// bundleTileSize returns the cell size of the bundle grid: the tile size
// scaled by the bundle dimensions, counting the shared border texels once.
func bundleTileSize(tileSize geom.Size, border int) geom.Size {
	innerW := tileSize.W - 2*border
	innerH := tileSize.H - 2*border
	return geom.Size{
		W: innerW*bundleWidth + 2*border,
		H: innerH*bundleHeight + 2*border,
	}
}

// New creates a tiling for a layer of layerBounds (un-scaled layer
// coordinates) rasterized at contentsScale content pixels per layer pixel.
// The client chooses the tile size and produces tiles on demand.
//
// Panics when the scaled layer bounds floor to an empty size: a tiling at
// such a scale could never hold content.
func New(contentsScale float64, layerBounds geom.Size, client Client, opts ...Option) *Tiling {
	if geom.ScaleSizeFloor(layerBounds, contentsScale).Empty() {
		panic(fmt.Sprintf(
			"tiling: scale %v too small, layer bounds %dx%d scale to empty contents",
			contentsScale, layerBounds.W, layerBounds.H))
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	t := &Tiling{
		contentsScale: contentsScale,
		layerBounds:   layerBounds,
		resolution:    o.resolution,
		client:        client,
		bundles:       make(map[bundleKey]*TileBundle),
		currentTree:   PendingTree,
	}

	contentBounds := geom.ScaleSizeCeil(layerBounds, contentsScale)
	tileSize := client.TileSizeFor(contentBounds)
	t.grid = NewGrid(contentBounds, tileSize, o.borderTexels)
	t.bundleGrid = NewGrid(contentBounds, bundleTileSize(tileSize, o.borderTexels), o.borderTexels)
	return t
}

// ContentsScale returns the tiling's content pixels per layer pixel.
func (t *Tiling) ContentsScale() float64 { return t.contentsScale }

// LayerBounds returns the un-scaled layer size.
func (t *Tiling) LayerBounds() geom.Size { return t.layerBounds }

// ContentRect returns the full content rectangle at this tiling's scale.
func (t *Tiling) ContentRect() geom.Rect {
	return geom.RectOfSize(t.grid.TotalSize())
}

// TileSize returns the tile dimensions chosen by the client.
func (t *Tiling) TileSize() geom.Size { return t.grid.TileSize() }

// LiveTilesRect returns the content-space region for which tiles are
// currently materialized.
func (t *Tiling) LiveTilesRect() geom.Rect { return t.liveTilesRect }

// CurrentTree returns the tree this tiling currently builds or displays.
func (t *Tiling) CurrentTree() Tree { return t.currentTree }

// Resolution returns the tiling's resolution category.
func (t *Tiling) Resolution() Resolution { return t.resolution }

// SetResolution changes the resolution category reported in priorities.
func (t *Tiling) SetResolution(r Resolution) { t.resolution = r }

// SetClient replaces the tile content manager.
func (t *Tiling) SetClient(c Client) { t.client = c }

func (t *Tiling) assertPendingTree() {
	if t.currentTree != PendingTree {
		panic("tiling: mutation outside the pending tree")
	}
}

// BundleAt returns the bundle at the given bundle-grid position, or nil.
func (t *Tiling) BundleAt(col, row int) *TileBundle {
	b, ok := t.bundles[bundleKey{col: col, row: row}]
	if !ok {
		return nil
	}
	b.swapTilesIfRequired()
	return b
}

// BundleContainingTile returns the bundle owning tile (i, j), or nil.
func (t *Tiling) BundleContainingTile(i, j int) *TileBundle {
	key := bundleKeyForTile(i, j)
	return t.BundleAt(key.col, key.row)
}

// TileAt returns the tile in the given tree at grid cell (i, j), or nil.
func (t *Tiling) TileAt(tree Tree, i, j int) Tile {
	bundle := t.BundleContainingTile(i, j)
	if bundle == nil {
		return nil
	}
	return bundle.TileAt(tree, i, j)
}

// createBundleForTileAt obtains the bundle that will own tile (i, j):
// the twin tiling's bundle at the same key when the grids agree (bundles
// are always shared between trees), otherwise a fresh one from the client.
func (t *Tiling) createBundleForTileAt(i, j int, twin *Tiling) *TileBundle {
	key := bundleKeyForTile(i, j)
	if _, ok := t.bundles[key]; ok {
		panic("tiling: bundle already exists for tile")
	}

	var candidate *TileBundle
	if twin != nil && t.grid.TileSize() == twin.grid.TileSize() {
		candidate = twin.BundleAt(key.col, key.row)
	}
	if candidate == nil {
		candidate = t.client.CreateBundle(
			key.col*bundleWidth, key.row*bundleHeight, bundleWidth, bundleHeight)
	}
	candidate.swapTilesIfRequired()
	t.bundles[key] = candidate
	return candidate
}

// createTile materializes the tile at (tree, i, j). If the twin tree holds
// a tile for the same cell whose painted region is untouched by the
// pending invalidation, that tile is adopted as-is; otherwise the client
// is asked for a new one. A nil client result leaves the slot empty.
func (t *Tiling) createTile(tree Tree, i, j int, twin *Tiling) {
	bundle := t.BundleContainingTile(i, j)
	if bundle == nil {
		bundle = t.createBundleForTileAt(i, j, twin)
	}

	paintRect := t.grid.TileBoundsWithBorder(i, j)
	allocRect := paintRect
	allocRect.W = t.grid.TileSize().W
	allocRect.H = t.grid.TileSize().H

	if candidate := bundle.TileAt(tree.Twin(), i, j); candidate != nil {
		invScale := 1 / t.contentsScale
		layerRect := geom.ScaleToEnclosingRect(paintRect, invScale, invScale)
		if !t.client.Invalidation().Intersects(layerRect) {
			bundle.AddTileAt(tree, i, j, candidate)
			return
		}
	}

	if tile := t.client.CreateTile(t, allocRect); tile != nil {
		bundle.AddTileAt(tree, i, j, tile)
	}
}

// removeTile clears the slot at (tree, i, j) and reports whether a tile
// was there.
func (t *Tiling) removeTile(tree Tree, i, j int) bool {
	bundle := t.BundleContainingTile(i, j)
	if bundle == nil {
		return false
	}
	return bundle.RemoveTileAt(tree, i, j)
}

// removeBundleContainingTileAtIfEmpty erases the bundle entry for tile
// (i, j) once neither tree holds a tile in it.
func (t *Tiling) removeBundleContainingTileAtIfEmpty(i, j int) {
	key := bundleKeyForTile(i, j)
	if b, ok := t.bundles[key]; ok && b.IsEmpty() {
		delete(t.bundles, key)
	}
}

// SetLiveTilesRect changes the region for which tiles exist. Tiles in the
// old region but not the new are removed (and empty bundles erased); cells
// newly covered get tiles created for the current tree. The cost is
// proportional to the boundary cells, not the region size.
func (t *Tiling) SetLiveTilesRect(newLiveTilesRect geom.Rect) {
	if !newLiveTilesRect.Empty() && !t.ContentRect().Contains(newLiveTilesRect) {
		panic("tiling: live tiles rect outside content rect")
	}
	if t.liveTilesRect == newLiveTilesRect {
		return
	}

	t.grid.ForEachDifference(t.liveTilesRect, newLiveTilesRect, func(i, j int) {
		// A cell inside the old live rect may still have no tile if the
		// client declined to create one.
		t.removeTile(t.currentTree, i, j)
		t.removeBundleContainingTileAtIfEmpty(i, j)
	})

	if newLiveTilesRect.Empty() {
		t.liveTilesRect = newLiveTilesRect
		return
	}

	twin := t.client.TwinTiling(t)
	t.grid.ForEachDifference(newLiveTilesRect, t.liveTilesRect, func(i, j int) {
		t.createTile(t.currentTree, i, j, twin)
	})

	t.liveTilesRect = newLiveTilesRect
}

// SetLayerBounds resizes the layer. When the client would pick a different
// tile size for the new content size the whole grid is reset, since the
// old tile geometry is no longer comparable; otherwise the live rect is
// clipped to the new bounds and any newly exposed area is invalidated so
// tiles appear there.
func (t *Tiling) SetLayerBounds(layerBounds geom.Size) {
	if t.layerBounds == layerBounds {
		return
	}
	t.assertPendingTree()
	if layerBounds.Empty() {
		panic("tiling: empty layer bounds")
	}

	oldLayerBounds := t.layerBounds
	t.layerBounds = layerBounds
	contentBounds := geom.ScaleSizeCeil(layerBounds, t.contentsScale)

	tileSize := t.client.TileSizeFor(contentBounds)
	if tileSize != t.grid.TileSize() {
		t.grid.SetTotalSize(contentBounds)
		t.grid.SetTileSize(tileSize)
		t.bundleGrid.SetTotalSize(contentBounds)
		t.bundleGrid.SetTileSize(bundleTileSize(tileSize, t.grid.Border()))
		t.Reset()
		return
	}

	// Tiles outside the new bounds are invalid and must be dropped before
	// the grid totals change under them.
	t.SetLiveTilesRect(t.liveTilesRect.Intersect(geom.RectOfSize(contentBounds)))
	t.grid.SetTotalSize(contentBounds)
	t.bundleGrid.SetTotalSize(contentBounds)

	// Create tiles for newly exposed areas.
	exposed := geom.NewRegion(geom.RectOfSize(layerBounds))
	exposed.Subtract(geom.RectOfSize(oldLayerBounds))
	t.Invalidate(&exposed)
}

// Invalidate drops and recreates the pending-tree tiles under the given
// layer-space region, clipped to the live rect. Removal and recreation run
// as two separate passes: creating a replacement mid-removal could adopt a
// twin tile that the same pass is about to delete.
func (t *Tiling) Invalidate(layerRegion *geom.Region) {
	t.assertPendingTree()

	var newTileKeys [][2]int
	layerRegion.ForEach(func(layerRect geom.Rect) {
		contentRect := geom.ScaleToEnclosingRect(layerRect, t.contentsScale, t.contentsScale)
		contentRect = contentRect.Intersect(t.liveTilesRect)
		if contentRect.Empty() {
			return
		}
		t.grid.ForEachIn(contentRect, func(i, j int) {
			if t.removeTile(PendingTree, i, j) {
				newTileKeys = append(newTileKeys, [2]int{i, j})
			}
		})
	})

	twin := t.client.TwinTiling(t)
	for _, key := range newTileKeys {
		t.createTile(PendingTree, key[0], key[1], twin)
	}
}

// CreateMissingTilesInLiveTilesRect fills cells inside the live rect whose
// pending slot is empty, typically after the client previously declined to
// resource a tile.
func (t *Tiling) CreateMissingTilesInLiveTilesRect() {
	t.assertPendingTree()

	twin := t.client.TwinTiling(t)
	t.grid.ForEachIn(t.liveTilesRect, func(i, j int) {
		if t.TileAt(PendingTree, i, j) != nil {
			return
		}
		t.createTile(PendingTree, i, j, twin)
	})
}

// Reset drops every bundle and clears the live rect.
func (t *Tiling) Reset() {
	t.liveTilesRect = geom.Rect{}
	clear(t.bundles)
}

// DidBecomeRecycled transitions this tiling out of the active stage after
// its twin activated. Bundles drop tile references that the activation
// superseded. The recycled tiling is reused as the next pending tree, so
// the current tree becomes PendingTree.
func (t *Tiling) DidBecomeRecycled() {
	if t.currentTree != ActiveTree {
		panic("tiling: only the active tiling can become recycled")
	}
	// This runs before the twin's DidBecomeActive: it handles tiles that
	// are no longer in the active tree (a pending invalidation replaced
	// them) which activation itself would not touch.
	for _, b := range t.bundles {
		b.DidBecomeRecycled()
	}
	t.currentTree = PendingTree
}

// DidBecomeActive promotes this tiling's pending tree to active. Every
// bundle schedules its slot promotion, and every now-active tile is asked
// to rebind its backing content: a tile that never gets invalidated would
// otherwise keep an unbounded chain of shared backing references alive
// across frames.
func (t *Tiling) DidBecomeActive() {
	t.assertPendingTree()
	for _, b := range t.bundles {
		b.DidBecomeActive()
		b.ForEachTile(ActiveTree, func(tile Tile) {
			t.client.RebindContent(tile)
		})
	}
	t.currentTree = ActiveTree
}

// RefreshPendingContent rebinds the backing content of every pending-tree
// tile without changing tree state. Used when upstream content changed but
// the live rect did not.
func (t *Tiling) RefreshPendingContent() {
	for _, b := range t.bundles {
		b.ForEachTile(PendingTree, func(tile Tile) {
			t.client.RebindContent(tile)
		})
	}
}

// SetCanUseLCDText forwards the subpixel-text toggle to every tile of the
// current tree that supports it.
func (t *Tiling) SetCanUseLCDText(enabled bool) {
	for _, b := range t.bundles {
		b.ForEachTile(t.currentTree, func(tile Tile) {
			if s, ok := tile.(LCDTextSetter); ok {
				s.SetCanUseLCDText(enabled)
			}
		})
	}
}

// OpaqueRegion returns the part of contentRect known to be fully opaque.
// TODO: needs per-tile opacity reporting from the content manager; until
// then every tile is treated as potentially translucent.
func (t *Tiling) OpaqueRegion(contentRect geom.Rect) geom.Region {
	return geom.Region{}
}

// MemoryUsage returns the total resident bytes of every tile referenced by
// this tiling, as self-reported by the tiles.
func (t *Tiling) MemoryUsage() uint64 {
	var total uint64
	for _, b := range t.bundles {
		b.ForEachTileAnyTree(func(tile Tile) {
			total += tile.MemoryUsage()
		})
	}
	return total
}

// NumBundles returns the number of bundle entries currently held.
func (t *Tiling) NumBundles() int { return len(t.bundles) }

// LogValue returns a debug snapshot of the tiling for structured logging.
func (t *Tiling) LogValue() slog.Value {
	content := t.grid.TotalSize()
	return slog.GroupValue(
		slog.Int("num_tile_bundles", len(t.bundles)),
		slog.Float64("contents_scale", t.contentsScale),
		slog.String("content_bounds", fmt.Sprintf("%dx%d", content.W, content.H)),
	)
}

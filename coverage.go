package tiling

import "github.com/gogpu/tiling/geom"

// CoverageIterator walks the tiles overlapped by a destination-space
// rectangle in row-major order, producing for each step the destination
// geometry to draw, the tile backing it (nil when the cell has none), and
// the texture-space mapping. It is the bridge between the tile grid and
// draw-command generation.
//
// Usage follows the scanner pattern:
//
//	for it := t.Coverage(scale, dst); it.Next(); {
//	    quad(it.GeometryRect(), it.Tile(), it.TextureRect())
//	}
//
// The iterator is single-pass and must not be reused after Next returns
// false.
type CoverageIterator struct {
	tiling             *Tiling
	destRect           geom.Rect
	destToContentScale float64
	tree               Tree

	currentTile   Tile
	tileI, tileJ  int
	left, top     int
	right, bottom int
	geometryRect  geom.Rect
}

// Coverage returns an iterator over the tiles needed to draw destRect,
// a rectangle in a destination space whose scale is destScale relative to
// the layer. The destination rect is mapped into this tiling's content
// space, clipped to the grid, and walked left-to-right, top-to-bottom.
func (t *Tiling) Coverage(destScale float64, destRect geom.Rect) *CoverageIterator {
	c := &CoverageIterator{
		tiling:   t,
		destRect: destRect,
		tree:     t.currentTree,
		right:    -1,
		bottom:   -1,
	}
	if destRect.Empty() {
		c.tileJ = 1 // already past the (empty) range
		return c
	}

	c.destToContentScale = t.contentsScale / destScale

	contentRect := geom.ScaleToEnclosingRect(destRect, c.destToContentScale, c.destToContentScale)
	// Index lookups clamp to the valid range, so non-intersection has to be
	// caught before converting coordinates to indices.
	contentRect = contentRect.Intersect(t.ContentRect())
	if contentRect.Empty() {
		c.tileJ = 1
		return c
	}

	c.left = t.grid.TileXIndex(contentRect.X)
	c.top = t.grid.TileYIndex(contentRect.Y)
	c.right = t.grid.TileXIndex(contentRect.Right() - 1)
	c.bottom = t.grid.TileYIndex(contentRect.Bottom() - 1)

	c.tileI = c.left - 1
	c.tileJ = c.top
	return c
}

// Next advances to the next covered cell. It returns false once every cell
// has been produced; the accessors are only valid while Next returns true.
func (c *CoverageIterator) Next() bool {
	if c.tileJ > c.bottom {
		c.currentTile = nil
		return false
	}

	firstTime := c.tileI < c.left
	newRow := false
	c.tileI++
	if c.tileI > c.right {
		c.tileI = c.left
		c.tileJ++
		newRow = true
		if c.tileJ > c.bottom {
			c.currentTile = nil
			return false
		}
	}

	c.currentTile = c.tiling.TileAt(c.tree, c.tileI, c.tileJ)

	lastGeometryRect := c.geometryRect

	contentRect := c.tiling.grid.TileBounds(c.tileI, c.tileJ)
	invScale := 1 / c.destToContentScale
	c.geometryRect = geom.ScaleToEnclosingRect(contentRect, invScale, invScale).
		Intersect(c.destRect)

	if firstTime {
		return true
	}

	// Rounding through ScaleToEnclosingRect can make adjacent geometry
	// rects overlap in destination space. Snap this step's leading edges to
	// the previous step: the left edge to the previous tile's right edge
	// within a row, the top edge to the previous row's bottom at a row
	// start. Running off the bottom-right is already handled by the
	// destRect intersection above.
	var minLeft, minTop int
	if newRow {
		minLeft = c.destRect.X
		minTop = lastGeometryRect.Bottom()
	} else {
		minLeft = lastGeometryRect.Right()
		minTop = lastGeometryRect.Y
	}
	insetLeft := max(0, minLeft-c.geometryRect.X)
	insetTop := max(0, minTop-c.geometryRect.Y)
	c.geometryRect = c.geometryRect.InsetEdges(insetLeft, insetTop, 0, 0)

	return true
}

// GeometryRect returns the destination-space rectangle this step draws.
// Adjacent steps' geometry rects never overlap and leave no gaps.
func (c *CoverageIterator) GeometryRect() geom.Rect {
	return c.geometryRect
}

// Tile returns the tile backing this step, or nil when the cell has no
// tile in the iterated tree.
func (c *CoverageIterator) Tile() Tile {
	return c.currentTile
}

// Index returns the grid cell this step covers.
func (c *CoverageIterator) Index() (i, j int) {
	return c.tileI, c.tileJ
}

// FullTileGeometryRect returns the tile's full allocation footprint in
// content space: the painted origin extended to the full tile size,
// unclipped. Useful for debugging overlays.
func (c *CoverageIterator) FullTileGeometryRect() geom.Rect {
	r := c.tiling.grid.TileBoundsWithBorder(c.tileI, c.tileJ)
	r.W = c.tiling.grid.TileSize().W
	r.H = c.tiling.grid.TileSize().H
	return r
}

// TextureRect returns the texture-space rectangle to sample for this
// step's geometry.
func (c *CoverageIterator) TextureRect() geom.RectF {
	texOrigin := c.tiling.grid.TileBoundsWithBorder(c.tileI, c.tileJ)

	// Destination space => content space => texture space.
	texRect := c.geometryRect.ToRectF().Scale(c.destToContentScale, c.destToContentScale)
	texRect = texRect.Offset(geom.V(-float64(texOrigin.X), -float64(texOrigin.Y)))
	return texRect.Intersect(geom.RectOfSize(c.tiling.grid.TileSize()).ToRectF())
}

// TextureSize returns the tile texture dimensions.
func (c *CoverageIterator) TextureSize() geom.Size {
	return c.tiling.grid.TileSize()
}

// Priority returns the scheduling priority of the bundle containing this
// step's cell, or the never-prioritized default when the cell has no
// bundle.
func (c *CoverageIterator) Priority() TilePriority {
	bundle := c.tiling.BundleContainingTile(c.tileI, c.tileJ)
	if bundle == nil {
		return newPriority()
	}
	return bundle.GetPriority(c.tree)
}

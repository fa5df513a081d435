package tiling

import "github.com/gogpu/tiling/geom"

// Grid maps content-space coordinates onto a grid of fixed-size tiles.
//
// Tiles may carry a border of shared texels: adjacent tiles then overlap by
// 2*border texels so that bilinear filtering at tile seams can sample past
// the tile edge without reading a neighboring allocation. The first and
// last tile in each axis only carry a border on their inner side.
//
// Grid is purely arithmetic: it holds no tile storage and has no side
// effects. The same type describes both the fine tile grid and the coarser
// bundle grid (whose cell size covers a 2x2 block of tiles).
type Grid struct {
	totalSize geom.Size
	tileSize  geom.Size
	border    int

	numTilesX int
	numTilesY int
}

// NewGrid creates a grid covering totalSize with tiles of tileSize and the
// given border thickness in texels.
func NewGrid(totalSize, tileSize geom.Size, border int) Grid {
	g := Grid{border: border}
	g.SetTileSize(tileSize)
	g.SetTotalSize(totalSize)
	return g
}

// SetTotalSize changes the content size covered by the grid.
func (g *Grid) SetTotalSize(s geom.Size) {
	g.totalSize = s
	g.recount()
}

// SetTileSize changes the tile dimensions.
func (g *Grid) SetTileSize(s geom.Size) {
	g.tileSize = s
	g.recount()
}

func (g *Grid) recount() {
	g.numTilesX = computeNumTiles(g.tileSize.W, g.totalSize.W, g.border)
	g.numTilesY = computeNumTiles(g.tileSize.H, g.totalSize.H, g.border)
}

// computeNumTiles returns how many tiles of the given size (minus shared
// border texels) are needed to cover totalSize.
func computeNumTiles(tileSize, totalSize, border int) int {
	if totalSize <= 0 {
		return 0
	}
	inner := tileSize - 2*border
	if inner <= 0 {
		if tileSize >= totalSize {
			return 1
		}
		return 0
	}
	return max(1, 1+(totalSize-1-2*border)/inner)
}

// TotalSize returns the content size covered by the grid.
func (g *Grid) TotalSize() geom.Size { return g.totalSize }

// TileSize returns the tile dimensions including borders.
func (g *Grid) TileSize() geom.Size { return g.tileSize }

// Border returns the border thickness in texels.
func (g *Grid) Border() int { return g.border }

// NumTilesX returns the number of tile columns.
func (g *Grid) NumTilesX() int { return g.numTilesX }

// NumTilesY returns the number of tile rows.
func (g *Grid) NumTilesY() int { return g.numTilesY }

// TileXIndex returns the column of the tile responsible for the given x
// coordinate, clamped to the valid range.
func (g *Grid) TileXIndex(srcX int) int {
	if g.numTilesX <= 1 {
		return 0
	}
	inner := g.tileSize.W - 2*g.border
	return min(max((srcX-g.border)/inner, 0), g.numTilesX-1)
}

// TileYIndex returns the row of the tile responsible for the given y
// coordinate, clamped to the valid range.
func (g *Grid) TileYIndex(srcY int) int {
	if g.numTilesY <= 1 {
		return 0
	}
	inner := g.tileSize.H - 2*g.border
	return min(max((srcY-g.border)/inner, 0), g.numTilesY-1)
}

func (g *Grid) assertTile(i, j int) {
	if i < 0 || i >= g.numTilesX || j < 0 || j >= g.numTilesY {
		panic("tiling: tile index out of range")
	}
}

// TileBounds returns the tile's exclusive bounds: the region of content the
// tile is responsible for, excluding shared border texels. TileBounds of
// all tiles exactly partition the content rectangle.
func (g *Grid) TileBounds(i, j int) geom.Rect {
	g.assertTile(i, j)

	innerW := g.tileSize.W - 2*g.border
	innerH := g.tileSize.H - 2*g.border

	loX := innerW * i
	if i != 0 {
		loX += g.border
	}
	loY := innerH * j
	if j != 0 {
		loY += g.border
	}

	hiX := innerW*(i+1) + g.border
	if i+1 == g.numTilesX {
		hiX += g.border
	}
	hiY := innerH*(j+1) + g.border
	if j+1 == g.numTilesY {
		hiY += g.border
	}

	hiX = min(hiX, g.totalSize.W)
	hiY = min(hiY, g.totalSize.H)
	return geom.Rect{X: loX, Y: loY, W: hiX - loX, H: hiY - loY}
}

// TileBoundsWithBorder returns the tile's bounds expanded by the border on
// every side, clipped to the content rectangle. This is the region a tile
// actually paints.
func (g *Grid) TileBoundsWithBorder(i, j int) geom.Rect {
	bounds := g.TileBounds(i, j).Inset(-g.border, -g.border)
	return bounds.Intersect(geom.RectOfSize(g.totalSize))
}

// TileSizeX returns the exclusive width of the tile in column i.
func (g *Grid) TileSizeX(i int) int {
	g.assertTile(i, 0)
	return g.TileBounds(i, 0).W
}

// TileSizeY returns the exclusive height of the tile in row j.
func (g *Grid) TileSizeY(j int) int {
	g.assertTile(0, j)
	return g.TileBounds(0, j).H
}

// ForEachIn calls fn for every tile index whose exclusive bounds overlap
// rect, in row-major order. The rect is clipped to the grid's total size
// first; an empty clipped rect visits nothing.
func (g *Grid) ForEachIn(rect geom.Rect, fn func(i, j int)) {
	rect = rect.Intersect(geom.RectOfSize(g.totalSize))
	if rect.Empty() {
		return
	}
	left := g.TileXIndex(rect.X)
	top := g.TileYIndex(rect.Y)
	right := g.TileXIndex(rect.Right() - 1)
	bottom := g.TileYIndex(rect.Bottom() - 1)
	for j := top; j <= bottom; j++ {
		for i := left; i <= right; i++ {
			fn(i, j)
		}
	}
}

// ForEachDifference calls fn for every tile index inside consider but
// outside ignore, in row-major order. This drives the live-region diff:
// a viewport move only visits the boundary cells, not the whole region.
func (g *Grid) ForEachDifference(consider, ignore geom.Rect, fn func(i, j int)) {
	consider = consider.Intersect(geom.RectOfSize(g.totalSize))
	if consider.Empty() {
		return
	}
	left := g.TileXIndex(consider.X)
	top := g.TileYIndex(consider.Y)
	right := g.TileXIndex(consider.Right() - 1)
	bottom := g.TileYIndex(consider.Bottom() - 1)

	ignore = ignore.Intersect(geom.RectOfSize(g.totalSize))
	hasIgnore := !ignore.Empty()
	var igLeft, igTop, igRight, igBottom int
	if hasIgnore {
		igLeft = g.TileXIndex(ignore.X)
		igTop = g.TileYIndex(ignore.Y)
		igRight = g.TileXIndex(ignore.Right() - 1)
		igBottom = g.TileYIndex(ignore.Bottom() - 1)
	}

	for j := top; j <= bottom; j++ {
		for i := left; i <= right; i++ {
			if hasIgnore && j >= igTop && j <= igBottom && i >= igLeft && i <= igRight {
				// Skip the rest of the ignored span in this row.
				i = igRight
				continue
			}
			fn(i, j)
		}
	}
}

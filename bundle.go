package tiling

// Bundles group a 2x2 block of adjacent tiles into a single texture
// allocation unit. One TileBundle instance is shared by both twin tilings,
// keyed identically in each, so double buffering never allocates the same
// grid cell region twice.
const (
	bundleWidth  = 2
	bundleHeight = 2
)

// bundleKey identifies a bundle by its position in the bundle grid.
type bundleKey struct {
	col, row int
}

// bundleKeyForTile returns the key of the bundle containing tile (i, j).
func bundleKeyForTile(i, j int) bundleKey {
	return bundleKey{col: i / bundleWidth, row: j / bundleHeight}
}

// TileBundle holds one tile slot per (tree, cell) pair for up to
// bundleWidth x bundleHeight grid cells, plus one priority record per tree.
//
// Tree activation is deferred: DidBecomeActive only schedules the slot
// promotion, and swapTilesIfRequired materializes it lazily on the next
// read. A bundle shared by twin tilings is notified by both, so the
// promotion must be idempotent per activation rather than applied once per
// notification.
type TileBundle struct {
	col, row     int // first tile column and row covered
	spanX, spanY int

	tiles      [numTrees][]Tile
	priorities [numTrees]TilePriority

	swapScheduled bool
}

// NewTileBundle creates a bundle whose top-left tile is (col, row),
// spanning widthCells x heightCells grid cells. Client implementations
// call this from CreateBundle after allocating whatever backing store
// their tiles share.
func NewTileBundle(col, row, widthCells, heightCells int) *TileBundle {
	if widthCells <= 0 || heightCells <= 0 {
		panic("tiling: bundle must span at least one cell")
	}
	b := &TileBundle{
		col:   col,
		row:   row,
		spanX: widthCells,
		spanY: heightCells,
	}
	for tree := range b.tiles {
		b.tiles[tree] = make([]Tile, widthCells*heightCells)
		b.priorities[tree] = newPriority()
	}
	return b
}

// slot returns the intra-bundle index of tile (i, j).
func (b *TileBundle) slot(i, j int) int {
	di := i - b.col
	dj := j - b.row
	if di < 0 || di >= b.spanX || dj < 0 || dj >= b.spanY {
		panic("tiling: tile index outside bundle")
	}
	return dj*b.spanX + di
}

// swapTilesIfRequired materializes a scheduled tree activation: every
// pending slot is promoted to the active slot and cleared, and the pending
// priority moves with it. Runs before any lookup is trusted.
func (b *TileBundle) swapTilesIfRequired() {
	if !b.swapScheduled {
		return
	}
	b.swapScheduled = false
	for cell, tile := range b.tiles[PendingTree] {
		if tile != nil {
			b.tiles[ActiveTree][cell] = tile
			b.tiles[PendingTree][cell] = nil
		}
	}
	b.priorities[ActiveTree] = b.priorities[PendingTree]
	b.priorities[PendingTree] = newPriority()
}

// TileAt returns the tile in the given tree's slot for cell (i, j), or nil
// when the slot is empty.
func (b *TileBundle) TileAt(tree Tree, i, j int) Tile {
	b.swapTilesIfRequired()
	return b.tiles[tree][b.slot(i, j)]
}

// AddTileAt stores a tile in the given tree's slot for cell (i, j).
// The slot must be empty.
func (b *TileBundle) AddTileAt(tree Tree, i, j int, tile Tile) {
	b.swapTilesIfRequired()
	cell := b.slot(i, j)
	if b.tiles[tree][cell] != nil {
		panic("tiling: bundle slot already occupied")
	}
	b.tiles[tree][cell] = tile
}

// RemoveTileAt clears the given tree's slot for cell (i, j) and reports
// whether it was occupied.
func (b *TileBundle) RemoveTileAt(tree Tree, i, j int) bool {
	b.swapTilesIfRequired()
	cell := b.slot(i, j)
	if b.tiles[tree][cell] == nil {
		return false
	}
	b.tiles[tree][cell] = nil
	return true
}

// IsEmpty reports whether no slot in any tree holds a tile.
func (b *TileBundle) IsEmpty() bool {
	b.swapTilesIfRequired()
	for tree := range b.tiles {
		for _, tile := range b.tiles[tree] {
			if tile != nil {
				return false
			}
		}
	}
	return true
}

// GetPriority returns the priority record for the given tree.
func (b *TileBundle) GetPriority(tree Tree) TilePriority {
	b.swapTilesIfRequired()
	return b.priorities[tree]
}

// SetPriority stores the priority record for the given tree.
func (b *TileBundle) SetPriority(tree Tree, p TilePriority) {
	b.swapTilesIfRequired()
	b.priorities[tree] = p
}

// DidBecomeActive schedules promotion of the pending slots to the active
// tree. The promotion itself is deferred to the next read so that a bundle
// shared by twin tilings applies it exactly once.
func (b *TileBundle) DidBecomeActive() {
	b.swapScheduled = true
}

// DidBecomeRecycled drops active slots that a pending replacement is about
// to supersede (the pending tree holds a different tile for the cell, which
// happens when the cell was invalidated this commit). Cells whose pending
// slot was adopted from the active tree are left alone.
func (b *TileBundle) DidBecomeRecycled() {
	b.swapTilesIfRequired()
	for cell, pending := range b.tiles[PendingTree] {
		if pending != nil && pending != b.tiles[ActiveTree][cell] {
			b.tiles[ActiveTree][cell] = nil
		}
	}
	b.priorities[PendingTree] = newPriority()
}

// ForEachTile calls fn for every occupied slot in the given tree, in cell
// order.
func (b *TileBundle) ForEachTile(tree Tree, fn func(Tile)) {
	b.swapTilesIfRequired()
	for _, tile := range b.tiles[tree] {
		if tile != nil {
			fn(tile)
		}
	}
}

// ForEachTileAnyTree calls fn for every occupied slot in every tree. A tile
// shared between both trees is visited once.
func (b *TileBundle) ForEachTileAnyTree(fn func(Tile)) {
	b.swapTilesIfRequired()
	for cell, active := range b.tiles[ActiveTree] {
		if active != nil {
			fn(active)
		}
		if pending := b.tiles[PendingTree][cell]; pending != nil && pending != active {
			fn(pending)
		}
	}
}

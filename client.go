package tiling

import "github.com/gogpu/tiling/geom"

// Client is the tile content manager the engine calls into. All methods are
// invoked synchronously on the compositor thread and must complete without
// suspending; the engine does not tolerate a blocking client call.
//
// The manager package provides a reference in-process implementation.
type Client interface {
	// TileSizeFor returns the tile dimensions (including border texels) the
	// client wants for the given content size. Must be deterministic: the
	// engine compares results across bounds changes to decide whether the
	// whole grid must be rebuilt.
	TileSizeFor(contentSize geom.Size) geom.Size

	// CreateTile produces a new tile covering allocRect in t's content
	// space. A nil result means the tile is not yet resourced; the engine
	// leaves the slot empty and will retry on a later create pass.
	CreateTile(t *Tiling, allocRect geom.Rect) Tile

	// CreateBundle allocates the backing store for a bundle whose top-left
	// tile is (col, row) spanning widthCells x heightCells grid cells.
	// Must return a usable bundle; ownership is shared with the tiling.
	CreateBundle(col, row, widthCells, heightCells int) *TileBundle

	// TwinTiling returns the tiling representing the same layer and scale
	// in the other tree, or nil when there is none.
	TwinTiling(t *Tiling) *Tiling

	// Invalidation returns the invalidation region pending for the current
	// commit, in un-scaled layer coordinates. The engine consults it when
	// deciding whether a twin's tile can be adopted unchanged.
	Invalidation() *geom.Region

	// RebindContent asks the tile to take its own reference to its backing
	// content, breaking any chain of shared backing references.
	// Fire-and-forget; never fails.
	RebindContent(tile Tile)
}

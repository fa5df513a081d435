package tiling

// Tile is an opaque unit of raster content owned by the tile content
// manager. The engine only keys tiles by (tree, column, row) inside a
// bundle and forwards them between trees when their content is unchanged;
// it never inspects pixel data.
//
// Tiles are reference-shared: while a tile sits in a bundle slot, ownership
// is shared between the bundle and whatever the content manager holds.
type Tile interface {
	// MemoryUsage returns the tile's resident memory in bytes, as reported
	// by the content manager. Used only for the tiling-wide estimate.
	MemoryUsage() uint64
}

// LCDTextSetter is implemented by tiles whose raster path can toggle
// subpixel text rendering. Tiles that do not implement it are skipped by
// Tiling.SetCanUseLCDText.
type LCDTextSetter interface {
	SetCanUseLCDText(enabled bool)
}

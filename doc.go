// Package tiling manages the tile grids of a layered, double-buffered
// rendering pipeline.
//
// # Overview
//
// A Tiling partitions one layer's content, rasterized at a fixed scale,
// into fixed-size tiles. It decides which tiles must exist (the live
// region), shares tile storage between the in-progress pending tree and
// the displayed active tree so double buffering never rasters a cell
// twice, computes a per-frame scheduling priority for every tile bundle
// from its predicted time to visibility, and maps arbitrary destination
// rectangles back onto the grid for draw-command generation.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/tiling"
//	    "github.com/gogpu/tiling/geom"
//	    "github.com/gogpu/tiling/manager"
//	)
//
//	mgr := manager.New()
//	t := tiling.New(1.0, geom.Sz(2048, 2048), mgr,
//	    tiling.WithResolution(tiling.HighResolution))
//
//	// Once per frame:
//	t.UpdatePriorities(frameInfo)
//
//	// Draw:
//	for it := t.Coverage(1.0, viewport); it.Next(); {
//	    draw(it.GeometryRect(), it.Tile(), it.TextureRect())
//	}
//
// # Architecture
//
// The library is organized into:
//   - Public API: Tiling, TileBundle, CoverageIterator, TilePriority
//   - geom: rectangle, region and transform value types
//   - manager: a reference in-process tile content manager
//
// Tile pixel content, GPU residency and cross-process transport are owned
// by the Client (see manager for a software implementation); the engine
// only orchestrates which tiles exist and how urgent they are.
//
// # Concurrency
//
// A Tiling and everything reachable from it belong to a single logical
// thread (the compositor thread). No method of Tiling, TileBundle or
// CoverageIterator may be called concurrently; the engine takes no locks.
// Client implementations that raster on worker goroutines must deliver
// results synchronously with respect to the compositor thread.
package tiling

// Package manager provides a reference in-process tile content manager
// for the tiling engine.
//
// Manager implements tiling.Client with software raster tiles backed by
// image.RGBA pixel buffers and described by gputypes texture descriptors,
// so a GPU uploader can consume them without further translation. It is
// meant for tests, tools and the demo; a production compositor supplies
// its own Client with real raster and resource management.
//
// All tiling.Client methods run synchronously on the compositor thread.
// Only Flush uses worker goroutines, and it returns after every tile is
// rastered, preserving the engine's single-threaded model.
package manager

package manager

import (
	"context"
	"image"
	"math"
	"runtime"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/tiling"
)

// Flush rasterizes every dirty tile and returns once all are complete.
// Tiles render concurrently across min(GOMAXPROCS, dirty) workers; each
// worker writes only its own tile's buffer. Returns the context error if
// ctx is cancelled before all tiles finish.
func (m *Manager) Flush(ctx context.Context) error {
	if len(m.dirty) == 0 {
		return nil
	}

	work := m.dirty
	m.dirty = nil

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, tile := range work {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m.raster(tile)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Unrastered tiles stay dirty for the next flush.
		for _, tile := range work {
			if tile.dirty {
				m.dirty = append(m.dirty, tile)
			}
		}
		return err
	}

	tiling.Logger().Debug("flushed raster tiles", "count", len(work))
	return nil
}

// DirtyTiles returns the number of tiles awaiting raster.
func (m *Manager) DirtyTiles() int { return len(m.dirty) }

// raster fills a tile's buffer from its bound source image. The tile's
// content-space allocation rect is mapped back to layer space and the
// matching source region is scaled into the buffer. Pixels outside the
// source bounds come out transparent.
func (m *Manager) raster(t *RasterTile) {
	if t.pix == nil {
		return
	}
	src := t.src
	if src == nil {
		src = m.source
	}
	if src == nil {
		clear(t.pix.Pix)
		t.dirty = false
		return
	}

	inv := 1 / t.scale
	srcRect := image.Rect(
		int(math.Floor(float64(t.allocRect.X)*inv)),
		int(math.Floor(float64(t.allocRect.Y)*inv)),
		int(math.Ceil(float64(t.allocRect.Right())*inv)),
		int(math.Ceil(float64(t.allocRect.Bottom())*inv)),
	)
	xdraw.ApproxBiLinear.Scale(t.pix, t.pix.Bounds(), src, srcRect, xdraw.Src, nil)
	t.dirty = false
}

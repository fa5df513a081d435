package manager

import (
	"image"
	"sync"
)

// bufferPool provides efficient reuse of RGBA pixel buffers via sync.Pool.
//
// Tiles of a tiling all share one size, so a single hot pool covers the
// common case; edge tilings with clamped sizes fall back to per-size
// pools created on demand.
//
// Thread safety: bufferPool is safe for concurrent use.
type bufferPool struct {
	// pools holds separate sync.Pool instances per buffer size.
	// Key format: (width << 16) | height
	pools sync.Map
}

// Get retrieves a zeroed width x height RGBA buffer from the pool or
// allocates a new one. Returns nil for non-positive dimensions.
func (p *bufferPool) Get(width, height int) *image.RGBA {
	if width <= 0 || height <= 0 {
		return nil
	}

	pool := p.getOrCreatePool(poolKey(width, height), width, height)
	img := pool.Get().(*image.RGBA)
	clear(img.Pix)
	return img
}

// Put returns a buffer to the pool for reuse.
// If img is nil, this is a no-op.
func (p *bufferPool) Put(img *image.RGBA) {
	if img == nil {
		return
	}

	key := poolKey(img.Rect.Dx(), img.Rect.Dy())
	if pool, ok := p.pools.Load(key); ok {
		pool.(*sync.Pool).Put(img)
	}
	// If the pool doesn't exist, let GC reclaim the buffer.
}

// poolKey creates a unique key for a buffer size.
// Width and height are clamped to 16-bit values to prevent overflow.
func poolKey(width, height int) uint32 {
	w := min(width, 0xFFFF)
	h := min(height, 0xFFFF)
	return uint32(w)<<16 | uint32(h)
}

// getOrCreatePool gets or creates a sync.Pool for the given dimensions.
func (p *bufferPool) getOrCreatePool(key uint32, width, height int) *sync.Pool {
	if pool, ok := p.pools.Load(key); ok {
		return pool.(*sync.Pool)
	}

	newPool := &sync.Pool{
		New: func() any {
			return image.NewRGBA(image.Rect(0, 0, width, height))
		},
	}

	// Try to store; if another goroutine beat us, use theirs.
	actual, _ := p.pools.LoadOrStore(key, newPool)
	return actual.(*sync.Pool)
}

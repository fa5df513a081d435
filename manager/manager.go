package manager

import (
	"image"

	"github.com/gogpu/tiling"
	"github.com/gogpu/tiling/geom"
)

// defaultTileEdge is the inner tile edge length, border texels excluded.
const defaultTileEdge = 256

// Manager is an in-process tile content manager implementing
// tiling.Client. It allocates RasterTile resources against an optional
// memory budget, tracks the pending invalidation region, pairs twin
// tilings across the pending and active trees, and rasterizes tile
// content from a layer-space source image.
//
// A Manager serves any number of tilings. Client methods must be called
// from a single goroutine; only Flush spawns workers.
type Manager struct {
	tileEdge geom.Size
	border   int
	budget   uint64
	source   image.Image

	pool         bufferPool
	invalidation geom.Region
	served       map[*tiling.Tiling]struct{}
	twins        map[*tiling.Tiling]*tiling.Tiling
	dirty        []*RasterTile
}

// Option configures a Manager.
type Option func(*Manager)

// WithTileEdge sets the inner tile dimensions, border texels excluded.
// Non-positive dimensions are ignored.
func WithTileEdge(size geom.Size) Option {
	return func(m *Manager) {
		if size.W > 0 && size.H > 0 {
			m.tileEdge = size
		}
	}
}

// WithBorderTexels sets the border the manager adds around each tile.
// It must match the border the served tilings are created with.
// Negative values are ignored.
func WithBorderTexels(texels int) Option {
	return func(m *Manager) {
		if texels >= 0 {
			m.border = texels
		}
	}
}

// WithMemoryBudget caps the total resident tile bytes across all served
// tilings. Zero means unlimited.
func WithMemoryBudget(bytes uint64) Option {
	return func(m *Manager) { m.budget = bytes }
}

// WithSource sets the layer-space source image tiles rasterize from.
func WithSource(src image.Image) Option {
	return func(m *Manager) { m.source = src }
}

// New creates a Manager with a 256x256 inner tile size, a one texel
// border, and no memory budget.
func New(opts ...Option) *Manager {
	m := &Manager{
		tileEdge: geom.Sz(defaultTileEdge, defaultTileEdge),
		border:   1,
		served:   make(map[*tiling.Tiling]struct{}),
		twins:    make(map[*tiling.Tiling]*tiling.Tiling),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetSource replaces the layer-space source image. Existing tiles keep
// rendering whatever source they were bound to; tiles rastered after
// this call use the new source.
func (m *Manager) SetSource(src image.Image) { m.source = src }

// TileSizeFor returns the tile dimensions for the given content size.
// Tiles never exceed the content in either axis, so single-tile layers
// get exactly one tightly sized tile. The border is added on top.
func (m *Manager) TileSizeFor(contentSize geom.Size) geom.Size {
	w := min(m.tileEdge.W, contentSize.W)
	h := min(m.tileEdge.H, contentSize.H)
	return geom.Sz(w+2*m.border, h+2*m.border)
}

// CreateTile allocates a raster tile covering allocRect in t's content
// space. Returns nil when the allocation would exceed the memory budget;
// the engine retries on a later create pass.
func (m *Manager) CreateTile(t *tiling.Tiling, allocRect geom.Rect) tiling.Tile {
	bytes := uint64(allocRect.W) * uint64(allocRect.H) * rgbaBytesPerPixel
	if m.budget > 0 && m.ResidentBytes()+bytes > m.budget {
		tiling.Logger().Debug("tile allocation denied",
			"alloc_rect", allocRect,
			"budget", m.budget)
		return nil
	}

	tile := newRasterTile(&m.pool, allocRect, t.ContentsScale())
	m.dirty = append(m.dirty, tile)
	return tile
}

// CreateBundle allocates the backing store for a 2x2 tile bundle.
func (m *Manager) CreateBundle(col, row, widthCells, heightCells int) *tiling.TileBundle {
	return tiling.NewTileBundle(col, row, widthCells, heightCells)
}

// TwinTiling returns t's registered twin, or nil.
func (m *Manager) TwinTiling(t *tiling.Tiling) *tiling.Tiling {
	return m.twins[t]
}

// Register adds t to the set of tilings counted against the memory
// budget. Tilings registered as twins are counted automatically.
func (m *Manager) Register(t *tiling.Tiling) {
	m.served[t] = struct{}{}
}

// Unregister removes t from budget accounting and the twin registry.
func (m *Manager) Unregister(t *tiling.Tiling) {
	delete(m.served, t)
	if other, ok := m.twins[t]; ok {
		delete(m.twins, other)
	}
	delete(m.twins, t)
}

// RegisterTwins pairs a pending tiling with its active counterpart so
// each resolves the other as its twin.
func (m *Manager) RegisterTwins(a, b *tiling.Tiling) {
	m.Register(a)
	m.Register(b)
	m.twins[a] = b
	m.twins[b] = a
}

// Invalidation returns the invalidation region pending for the current
// commit, in layer coordinates.
func (m *Manager) Invalidation() *geom.Region { return &m.invalidation }

// AddInvalidation records a dirty layer-space rect for the next commit.
func (m *Manager) AddInvalidation(layerRect geom.Rect) {
	m.invalidation.Union(layerRect)
}

// ClearInvalidation resets the pending invalidation region. Call after
// the commit's tilings have been invalidated and re-created.
func (m *Manager) ClearInvalidation() { m.invalidation.Clear() }

// RebindContent pins the tile to the current source image so later
// SetSource calls do not change what it renders.
func (m *Manager) RebindContent(tile tiling.Tile) {
	rt, ok := tile.(*RasterTile)
	if !ok {
		return
	}
	if rt.src == nil {
		rt.src = m.source
	}
}

// ReleaseTile returns a tile's pixel buffer to the pool. Only call once
// the tile is no longer referenced by any tiling.
func (m *Manager) ReleaseTile(tile tiling.Tile) {
	rt, ok := tile.(*RasterTile)
	if !ok || rt.pix == nil {
		return
	}
	m.pool.Put(rt.pix)
	rt.pix = nil
}

// ResidentBytes sums tile memory across every registered tiling. Twin
// tilings share bundles while a commit is in flight, so a shared tile
// may briefly count twice; the budget absorbs that as slack.
func (m *Manager) ResidentBytes() uint64 {
	var total uint64
	for t := range m.served {
		total += t.MemoryUsage()
	}
	return total
}

package manager

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/gogpu/tiling"
	"github.com/gogpu/tiling/geom"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestTileSizeFor(t *testing.T) {
	tests := []struct {
		name    string
		edge    geom.Size
		border  int
		content geom.Size
		want    geom.Size
	}{
		{"large layer", geom.Sz(256, 256), 1, geom.Sz(1000, 1000), geom.Sz(258, 258)},
		{"borderless", geom.Sz(256, 256), 0, geom.Sz(1000, 1000), geom.Sz(256, 256)},
		{"small layer clamps", geom.Sz(256, 256), 1, geom.Sz(100, 80), geom.Sz(102, 82)},
		{"one axis clamps", geom.Sz(256, 256), 0, geom.Sz(1000, 40), geom.Sz(256, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(WithTileEdge(tt.edge), WithBorderTexels(tt.border))
			if got := m.TileSizeFor(tt.content); got != tt.want {
				t.Errorf("TileSizeFor(%v) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}

func TestTileSizeForIsDeterministic(t *testing.T) {
	m := New()
	content := geom.Sz(777, 333)
	first := m.TileSizeFor(content)
	for i := 0; i < 3; i++ {
		if got := m.TileSizeFor(content); got != first {
			t.Fatalf("TileSizeFor changed between calls: %v -> %v", first, got)
		}
	}
}

func TestCreateTileDescriptor(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(64, 64)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(64, 64), m, tiling.WithBorderTexels(0))

	tile := m.CreateTile(tl, geom.Rc(0, 0, 64, 64))
	rt, ok := tile.(*RasterTile)
	if !ok {
		t.Fatalf("CreateTile returned %T, want *RasterTile", tile)
	}
	desc := rt.Descriptor()
	if desc.Size.Width != 64 || desc.Size.Height != 64 {
		t.Errorf("descriptor size %dx%d, want 64x64", desc.Size.Width, desc.Size.Height)
	}
	if got, want := rt.MemoryUsage(), uint64(64*64*4); got != want {
		t.Errorf("MemoryUsage() = %d, want %d", got, want)
	}
	if !rt.Dirty() {
		t.Error("fresh tile not marked dirty")
	}
}

func TestMemoryBudgetDeniesAllocation(t *testing.T) {
	// Budget for exactly one 10x10 RGBA tile.
	m := New(
		WithTileEdge(geom.Sz(10, 10)),
		WithBorderTexels(0),
		WithMemoryBudget(10*10*4),
	)
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	m.Register(tl)

	tl.SetLiveTilesRect(tl.ContentRect())

	resident := 0
	for j := 0; j < 2; j++ {
		for i := 0; i < 2; i++ {
			if tl.TileAt(tiling.PendingTree, i, j) != nil {
				resident++
			}
		}
	}
	if resident != 1 {
		t.Errorf("%d tiles resident under a one-tile budget, want 1", resident)
	}
	if got, want := m.ResidentBytes(), uint64(400); got != want {
		t.Errorf("ResidentBytes() = %d, want %d", got, want)
	}
}

func TestUnlimitedBudget(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	m.Register(tl)

	tl.SetLiveTilesRect(tl.ContentRect())
	if got, want := m.ResidentBytes(), uint64(4*400); got != want {
		t.Errorf("ResidentBytes() = %d, want %d", got, want)
	}
}

func TestInvalidationAccumulates(t *testing.T) {
	m := New()
	m.AddInvalidation(geom.Rc(0, 0, 10, 10))
	m.AddInvalidation(geom.Rc(50, 50, 10, 10))

	if !m.Invalidation().Intersects(geom.Rc(5, 5, 1, 1)) {
		t.Error("first invalidation rect missing")
	}
	if !m.Invalidation().Intersects(geom.Rc(55, 55, 1, 1)) {
		t.Error("second invalidation rect missing")
	}
	if m.Invalidation().Intersects(geom.Rc(30, 30, 1, 1)) {
		t.Error("invalidation covers an untouched area")
	}

	m.ClearInvalidation()
	if !m.Invalidation().Empty() {
		t.Error("invalidation not empty after ClearInvalidation")
	}
}

func TestTwinRegistry(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	a := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	b := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))

	if m.TwinTiling(a) != nil {
		t.Error("unpaired tiling has a twin")
	}
	m.RegisterTwins(a, b)
	if m.TwinTiling(a) != b || m.TwinTiling(b) != a {
		t.Error("twin registry not symmetric")
	}
	m.Unregister(a)
	if m.TwinTiling(a) != nil || m.TwinTiling(b) != nil {
		t.Error("pairing survived Unregister")
	}
}

func TestFlushRastersFromSource(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	m := New(
		WithTileEdge(geom.Sz(10, 10)),
		WithBorderTexels(0),
		WithSource(solidImage(20, 20, red)),
	)
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	m.Register(tl)
	tl.SetLiveTilesRect(tl.ContentRect())

	if got := m.DirtyTiles(); got != 4 {
		t.Fatalf("DirtyTiles() = %d before flush, want 4", got)
	}
	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	if got := m.DirtyTiles(); got != 0 {
		t.Errorf("DirtyTiles() = %d after flush, want 0", got)
	}

	rt := tl.TileAt(tiling.PendingTree, 1, 1).(*RasterTile)
	if rt.Dirty() {
		t.Error("tile still dirty after flush")
	}
	if got := rt.Pixels().RGBAAt(5, 5); got != red {
		t.Errorf("rastered pixel = %v, want %v", got, red)
	}
}

func TestFlushWithoutSourceClears(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	m.Register(tl)
	tl.SetLiveTilesRect(tl.ContentRect())

	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	rt := tl.TileAt(tiling.PendingTree, 0, 0).(*RasterTile)
	if got := rt.Pixels().RGBAAt(3, 3); got != (color.RGBA{}) {
		t.Errorf("sourceless raster produced %v, want transparent", got)
	}
}

func TestFlushCancelledContext(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	m.Register(tl)
	tl.SetLiveTilesRect(tl.ContentRect())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Flush(ctx); err == nil {
		t.Fatal("Flush with a cancelled context returned nil")
	}
	// Unrastered tiles are retried on the next flush.
	if got := m.DirtyTiles(); got == 0 {
		t.Error("cancelled flush dropped its dirty tiles")
	}
	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("retry Flush() = %v", err)
	}
	if got := m.DirtyTiles(); got != 0 {
		t.Errorf("DirtyTiles() = %d after retry, want 0", got)
	}
}

func TestRebindContentPinsSource(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}
	m := New(
		WithTileEdge(geom.Sz(10, 10)),
		WithBorderTexels(0),
		WithSource(solidImage(20, 20, red)),
	)
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))
	tile := m.CreateTile(tl, geom.Rc(0, 0, 10, 10))

	m.RebindContent(tile)
	m.SetSource(solidImage(20, 20, blue))

	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	rt := tile.(*RasterTile)
	if got := rt.Pixels().RGBAAt(5, 5); got != red {
		t.Errorf("rebound tile rastered %v, want the pinned source color %v", got, red)
	}
}

func TestReleaseTileReturnsBuffer(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))

	tile := m.CreateTile(tl, geom.Rc(0, 0, 10, 10))
	rt := tile.(*RasterTile)
	if rt.Pixels() == nil {
		t.Fatal("fresh tile has no pixel buffer")
	}
	m.ReleaseTile(tile)
	if rt.Pixels() != nil {
		t.Error("released tile still holds its pixel buffer")
	}
	// Releasing twice is a no-op.
	m.ReleaseTile(tile)
}

func TestBufferPoolReuse(t *testing.T) {
	var p bufferPool
	a := p.Get(32, 16)
	if a == nil || a.Rect.Dx() != 32 || a.Rect.Dy() != 16 {
		t.Fatalf("Get(32, 16) = %v", a)
	}
	a.Pix[0] = 0xFF
	p.Put(a)

	b := p.Get(32, 16)
	if b.Pix[0] != 0 {
		t.Error("pooled buffer not zeroed on reuse")
	}
	if got := p.Get(0, 5); got != nil {
		t.Errorf("Get(0, 5) = %v, want nil", got)
	}
}

func TestLCDTextToggleMarksDirty(t *testing.T) {
	m := New(WithTileEdge(geom.Sz(10, 10)), WithBorderTexels(0))
	tl := tiling.New(1, geom.Sz(20, 20), m, tiling.WithBorderTexels(0))

	rt := m.CreateTile(tl, geom.Rc(0, 0, 10, 10)).(*RasterTile)
	if err := m.Flush(context.Background()); err != nil {
		t.Fatalf("Flush() = %v", err)
	}
	if rt.Dirty() {
		t.Fatal("tile dirty after flush")
	}

	rt.SetCanUseLCDText(true)
	if !rt.Dirty() {
		t.Error("LCD toggle did not mark the tile dirty")
	}
	rt.SetCanUseLCDText(true)
	if !rt.CanUseLCDText() {
		t.Error("LCD setting lost")
	}
}

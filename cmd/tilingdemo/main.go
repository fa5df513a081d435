// Command tilingdemo drives the tiling engine through a scripted scroll
// scenario and writes the final composited viewport as a PNG.
//
// The scenario (layer size, viewport, scroll speed, tile budget) is read
// from a TOML file; every field has a sensible default so the command
// also runs with no config at all.
//
// Usage:
//
//	tilingdemo --config scenario.toml --output out.png
//	tilingdemo --frames 120 --verbose
package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/tiling"
	"github.com/gogpu/tiling/geom"
	"github.com/gogpu/tiling/manager"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		if errors.Is(err, context.Canceled) {
			os.Exit(130)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// scenario is the TOML-configurable demo script.
type scenario struct {
	LayerWidth    int     `toml:"layer_width"`
	LayerHeight   int     `toml:"layer_height"`
	ContentsScale float64 `toml:"contents_scale"`
	TileEdge      int     `toml:"tile_edge"`
	BorderTexels  int     `toml:"border_texels"`
	Frames        int     `toml:"frames"`
	MaxTiles      int     `toml:"max_tiles"`
	BudgetBytes   uint64  `toml:"budget_bytes"`

	Viewport struct {
		Width  int     `toml:"width"`
		Height int     `toml:"height"`
		SpeedX float64 `toml:"speed_x"`
		SpeedY float64 `toml:"speed_y"`
	} `toml:"viewport"`
}

func defaultScenario() scenario {
	s := scenario{
		LayerWidth:    2048,
		LayerHeight:   1536,
		ContentsScale: 1.0,
		TileEdge:      256,
		BorderTexels:  1,
		Frames:        60,
		MaxTiles:      64,
	}
	s.Viewport.Width = 1024
	s.Viewport.Height = 768
	s.Viewport.SpeedX = 40
	s.Viewport.SpeedY = 16
	return s
}

func loadScenario(path string) (scenario, error) {
	s := defaultScenario()
	if path == "" {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return s, fmt.Errorf("load scenario: %w", err)
	}
	return s, nil
}

func run(ctx context.Context) error {
	var (
		configPath string
		outputPath string
		frames     int
		verbose    bool
	)

	root := &cobra.Command{
		Use:          "tilingdemo",
		Short:        "Drive the tiling engine through a scripted scroll",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level := charmlog.InfoLevel
			if verbose {
				level = charmlog.DebugLevel
			}
			logger := charmlog.NewWithOptions(os.Stderr, charmlog.Options{
				ReportTimestamp: true,
				TimeFormat:      "15:04:05.00",
				Level:           level,
			})
			tiling.SetLogger(slog.New(logger))

			s, err := loadScenario(configPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frames") {
				s.Frames = frames
			}
			return runScenario(cmd.Context(), s, outputPath)
		},
	}

	root.Flags().StringVarP(&configPath, "config", "c", "", "scenario TOML file")
	root.Flags().StringVarP(&outputPath, "output", "o", "tilingdemo.png", "output PNG path")
	root.Flags().IntVar(&frames, "frames", 60, "number of frames to simulate")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")

	return root.ExecuteContext(ctx)
}

func runScenario(ctx context.Context, s scenario, outputPath string) error {
	logger := tiling.Logger()

	src := checkerboard(s.LayerWidth, s.LayerHeight, 64)
	mgr := manager.New(
		manager.WithTileEdge(geom.Sz(s.TileEdge, s.TileEdge)),
		manager.WithBorderTexels(s.BorderTexels),
		manager.WithMemoryBudget(s.BudgetBytes),
		manager.WithSource(src),
	)

	layerBounds := geom.Sz(s.LayerWidth, s.LayerHeight)
	opts := []tiling.Option{
		tiling.WithResolution(tiling.HighResolution),
		tiling.WithBorderTexels(s.BorderTexels),
	}
	pending := tiling.New(s.ContentsScale, layerBounds, mgr, opts...)
	active := tiling.New(s.ContentsScale, layerBounds, mgr, opts...)
	mgr.RegisterTwins(pending, active)

	// The second tiling starts out as the displayed tree.
	active.DidBecomeActive()

	viewport := geom.Sz(s.Viewport.Width, s.Viewport.Height)
	transform := geom.IdentityTransform()
	for frame := 0; frame < s.Frames; frame++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		frameTime := float64(frame) / 60
		scrollX := int(s.Viewport.SpeedX * float64(frame) / 60)
		scrollY := int(s.Viewport.SpeedY * float64(frame) / 60)
		visible := geom.Rc(scrollX, scrollY, viewport.W, viewport.H).
			Intersect(geom.RectOfSize(layerBounds))

		lastTransform := transform
		transform = geom.TranslationTransform(-float64(scrollX), -float64(scrollY))

		info := tiling.FrameInfo{
			DeviceViewport:          viewport,
			ViewportInLayerSpace:    visible,
			VisibleLayerRect:        visible,
			LastLayerBounds:         layerBounds,
			CurrentLayerBounds:      layerBounds,
			LastContentsScale:       s.ContentsScale,
			CurrentContentsScale:    s.ContentsScale,
			LastScreenTransform:     lastTransform,
			CurrentScreenTransform:  transform,
			FrameTime:               frameTime,
			MaxTilesForInterestArea: s.MaxTiles,
		}

		// Build the pending tree: pick up invalidation, materialize tiles
		// in the interest area, raster them.
		mgr.AddInvalidation(geom.Rc(scrollX%s.LayerWidth, 0, 32, 32))
		pending.Invalidate(mgr.Invalidation())
		mgr.ClearInvalidation()

		info.Tree = tiling.PendingTree
		pending.UpdatePriorities(info)
		pending.CreateMissingTilesInLiveTilesRect()

		info.Tree = tiling.ActiveTree
		active.UpdatePriorities(info)

		if err := mgr.Flush(ctx); err != nil {
			return fmt.Errorf("raster frame %d: %w", frame, err)
		}

		// Activate: the displayed tree recycles into the next pending
		// tree and the freshly built tree takes over display.
		active.DidBecomeRecycled()
		pending.DidBecomeActive()
		pending, active = active, pending

		logger.Debug("frame complete",
			"frame", frame,
			"bundles", active.NumBundles(),
			"resident_bytes", mgr.ResidentBytes())
	}

	finalScrollX := int(s.Viewport.SpeedX * float64(s.Frames-1) / 60)
	finalScrollY := int(s.Viewport.SpeedY * float64(s.Frames-1) / 60)
	dest := geom.Rc(finalScrollX, finalScrollY, viewport.W, viewport.H)
	out := composite(active, s.ContentsScale, dest)
	if err := writePNG(outputPath, out); err != nil {
		return err
	}

	logger.Info("scenario complete",
		"frames", s.Frames,
		"bundles", active.NumBundles(),
		"resident_bytes", mgr.ResidentBytes(),
		"output", outputPath)
	return nil
}

// composite draws the tiles covering dest into one viewport-sized image.
func composite(t *tiling.Tiling, scale float64, dest geom.Rect) *image.RGBA {
	out := image.NewRGBA(image.Rect(0, 0, dest.W, dest.H))
	for it := t.Coverage(scale, dest); it.Next(); {
		rt, ok := it.Tile().(*manager.RasterTile)
		if !ok || rt == nil {
			continue
		}
		geo := it.GeometryRect()
		tex := it.TextureRect()
		dstRect := image.Rect(
			geo.X-dest.X, geo.Y-dest.Y,
			geo.Right()-dest.X, geo.Bottom()-dest.Y)
		srcRect := image.Rect(
			int(tex.X), int(tex.Y),
			int(tex.X+tex.W), int(tex.Y+tex.H))
		xdraw.ApproxBiLinear.Scale(out, dstRect, rt.Pixels(), srcRect, xdraw.Src, nil)
	}
	return out
}

// checkerboard builds a layer-space source image with an 8x8 pattern of
// alternating cells overlaid with a horizontal gradient.
func checkerboard(w, h, cell int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += cell {
		for x := 0; x < w; x += cell {
			c := color.RGBA{R: uint8(255 * x / w), G: 64, B: 192, A: 255}
			if (x/cell+y/cell)%2 == 0 {
				c = color.RGBA{R: 32, G: uint8(255 * y / h), B: 96, A: 255}
			}
			r := image.Rect(x, y, min(x+cell, w), min(y+cell, h))
			draw.Draw(img, r, image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return img
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write png: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("write png: %w", err)
	}
	return f.Close()
}

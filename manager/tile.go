package manager

import (
	"image"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/tiling/geom"
)

// rgbaBytesPerPixel matches gputypes.TextureFormatRGBA8Unorm.
const rgbaBytesPerPixel = 4

// RasterTile is a software tile resource. It owns an RGBA pixel buffer
// sized to its allocation rect and carries the texture descriptor a GPU
// uploader would create for it.
//
// RasterTile implements tiling.Tile and the optional LCD text interface.
type RasterTile struct {
	desc      gputypes.TextureDescriptor
	pix       *image.RGBA
	allocRect geom.Rect
	scale     float64

	// src is the pinned source image, set by RebindContent. When nil the
	// tile rasters from the manager's current source.
	src image.Image

	dirty         bool
	canUseLCDText bool
}

func newRasterTile(pool *bufferPool, allocRect geom.Rect, scale float64) *RasterTile {
	return &RasterTile{
		desc: gputypes.TextureDescriptor{
			Label: "tiling-raster-tile",
			Size: gputypes.Extent3D{
				Width:              uint32(allocRect.W),
				Height:             uint32(allocRect.H),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        gputypes.TextureFormatRGBA8Unorm,
			Usage:         gputypes.TextureUsageCopyDst | gputypes.TextureUsageTextureBinding,
		},
		pix:       pool.Get(allocRect.W, allocRect.H),
		allocRect: allocRect,
		scale:     scale,
		dirty:     true,
	}
}

// Descriptor returns the texture descriptor for uploading this tile.
func (t *RasterTile) Descriptor() gputypes.TextureDescriptor { return t.desc }

// Pixels returns the tile's backing RGBA buffer.
// The buffer origin corresponds to the allocation rect origin.
func (t *RasterTile) Pixels() *image.RGBA { return t.pix }

// AllocRect returns the content-space rect of the tile's allocation,
// border texels included.
func (t *RasterTile) AllocRect() geom.Rect { return t.allocRect }

// ContentsScale returns the contents scale the tile was rastered at.
func (t *RasterTile) ContentsScale() float64 { return t.scale }

// Dirty reports whether the tile needs rastering before upload.
func (t *RasterTile) Dirty() bool { return t.dirty }

// MemoryUsage returns the tile's resource footprint in bytes.
func (t *RasterTile) MemoryUsage() uint64 {
	return uint64(t.allocRect.W) * uint64(t.allocRect.H) * rgbaBytesPerPixel
}

// SetCanUseLCDText marks whether subpixel text rendering is permitted.
// Changing the setting invalidates any rastered content.
func (t *RasterTile) SetCanUseLCDText(ok bool) {
	if t.canUseLCDText == ok {
		return
	}
	t.canUseLCDText = ok
	t.dirty = true
}

// CanUseLCDText reports the current subpixel text permission.
func (t *RasterTile) CanUseLCDText() bool { return t.canUseLCDText }

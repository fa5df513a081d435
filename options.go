package tiling

// Option configures a Tiling during creation.
//
// Example:
//
//	t := tiling.New(1.0, bounds, client,
//	    tiling.WithResolution(tiling.HighResolution))
type Option func(*options)

// options holds optional configuration for Tiling creation.
type options struct {
	resolution   Resolution
	borderTexels int
}

// defaultOptions returns the default tiling options: non-ideal resolution
// (callers promote tilings explicitly) and a one-texel tile border for
// seam-free bilinear filtering.
func defaultOptions() options {
	return options{
		resolution:   NonIdealResolution,
		borderTexels: 1,
	}
}

// WithResolution sets the resolution category the tiling reports in its
// priorities.
func WithResolution(r Resolution) Option {
	return func(o *options) {
		o.resolution = r
	}
}

// WithBorderTexels sets the tile border thickness. Zero disables borders;
// tiles then partition the content exactly with no overlap.
func WithBorderTexels(n int) Option {
	return func(o *options) {
		if n >= 0 {
			o.borderTexels = n
		}
	}
}

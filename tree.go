package tiling

// Tree identifies one of the two double-buffered tile trees. The pending
// tree is being built for the next frame; the active tree is currently
// displayed. A tiling whose active tree was just superseded is "recycled":
// it keeps no tree of its own and is reused as the next pending tree, so
// recycled tilings report PendingTree as their current tree.
type Tree int

const (
	// PendingTree is the tree being prepared for activation.
	PendingTree Tree = iota
	// ActiveTree is the tree currently being displayed.
	ActiveTree

	numTrees = 2
)

// Twin returns the other tree.
func (t Tree) Twin() Tree {
	if t == PendingTree {
		return ActiveTree
	}
	return PendingTree
}

// String returns the tree's name.
func (t Tree) String() string {
	switch t {
	case PendingTree:
		return "pending"
	case ActiveTree:
		return "active"
	}
	return "unknown"
}

// Resolution classifies a tiling's scale relative to the ideal scale for
// its layer. The external scheduler prefers high-resolution tiles and uses
// low or non-ideal tiles as stand-ins while the ideal scale rasterizes.
type Resolution int

const (
	// NonIdealResolution marks a tiling at a stale scale kept only until
	// the ideal scale is ready.
	NonIdealResolution Resolution = iota
	// LowResolution marks the deliberately coarse stand-in tiling.
	LowResolution
	// HighResolution marks the tiling at the layer's ideal scale.
	HighResolution
)

// String returns the resolution's name.
func (r Resolution) String() string {
	switch r {
	case HighResolution:
		return "high"
	case LowResolution:
		return "low"
	case NonIdealResolution:
		return "non-ideal"
	}
	return "unknown"
}

package geom

import "testing"

// regionArea rasterizes the region onto a grid to measure covered cells,
// counting overlapping rects once.
func regionArea(reg *Region, bounds Rect) int {
	covered := 0
	for y := bounds.Y; y < bounds.Bottom(); y++ {
		for x := bounds.X; x < bounds.Right(); x++ {
			if reg.Intersects(Rc(x, y, 1, 1)) {
				covered++
			}
		}
	}
	return covered
}

func TestRegionUnion(t *testing.T) {
	var reg Region
	reg.Union(Rc(0, 0, 10, 10))
	reg.Union(Rc(20, 0, 10, 10))
	if reg.Empty() {
		t.Fatal("region empty after unions")
	}
	if got, want := reg.Bounds(), Rc(0, 0, 30, 10); got != want {
		t.Errorf("Bounds() = %v, want %v", got, want)
	}

	// A rect already covered must not grow the list.
	before := len(reg.Rects())
	reg.Union(Rc(2, 2, 3, 3))
	if len(reg.Rects()) != before {
		t.Errorf("contained union grew rect list from %d to %d", before, len(reg.Rects()))
	}

	// Empty rects are dropped.
	reg.Union(Rect{})
	if len(reg.Rects()) != before {
		t.Error("empty union modified region")
	}
}

func TestRegionSubtract(t *testing.T) {
	tests := []struct {
		name     string
		initial  Rect
		subtract Rect
		wantArea int
	}{
		{"center hole", Rc(0, 0, 30, 30), Rc(10, 10, 10, 10), 800},
		{"full cover", Rc(0, 0, 10, 10), Rc(0, 0, 10, 10), 0},
		{"left strip", Rc(0, 0, 30, 30), Rc(0, 0, 10, 30), 600},
		{"disjoint", Rc(0, 0, 10, 10), Rc(50, 50, 5, 5), 100},
		{"corner overlap", Rc(0, 0, 20, 20), Rc(10, 10, 20, 20), 300},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRegion(tt.initial)
			reg.Subtract(tt.subtract)
			if got := regionArea(&reg, tt.initial); got != tt.wantArea {
				t.Errorf("area after subtract = %d, want %d", got, tt.wantArea)
			}
			if reg.Intersects(tt.subtract) {
				t.Errorf("region still intersects subtracted rect %v", tt.subtract)
			}
		})
	}
}

func TestRegionSubtractProducesDisjointRects(t *testing.T) {
	reg := NewRegion(Rc(0, 0, 30, 30))
	reg.Subtract(Rc(10, 10, 10, 10))
	rects := reg.Rects()
	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if rects[i].Intersects(rects[j]) {
				t.Errorf("rects %v and %v overlap", rects[i], rects[j])
			}
		}
	}
}

func TestRegionIntersects(t *testing.T) {
	reg := NewRegion(Rc(0, 0, 10, 10), Rc(100, 100, 10, 10))
	if !reg.Intersects(Rc(5, 5, 1, 1)) {
		t.Error("expected intersection with first rect")
	}
	if !reg.Intersects(Rc(105, 105, 20, 20)) {
		t.Error("expected intersection with second rect")
	}
	if reg.Intersects(Rc(50, 50, 10, 10)) {
		t.Error("unexpected intersection in the gap")
	}
}

func TestRegionClear(t *testing.T) {
	reg := NewRegion(Rc(0, 0, 10, 10))
	reg.Clear()
	if !reg.Empty() {
		t.Error("region not empty after Clear")
	}
	if got := reg.Bounds(); got != (Rect{}) {
		t.Errorf("Bounds() after Clear = %v, want zero", got)
	}
}

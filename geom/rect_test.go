package geom

import (
	"math"
	"testing"
)

func TestRectIntersect(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want Rect
	}{
		{"identical", Rc(0, 0, 10, 10), Rc(0, 0, 10, 10), Rc(0, 0, 10, 10)},
		{"partial overlap", Rc(0, 0, 10, 10), Rc(5, 5, 10, 10), Rc(5, 5, 5, 5)},
		{"contained", Rc(0, 0, 100, 100), Rc(20, 30, 10, 10), Rc(20, 30, 10, 10)},
		{"disjoint", Rc(0, 0, 10, 10), Rc(20, 20, 10, 10), Rect{}},
		{"edge adjacent", Rc(0, 0, 10, 10), Rc(10, 0, 10, 10), Rect{}},
		{"empty input", Rc(0, 0, 10, 10), Rect{}, Rect{}},
		{"negative origin", Rc(-5, -5, 10, 10), Rc(0, 0, 10, 10), Rc(0, 0, 5, 5)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Intersect(tt.b); got != tt.want {
				t.Errorf("%v.Intersect(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			// Intersection is symmetric.
			if got := tt.b.Intersect(tt.a); got != tt.want {
				t.Errorf("%v.Intersect(%v) = %v, want %v", tt.b, tt.a, got, tt.want)
			}
		})
	}
}

func TestRectContains(t *testing.T) {
	tests := []struct {
		name string
		a, b Rect
		want bool
	}{
		{"itself", Rc(0, 0, 10, 10), Rc(0, 0, 10, 10), true},
		{"inner", Rc(0, 0, 10, 10), Rc(2, 2, 5, 5), true},
		{"overhang", Rc(0, 0, 10, 10), Rc(5, 5, 10, 10), false},
		{"disjoint", Rc(0, 0, 10, 10), Rc(20, 20, 5, 5), false},
		{"empty inner", Rc(0, 0, 10, 10), Rect{}, true},
		{"empty outer", Rect{}, Rc(0, 0, 1, 1), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Contains(tt.b); got != tt.want {
				t.Errorf("%v.Contains(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestRectInsetEdges(t *testing.T) {
	r := Rc(10, 20, 100, 50)
	got := r.InsetEdges(1, 2, 3, 4)
	want := Rc(11, 22, 96, 44)
	if got != want {
		t.Errorf("InsetEdges(1,2,3,4) = %v, want %v", got, want)
	}
}

func TestScaleToEnclosingRect(t *testing.T) {
	tests := []struct {
		name   string
		r      Rect
		sx, sy float64
		want   Rect
	}{
		{"identity", Rc(1, 2, 3, 4), 1, 1, Rc(1, 2, 3, 4)},
		{"double", Rc(1, 2, 3, 4), 2, 2, Rc(2, 4, 6, 8)},
		{"half rounds out", Rc(1, 1, 1, 1), 0.5, 0.5, Rc(0, 0, 1, 1)},
		{"asymmetric", Rc(0, 0, 10, 10), 0.3, 0.7, Rc(0, 0, 3, 7)},
		{"empty", Rect{}, 2, 2, Rect{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScaleToEnclosingRect(tt.r, tt.sx, tt.sy); got != tt.want {
				t.Errorf("ScaleToEnclosingRect(%v, %v, %v) = %v, want %v",
					tt.r, tt.sx, tt.sy, got, tt.want)
			}
		})
	}
}

func TestScaleToEnclosingRectEncloses(t *testing.T) {
	// Whatever the rounding, the scaled-back result must cover the input.
	r := Rc(7, 13, 29, 31)
	for _, scale := range []float64{0.25, 0.33, 0.5, 1.25, 3} {
		enclosing := ScaleToEnclosingRect(r, scale, scale)
		lo := Pt(float64(r.X)*scale, float64(r.Y)*scale)
		hi := Pt(float64(r.Right())*scale, float64(r.Bottom())*scale)
		if float64(enclosing.X) > lo.X || float64(enclosing.Y) > lo.Y ||
			float64(enclosing.Right()) < hi.X || float64(enclosing.Bottom()) < hi.Y {
			t.Errorf("scale %v: %v does not enclose scaled %v", scale, enclosing, r)
		}
	}
}

func TestManhattanInternalDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b RectF
		want float64
	}{
		{"overlapping", RectF{X: 0, Y: 0, W: 10, H: 10}, RectF{X: 5, Y: 5, W: 10, H: 10}, 0},
		{"horizontal gap", RectF{X: 0, Y: 0, W: 10, H: 10}, RectF{X: 15, Y: 0, W: 10, H: 10}, 5},
		{"diagonal gap", RectF{X: 0, Y: 0, W: 10, H: 10}, RectF{X: 13, Y: 14, W: 10, H: 10}, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.ManhattanInternalDistance(tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ManhattanInternalDistance = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestManhattanInternalDistanceEdgeAdjacent(t *testing.T) {
	// Rectangles sharing only an edge do not intersect, so the distance
	// must come out positive.
	a := RectF{X: 0, Y: 0, W: 10, H: 10}
	b := RectF{X: 10, Y: 0, W: 10, H: 10}
	if got := a.ManhattanInternalDistance(b); got <= 0 {
		t.Errorf("edge-adjacent distance = %v, want > 0", got)
	}
}

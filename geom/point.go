package geom

import "math"

// Point represents a 2D position.
type Point struct {
	X, Y float64
}

// Pt is a convenience function to create a Point.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

// Add returns the point displaced by a vector.
func (p Point) Add(v Vector) Point {
	return Point{X: p.X + v.X, Y: p.Y + v.Y}
}

// Sub returns the displacement from q to p.
func (p Point) Sub(q Point) Vector {
	return Vector{X: p.X - q.X, Y: p.Y - q.Y}
}

// Vector represents a 2D displacement.
// Unlike Point which represents a position, Vector represents a direction
// and magnitude.
type Vector struct {
	X, Y float64
}

// V is a convenience function to create a Vector.
func V(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// Add returns the sum of two vectors.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Mul returns the vector scaled by a scalar.
func (v Vector) Mul(s float64) Vector {
	return Vector{X: v.X * s, Y: v.Y * s}
}

// Neg returns the negation of the vector.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Length returns the length of the vector.
func (v Vector) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

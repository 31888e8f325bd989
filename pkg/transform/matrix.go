package transform

import (
	"math"

	"golang.org/x/image/math/f64"
)

// Matrix represents a 3x3 affine transformation matrix.
// Only the first two rows are stored since the third row is always [0 0 1].
// The matrix is stored as:
//
//	[A B 0]
//	[C D 0]
//	[E F 1]
//
// Where (A,B,C,D) handle scaling/rotation and (E,F) handle translation.
type Matrix [6]float64

// IdentityMatrix returns the identity matrix.
func IdentityMatrix() Matrix {
	return Matrix{1, 0, 0, 1, 0, 0}
}

// Translation returns a translation matrix.
func Translation(tx, ty float64) Matrix {
	return Matrix{1, 0, 0, 1, tx, ty}
}

// Scaling returns a uniform scaling matrix.
func Scaling(s float64) Matrix {
	return Matrix{s, 0, 0, s, 0, 0}
}

// Rotation returns a rotation matrix (angle in radians).
func Rotation(angle float64) Matrix {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Matrix{cos, sin, -sin, cos, 0, 0}
}

// Multiply multiplies two matrices: result = m * other
func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Apply applies the matrix to a point.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// ApplyPoint applies the matrix to a Point.
func (m Matrix) ApplyPoint(p Point) Point {
	x, y := m.Apply(p.X, p.Y)
	return Point{x, y}
}

// Determinant returns the determinant of the matrix.
func (m Matrix) Determinant() float64 {
	return m[0]*m[3] - m[1]*m[2]
}

// Inverse returns the inverse of the matrix, or the identity
// if the matrix is singular.
func (m Matrix) Inverse() Matrix {
	det := m.Determinant()
	if det == 0 {
		return IdentityMatrix()
	}

	return Matrix{
		m[3] / det,
		-m[1] / det,
		-m[2] / det,
		m[0] / det,
		(m[2]*m[5] - m[3]*m[4]) / det,
		(m[1]*m[4] - m[0]*m[5]) / det,
	}
}

// Aff3 converts the matrix to the row-major form used by the
// golang.org/x/image/draw interpolators.
func (m Matrix) Aff3() f64.Aff3 {
	return f64.Aff3{
		m[0], m[2], m[4],
		m[1], m[3], m[5],
	}
}

// Point represents a 2D point or vector.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point {
	return Point{x, y}
}

// Add returns the sum of two points (vector addition).
func (p Point) Add(other Point) Point {
	return Point{p.X + other.X, p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point) Sub(other Point) Point {
	return Point{p.X - other.X, p.Y - other.Y}
}

// Mul scales the point by a factor.
func (p Point) Mul(s float64) Point {
	return Point{p.X * s, p.Y * s}
}

// Length returns the distance from origin.
func (p Point) Length() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y)
}

// Angle returns the angle of the vector in radians, measured
// counter-clockwise from the positive x axis.
func (p Point) Angle() float64 {
	return math.Atan2(p.Y, p.X)
}

// Size represents a width and height in pixels.
type Size struct {
	W, H float64
}

// Center returns the center point of a rectangle of this size
// anchored at the origin.
func (s Size) Center() Point {
	return Point{s.W / 2, s.H / 2}
}

// Positive reports whether both dimensions are greater than zero.
func (s Size) Positive() bool {
	return s.W > 0 && s.H > 0
}

// Rect represents an axis-aligned rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// NewRect creates a rectangle from two corner points.
func NewRect(x1, y1, x2, y2 float64) Rect {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	return Rect{
		X:      x1,
		Y:      y1,
		Width:  x2 - x1,
		Height: y2 - y1,
	}
}

// MaxX returns the right edge of the rectangle.
func (r Rect) MaxX() float64 {
	return r.X + r.Width
}

// MaxY returns the bottom edge of the rectangle.
func (r Rect) MaxY() float64 {
	return r.Y + r.Height
}

// Transform applies a matrix transformation to the rectangle,
// returning the bounding box of the four transformed corners.
func (r Rect) Transform(m Matrix) Rect {
	corners := []Point{
		{r.X, r.Y},
		{r.X + r.Width, r.Y},
		{r.X + r.Width, r.Y + r.Height},
		{r.X, r.Y + r.Height},
	}

	p0 := m.ApplyPoint(corners[0])
	minX, maxX := p0.X, p0.X
	minY, maxY := p0.Y, p0.Y

	for _, c := range corners[1:] {
		p := m.ApplyPoint(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}

	return NewRect(minX, minY, maxX, maxY)
}

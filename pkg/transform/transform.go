// Package transform provides the 2D affine view transform used to map
// image-space coordinates to screen-space coordinates. A Transform is an
// immutable value; every adjustment returns a new one.
package transform

import (
	"errors"
	"math"
)

// ErrSingular indicates that a transform's scale has degenerated to zero,
// making the screen-to-image mapping undefined. The scale is kept strictly
// positive by construction, so hitting this error means a broken invariant
// rather than a recoverable condition.
var ErrSingular = errors.New("transform: singular (scale is zero)")

// Transform is a similarity transform from image space to screen space:
// an image point p maps to the screen point R(Theta)*Scale*p + (Tx, Ty).
// The composition order (rotate, then scale, then translate) is fixed.
type Transform struct {
	// Tx, Ty is the translation in screen pixels.
	Tx, Ty float64
	// Scale is the uniform scale factor. Always > 0.
	Scale float64
	// Theta is the rotation angle in radians, normalized to [-pi, pi).
	Theta float64
}

// Identity returns the identity transform.
func Identity() Transform {
	return Transform{Scale: 1}
}

// FitContent returns the transform that centers content of the given size in
// the viewport and scales it, preserving aspect ratio, so that all of it is
// visible. This is the initial and reset view.
func FitContent(viewport, content Size) Transform {
	if !viewport.Positive() || !content.Positive() {
		return Identity()
	}
	s := math.Min(viewport.W/content.W, viewport.H/content.H)
	return Transform{
		Tx:    (viewport.W - s*content.W) / 2,
		Ty:    (viewport.H - s*content.H) / 2,
		Scale: s,
	}
}

// ToScreen maps an image-space point to screen space.
func (t Transform) ToScreen(p Point) Point {
	sin, cos := math.Sincos(t.Theta)
	return Point{
		X: t.Scale*(cos*p.X-sin*p.Y) + t.Tx,
		Y: t.Scale*(sin*p.X+cos*p.Y) + t.Ty,
	}
}

// ToImage maps a screen-space point back to image space. It fails with
// ErrSingular only if the scale has degenerated to zero.
func (t Transform) ToImage(p Point) (Point, error) {
	if t.Scale == 0 {
		return Point{}, ErrSingular
	}
	sin, cos := math.Sincos(-t.Theta)
	d := p.Sub(Point{t.Tx, t.Ty})
	return Point{
		X: (cos*d.X - sin*d.Y) / t.Scale,
		Y: (sin*d.X + cos*d.Y) / t.Scale,
	}, nil
}

// Compose applies a further adjustment after t: the result maps p through t
// first and then through delta.
func (t Transform) Compose(delta Transform) Transform {
	origin := delta.ToScreen(Point{t.Tx, t.Ty})
	return Transform{
		Tx:    origin.X,
		Ty:    origin.Y,
		Scale: t.Scale * delta.Scale,
		Theta: normalizeAngle(t.Theta + delta.Theta),
	}
}

// TranslatedBy returns the transform shifted by (dx, dy) screen pixels.
func (t Transform) TranslatedBy(dx, dy float64) Transform {
	t.Tx += dx
	t.Ty += dy
	return t
}

// ScaledAbout returns the transform scaled by factor such that the screen
// point anchor maps to the same image point before and after.
func (t Transform) ScaledAbout(factor float64, anchor Point) Transform {
	return Transform{
		Tx:    anchor.X + factor*(t.Tx-anchor.X),
		Ty:    anchor.Y + factor*(t.Ty-anchor.Y),
		Scale: t.Scale * factor,
		Theta: t.Theta,
	}
}

// RotatedAbout returns the transform rotated by angle radians about the
// screen point pivot, which remains a fixed point of the adjustment.
func (t Transform) RotatedAbout(angle float64, pivot Point) Transform {
	sin, cos := math.Sincos(angle)
	d := Point{t.Tx, t.Ty}.Sub(pivot)
	return Transform{
		Tx:    pivot.X + cos*d.X - sin*d.Y,
		Ty:    pivot.Y + sin*d.X + cos*d.Y,
		Scale: t.Scale,
		Theta: normalizeAngle(t.Theta + angle),
	}
}

// Matrix returns the affine matrix form of the transform.
func (t Transform) Matrix() Matrix {
	return Rotation(t.Theta).Multiply(Scaling(t.Scale)).Multiply(Translation(t.Tx, t.Ty))
}

// normalizeAngle wraps an angle to [-pi, pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

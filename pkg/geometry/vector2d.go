// Package geometry provides the 2D vector value type used by the flock.
package geometry

import (
	"fmt"
	"math"
)

// Epsilon is the tolerance used by Eq and by ClampLen.
const Epsilon = 1e-9

// Vector2D is a point or a displacement in screen space (y grows downwards).
// Fields are public so literals stay short: v := Vector2D{X: 1, Y: 2}.
type Vector2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Zero is the origin.
var Zero = Vector2D{}

// NewVector creates a new Vector2D.
func NewVector(x, y float64) Vector2D {
	return Vector2D{X: x, Y: y}
}

// NewVectorPolar creates a Vector2D of length radius pointing at theta radians.
func NewVectorPolar(radius, theta float64) Vector2D {
	x := radius * math.Cos(theta)
	y := radius * math.Sin(theta)

	// cos(Pi/2) and friends are not exactly zero
	if math.Abs(x) < Epsilon {
		x = 0
	}
	if math.Abs(y) < Epsilon {
		y = 0
	}
	return Vector2D{X: x, Y: y}
}

// String implements fmt.Stringer.
func (v Vector2D) String() string {
	return fmt.Sprintf("(%.2f, %.2f)", v.X, v.Y)
}

// ---------------------------------------------------------------------
// Arithmetic
// Value receivers, new values out. AddInPlace is the only mutator.
// ---------------------------------------------------------------------

// Add returns v + other.
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{v.X + other.X, v.Y + other.Y}
}

// AddInPlace accumulates other into v.
func (v *Vector2D) AddInPlace(other Vector2D) {
	v.X += other.X
	v.Y += other.Y
}

// Neg returns -v.
func (v Vector2D) Neg() Vector2D {
	return Vector2D{-v.X, -v.Y}
}

// Sub returns v - other.
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return v.Add(other.Neg())
}

// Mul scales the vector by a scalar value.
func (v Vector2D) Mul(scalar float64) Vector2D {
	return Vector2D{v.X * scalar, v.Y * scalar}
}

// ---------------------------------------------------------------------
// Magnitude
// ---------------------------------------------------------------------

// LenSqr is the squared magnitude. Use it for comparisons.
func (v Vector2D) LenSqr() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Len is the Euclidean norm.
func (v Vector2D) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector with the same direction, or Zero.
func (v Vector2D) Normalize() Vector2D {
	l := v.Len()
	if l < Epsilon {
		return Zero
	}
	return v.Mul(1 / l)
}

// ClampLen returns v scaled down to length max when it is longer than max,
// v itself otherwise.
func (v Vector2D) ClampLen(max float64) Vector2D {
	l := v.Len()
	if l <= max {
		return v
	}
	clamped := v.Mul(max / l)
	// max/l can round up by one ulp per component
	if cl := clamped.Len(); cl > max+Epsilon {
		clamped = clamped.Mul(max / cl)
	}
	return clamped
}

// ---------------------------------------------------------------------
// Geometric Utilities
// ---------------------------------------------------------------------

// DistanceTo is the Euclidean distance between two points.
func (v Vector2D) DistanceTo(other Vector2D) float64 {
	return v.Sub(other).Len()
}

// Angle returns atan2(y, x) in [-Pi, Pi]; the origin maps to 0.
func (v Vector2D) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// Rotate rotates the vector by angle radians around the origin.
// With y pointing down a positive angle turns clockwise on screen.
func (v Vector2D) Rotate(angle float64) Vector2D {
	sin, cos := math.Sincos(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Midpoint returns the point halfway between v and other.
func (v Vector2D) Midpoint(other Vector2D) Vector2D {
	return other.Sub(v).Mul(0.5).Add(v)
}

// Eq reports whether both components differ by at most Epsilon.
func (v Vector2D) Eq(other Vector2D) bool {
	return math.Abs(v.X-other.X) <= Epsilon && math.Abs(v.Y-other.Y) <= Epsilon
}

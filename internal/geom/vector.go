// Package geom implements the 2D math the client steers ships with:
// an immutable Vector value type and Coordinate, a pose (position plus
// heading) that converts points between its local frame and the world.
//
// Angles are in degrees. 0° points along +x and positive angles turn
// counter-clockwise in math convention; on a y-down screen that reads as
// clockwise.
package geom

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrZeroVector is returned when an operation needs a direction and
	// was given (0, 0).
	ErrZeroVector = errors.New("geom: zero vector")

	// ErrDivideByZero is returned by Div for a zero divisor.
	ErrDivideByZero = errors.New("geom: divide by zero")
)

// ZeroVectorError names which operand of a binary operation was (0, 0).
type ZeroVectorError struct {
	Op      string // "cosign" or "angle"
	Operand string // "receiver" or "argument"
}

func (e *ZeroVectorError) Error() string {
	return fmt.Sprintf("geom: %s: %s is not a vector", e.Op, e.Operand)
}

// Unwrap lets errors.Is match ErrZeroVector.
func (e *ZeroVectorError) Unwrap() error {
	return ErrZeroVector
}

// Vector is a 2D vector. All methods return new values.
type Vector struct {
	X, Y float64
}

// Zero is the (0, 0) vector.
var Zero = Vector{}

// New returns the vector (x, y).
func New(x, y float64) Vector {
	return Vector{X: x, Y: y}
}

// IsZero reports whether both components are exactly zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Add returns v + w.
func (v Vector) Add(w Vector) Vector {
	return Vector{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) Vector {
	return Vector{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul scales v by n.
func (v Vector) Mul(n float64) Vector {
	return Vector{X: v.X * n, Y: v.Y * n}
}

// Div scales v by 1/n.
func (v Vector) Div(n float64) (Vector, error) {
	if n == 0 {
		return Vector{}, ErrDivideByZero
	}
	return Vector{X: v.X / n, Y: v.Y / n}, nil
}

// Neg returns -v.
func (v Vector) Neg() Vector {
	return Vector{X: -v.X, Y: -v.Y}
}

// Magnitude returns the Euclidean norm.
func (v Vector) Magnitude() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Distance returns |v - w|.
func (v Vector) Distance(w Vector) float64 {
	return v.Sub(w).Magnitude()
}

// Normalize returns the unit vector pointing the same way as v.
func (v Vector) Normalize() (Vector, error) {
	m := v.Magnitude()
	if m == 0 {
		return Vector{}, ErrZeroVector
	}
	return Vector{X: v.X / m, Y: v.Y / m}, nil
}

// InnerProduct returns the dot product v·w.
func (v Vector) InnerProduct(w Vector) float64 {
	return v.X*w.X + v.Y*w.Y
}

// Cosign returns the cosine of the angle between v and w.
// Either operand being (0, 0) yields a *ZeroVectorError.
func (v Vector) Cosign(w Vector) (float64, error) {
	if err := checkOperands("cosign", v, w); err != nil {
		return 0, err
	}
	return v.InnerProduct(w) / (v.Magnitude() * w.Magnitude()), nil
}

// Angle returns the angle between v and w in degrees, in [0, 180].
// Either operand being (0, 0) yields a *ZeroVectorError.
func (v Vector) Angle(w Vector) (float64, error) {
	if err := checkOperands("angle", v, w); err != nil {
		return 0, err
	}
	// Operands are non-zero, so neither Normalize nor Cosign can fail.
	nv, _ := v.Normalize()
	nw, _ := w.Normalize()
	cos, _ := nv.Cosign(nw)
	// Rounding can push |cos| slightly past 1 for parallel vectors.
	cos = math.Max(-1, math.Min(1, cos))
	return math.Acos(cos) * 180 / math.Pi, nil
}

// String formats the vector as "(x, y)".
func (v Vector) String() string {
	return fmt.Sprintf("(%g, %g)", v.X, v.Y)
}

func checkOperands(op string, v, w Vector) error {
	if v.IsZero() {
		return &ZeroVectorError{Op: op, Operand: "receiver"}
	}
	if w.IsZero() {
		return &ZeroVectorError{Op: op, Operand: "argument"}
	}
	return nil
}

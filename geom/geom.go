// Package geom provides the float32 2D primitives the layout engine works in:
// axes, sizes, vectors and center-based boxes.
package geom

import "math"

// Unbounded is the "no maximum" sentinel for sizes.
const Unbounded float32 = math.MaxFloat32

// DefaultTolerance is the absolute tolerance used for fuzzy comparisons
// when callers have no better value.
const DefaultTolerance float32 = 1.0

// Axis selects the horizontal or vertical dimension.
type Axis uint8

const (
	Horizontal Axis = iota
	Vertical
)

// Valid reports whether a is one of the two known axes.
func (a Axis) Valid() bool {
	return a == Horizontal || a == Vertical
}

// Other returns the perpendicular axis.
func (a Axis) Other() Axis {
	if a == Horizontal {
		return Vertical
	}
	return Horizontal
}

func (a Axis) String() string {
	switch a {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	default:
		return "axis(invalid)"
	}
}

// FuzzyEqual reports whether a and b differ by at most tol.
func FuzzyEqual(a, b, tol float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= tol
}

// SatAdd adds a and b, saturating at Unbounded.
// Either operand at Unbounded yields Unbounded.
func SatAdd(a, b float32) float32 {
	if a >= Unbounded || b >= Unbounded {
		return Unbounded
	}
	s := a + b
	if s >= Unbounded || math.IsInf(float64(s), 1) {
		return Unbounded
	}
	return s
}

// Clamp restricts v to [lo, hi]. lo wins when lo > hi.
func Clamp(v, lo, hi float32) float32 {
	if v > hi {
		v = hi
	}
	if v < lo {
		v = lo
	}
	return v
}

// Vec2 is a point or offset.
type Vec2 struct {
	X, Y float32
}

// Add returns v offset by o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v minus o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Dim returns the component along axis a.
func (v Vec2) Dim(a Axis) float32 {
	if a == Vertical {
		return v.Y
	}
	return v.X
}

// Size is a width/height pair.
type Size struct {
	W, H float32
}

// NewSize creates a Size.
func NewSize(w, h float32) Size {
	return Size{W: w, H: h}
}

// UnboundedSize returns a size with no limit on either axis.
func UnboundedSize() Size {
	return Size{W: Unbounded, H: Unbounded}
}

// Dim returns the extent along axis a.
func (s Size) Dim(a Axis) float32 {
	if a == Vertical {
		return s.H
	}
	return s.W
}

// WithDim returns a copy of s whose extent along a is v.
func (s Size) WithDim(a Axis, v float32) Size {
	if a == Vertical {
		s.H = v
	} else {
		s.W = v
	}
	return s
}

// Add returns the saturating sum of s and o.
func (s Size) Add(o Size) Size {
	return Size{W: SatAdd(s.W, o.W), H: SatAdd(s.H, o.H)}
}

// Sub returns s minus o. Unbounded extents stay unbounded.
func (s Size) Sub(o Size) Size {
	r := s
	if s.W < Unbounded {
		r.W = s.W - o.W
	}
	if s.H < Unbounded {
		r.H = s.H - o.H
	}
	return r
}

// Max returns the per-axis maximum of s and o.
func (s Size) Max(o Size) Size {
	return Size{W: max(s.W, o.W), H: max(s.H, o.H)}
}

// Min returns the per-axis minimum of s and o.
func (s Size) Min(o Size) Size {
	return Size{W: min(s.W, o.W), H: min(s.H, o.H)}
}

// NonNegative replaces negative extents with zero.
func (s Size) NonNegative() Size {
	return Size{W: max(s.W, 0), H: max(s.H, 0)}
}

// IsEmpty reports whether either extent is zero or negative.
func (s Size) IsEmpty() bool {
	return s.W <= 0 || s.H <= 0
}

// FuzzyEqual compares both extents within tol.
func (s Size) FuzzyEqual(o Size, tol float32) bool {
	return FuzzyEqual(s.W, o.W, tol) && FuzzyEqual(s.H, o.H, tol)
}

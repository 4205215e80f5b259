package geom

import "math"

// Tolerances used by position comparisons. Narrow absorbs float32
// rounding drift from repeated transforms, the wide one matches the
// editor grid snap granularity.
const (
	EpsilonNarrow = float32(1.1920929e-07)
	Epsilon       = float32(1.0 / 128.0)
)

// EqualWithEpsilon reports whether a and b differ by at most epsilon.
func EqualWithEpsilon(a, b, epsilon float32) bool {
	return math.Abs(float64(a-b)) <= float64(epsilon)
}

// AroundEqual compares two values with the grid tolerance.
func AroundEqual(a, b float32) bool {
	return EqualWithEpsilon(a, b, Epsilon)
}

// AroundEqualNarrow compares two values with the narrow tolerance.
func AroundEqualNarrow(a, b float32) bool {
	return EqualWithEpsilon(a, b, EpsilonNarrow)
}

// Vec is a bidimensional point or vector.
type Vec struct {
	X float32
	Y float32
}

func NewVec(x, y float32) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Mul(s float32) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

func (v Vec) AroundEqual(o Vec) bool {
	return AroundEqual(v.X, o.X) && AroundEqual(v.Y, o.Y)
}

func (v Vec) AroundEqualNarrow(o Vec) bool {
	return AroundEqualNarrow(v.X, o.X) && AroundEqualNarrow(v.Y, o.Y)
}

// Lerp interpolates between a and b by t.
func Lerp(a, b Vec, t float32) Vec {
	return a.Add(b.Sub(a).Mul(t))
}

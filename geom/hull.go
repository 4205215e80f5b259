package geom

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
)

// HullCorner identifies one of the four corners of a Hull.
type HullCorner int

const (
	TopRight HullCorner = iota
	TopLeft
	BottomLeft
	BottomRight
)

func (c HullCorner) String() string {
	switch c {
	case TopRight:
		return "top_right"
	case TopLeft:
		return "top_left"
	case BottomLeft:
		return "bottom_left"
	case BottomRight:
		return "bottom_right"
	}
	return "unknown"
}

// Hull is the axis aligned bounding rectangle of an entity. A valid
// hull satisfies top >= bottom and left <= right.
type Hull struct {
	top    float32
	bottom float32
	left   float32
	right  float32
}

// NewHull returns the hull with the given bounds. A malformed hull is
// a caller bookkeeping defect and panics.
func NewHull(top, bottom, left, right float32) Hull {
	if top < bottom || left > right {
		panic(errors.New("malformed hull").
			WithTag("top", top).
			WithTag("bottom", bottom).
			WithTag("left", left).
			WithTag("right", right))
	}
	return Hull{top: top, bottom: bottom, left: left, right: right}
}

func (h Hull) Top() float32    { return h.top }
func (h Hull) Bottom() float32 { return h.bottom }
func (h Hull) Left() float32   { return h.left }
func (h Hull) Right() float32  { return h.right }

func (h Hull) Width() float32  { return h.right - h.left }
func (h Hull) Height() float32 { return h.top - h.bottom }

// Center returns the center point of the hull.
func (h Hull) Center() Vec {
	return Vec{X: (h.left + h.right) / 2, Y: (h.top + h.bottom) / 2}
}

// ContainsPoint reports whether p lies within the hull, boundary
// included.
func (h Hull) ContainsPoint(p Vec) bool {
	return p.X >= h.left && p.X <= h.right && p.Y >= h.bottom && p.Y <= h.top
}

// ContainsHull reports whether o lies entirely within h.
func (h Hull) ContainsHull(o Hull) bool {
	return o.left >= h.left && o.right <= h.right &&
		o.bottom >= h.bottom && o.top <= h.top
}

// Overlaps reports whether the two hulls share any area, boundary
// contact included.
func (h Hull) Overlaps(o Hull) bool {
	return h.left <= o.right && h.right >= o.left &&
		h.bottom <= o.top && h.top >= o.bottom
}

// CornerVertex returns the position of the requested corner.
func (h Hull) CornerVertex(c HullCorner) Vec {
	switch c {
	case TopRight:
		return Vec{X: h.right, Y: h.top}
	case TopLeft:
		return Vec{X: h.left, Y: h.top}
	case BottomLeft:
		return Vec{X: h.left, Y: h.bottom}
	case BottomRight:
		return Vec{X: h.right, Y: h.bottom}
	}
	panic(errors.New("invalid hull corner").WithTag("corner", int(c)))
}

// Corners returns the four corners in top right, top left, bottom
// left, bottom right order.
func (h Hull) Corners() [4]HullCorner {
	return [4]HullCorner{TopRight, TopLeft, BottomLeft, BottomRight}
}

// Vertexes returns the positions of the four corners.
func (h Hull) Vertexes() [4]Vec {
	return [4]Vec{
		h.CornerVertex(TopRight),
		h.CornerVertex(TopLeft),
		h.CornerVertex(BottomLeft),
		h.CornerVertex(BottomRight),
	}
}

// Translated returns the hull moved by v.
func (h Hull) Translated(v Vec) Hull {
	return Hull{
		top:    h.top + v.Y,
		bottom: h.bottom + v.Y,
		left:   h.left + v.X,
		right:  h.right + v.X,
	}
}

// Bumped returns the hull grown by amount on every side.
func (h Hull) Bumped(amount float32) Hull {
	return NewHull(h.top+amount, h.bottom-amount, h.left-amount, h.right+amount)
}

func (h Hull) AroundEqual(o Hull) bool {
	return AroundEqual(h.top, o.top) && AroundEqual(h.bottom, o.bottom) &&
		AroundEqual(h.left, o.left) && AroundEqual(h.right, o.right)
}

func (h Hull) AroundEqualNarrow(o Hull) bool {
	return AroundEqualNarrow(h.top, o.top) && AroundEqualNarrow(h.bottom, o.bottom) &&
		AroundEqualNarrow(h.left, o.left) && AroundEqualNarrow(h.right, o.right)
}

// Square returns the hull of the square centered at the origin with
// the given half side length.
func Square(halfSide float32) Hull {
	return NewHull(halfSide, -halfSide, -halfSide, halfSide)
}

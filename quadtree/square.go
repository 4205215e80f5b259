package quadtree

import "github.com/ivoryduke/quadindex/geom"

// Square is the area covered by a node: a top left corner and a side
// length. Children are always exact quadrant subdivisions.
type Square struct {
	topLeft geom.Vec
	size    float32
}

func NewSquare(topLeft geom.Vec, size float32) Square {
	return Square{topLeft: topLeft, size: size}
}

func (s Square) TopLeft() geom.Vec { return s.topLeft }
func (s Square) Size() float32     { return s.size }

// Hull returns the area covered by the square in rectangle form.
func (s Square) Hull() geom.Hull {
	return geom.NewHull(
		s.topLeft.Y,
		s.topLeft.Y-s.size,
		s.topLeft.X,
		s.topLeft.X+s.size,
	)
}

// ContainsPoint reports whether p lies within the square, boundary
// included.
func (s Square) ContainsPoint(p geom.Vec) bool {
	return p.X >= s.topLeft.X && p.X <= s.topLeft.X+s.size &&
		p.Y >= s.topLeft.Y-s.size && p.Y <= s.topLeft.Y
}

// OverlapsHull reports whether the square's area intersects hull.
func (s Square) OverlapsHull(hull geom.Hull) bool {
	return hull.Overlaps(s.Hull())
}

// SplitSegments returns the two segments cutting the square's area in
// half vertically and horizontally.
func (s Square) SplitSegments() SplitSegments {
	halfSize := s.size / 2
	topCenter := s.topLeft.Add(geom.Vec{X: halfSize})
	leftCenter := s.topLeft.Add(geom.Vec{Y: -halfSize})

	return SplitSegments{
		XSplit: geom.Segment{topCenter, topCenter.Add(geom.Vec{Y: -s.size})},
		YSplit: geom.Segment{leftCenter, leftCenter.Add(geom.Vec{X: s.size})},
	}
}

// SplitSegments are the segments that cut a square in half both
// vertically and horizontally.
type SplitSegments struct {
	// The vertical segment that cuts the width of the square.
	XSplit geom.Segment
	// The horizontal segment that cuts the height of the square.
	YSplit geom.Segment
}

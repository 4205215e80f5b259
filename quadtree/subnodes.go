package quadtree

import "github.com/ivoryduke/quadindex/geom"

// The cardinality of a subnode within its parent square.
type quadrant int

const (
	northWest quadrant = iota
	southWest
	southEast
	northEast
)

// subsquare returns the quadrant of s covered by q.
func (q quadrant) subsquare(s Square) Square {
	topLeft := s.TopLeft()
	size := s.Size() / 2

	switch q {
	case northWest:
		return NewSquare(topLeft, size)
	case southWest:
		return NewSquare(topLeft.Add(geom.Vec{Y: -size}), size)
	case southEast:
		return NewSquare(topLeft.Add(geom.Vec{X: size, Y: -size}), size)
	default:
		return NewSquare(topLeft.Add(geom.Vec{X: size}), size)
	}
}

// subnodes holds the arena indexes of the four children of a
// subdivided node, in north-west, south-west, south-east, north-east
// order.
type subnodes [4]int

// newSubnodes allocates the four quadrant children of square in the
// tree arena.
func newSubnodes(t *QuadTree, square Square) subnodes {
	var s subnodes
	for q := northWest; q <= northEast; q++ {
		s[q] = t.insertNode(q.subsquare(square))
	}
	return s
}

// find returns the arena index of the first child whose square
// contains pos, or -1 when none does. A position on a split segment is
// contained by more than one child; the first one in quadrant order
// owns it.
func (s subnodes) find(t *QuadTree, pos geom.Vec) int {
	for _, index := range s {
		if t.node(index).square.ContainsPoint(pos) {
			return index
		}
	}
	return -1
}

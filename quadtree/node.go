package quadtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
)

// The outcome of an identifier removal.
type removeResult int

const (
	// The position is not covered by the node.
	removeNone removeResult = iota
	// The id was removed from a vertex shared with other entities.
	removeIDJustRemoved
	// The id's vertex was removed and the leaf still holds others.
	removeVertexJustRemoved
	// The id's vertex was removed and the leaf is now empty.
	removeVertexJustRemovedEmpty
	// The subnodes were merged back into a single leaf.
	removeSubnodesCollapsed
	// A vertex was removed somewhere below; no collapse happened.
	removeVertexRemoved
)

// node is an element of the tree arena. Its content is exactly one of:
// empty, up to nodeCapacity vertexes, or four subnodes plus the
// intersections crossing its split segments. Never two at once.
type node struct {
	square        Square
	vertexes      vertexes
	subnodes      *subnodes
	intersections intersections
}

func (n *node) isSubdivided() bool { return n.subnodes != nil }
func (n *node) isLeaf() bool       { return n.subnodes == nil && len(n.vertexes) > 0 }
func (n *node) isEmpty() bool      { return n.subnodes == nil && len(n.vertexes) == 0 }

// clearLeaf resets an emptied leaf to the empty state.
func (n *node) clearLeaf() {
	if n.isSubdivided() || len(n.vertexes) != 0 {
		panic(errors.New("node content is not an emptied leaf"))
	}
	n.vertexes = nil
}

// nodeInsert inserts vx into the node at index, splitting it into
// subnodes if necessary. Returns false only when the position is
// outside the node's square; insertion inside the root never fails.
func nodeInsert(t *QuadTree, index int, vx vertex) bool {
	if !t.node(index).square.ContainsPoint(vx.pos) {
		return false
	}

	n := t.node(index)
	switch {
	case n.isEmpty():
		n.vertexes = append(n.vertexes, vx)
		return true

	case n.isLeaf():
		overflow, full := n.vertexes.insert(vx)
		if !full {
			return true
		}

		// Fifth distinct position: subdivide. The existing vertexes
		// spread into whichever child contains them, and their hull
		// sides' crossings with this node's split segments are
		// recorded before the triggering vertex goes in.
		square := n.square
		old := n.vertexes
		n.vertexes = nil

		sub := newSubnodes(t, square)
		splitSegs := square.SplitSegments()
		ints := t.newIntersections()

		for _, existing := range old {
			existing.appendIntersections(&ints, splitSegs)

			child := sub.find(t, existing.pos)
			if child < 0 || !nodeInsert(t, child, existing) {
				panic(errors.New("vertex re-insertion failed on split"))
			}
		}

		// The arena may have grown; re-acquire the node.
		n = t.node(index)
		n.subnodes = &sub
		n.intersections = ints
		instrumentSplit(t.name)

		vx = overflow
	}

	child := t.node(index).subnodes.find(t, vx.pos)
	if child < 0 || !nodeInsert(t, child, vx) {
		panic(errors.New("vertex insertion failed").
			WithTag("x", vx.pos.X).
			WithTag("y", vx.pos.Y))
	}
	return true
}

// nodeInsertIntersections records, on every subdivided node whose area
// overlaps hull, the first crossing of the sides with that node's
// split segments. Recursion is unconditional below a subdivided node:
// a hull may cross multiple nested boundaries.
func nodeInsertIntersections(t *QuadTree, index int, id models.Identifier, s sides, hull geom.Hull) {
	n := t.node(index)

	if !hull.Overlaps(n.square.Hull()) || !n.isSubdivided() {
		return
	}

	if p, ok := s.firstIntersection(n.square.SplitSegments()); ok {
		n.intersections.insert(id, p, s.corner)
	}

	for _, child := range *n.subnodes {
		nodeInsertIntersections(t, child, id, s, hull)
	}
}

// nodeRemoveIntersections is the mirror of nodeInsertIntersections,
// deleting the id's crossing wherever it was recorded.
func nodeRemoveIntersections(t *QuadTree, index int, id models.Identifier, hull geom.Hull) {
	n := t.node(index)

	if !hull.Overlaps(n.square.Hull()) || !n.isSubdivided() {
		return
	}

	n.intersections.remove(id)

	for _, child := range *n.subnodes {
		nodeRemoveIntersections(t, child, id, hull)
	}
}

// nodeRemove removes the corner at pos with the given id from the
// subtree rooted at index.
func nodeRemove(t *QuadTree, index int, pos geom.Vec, id models.Identifier) removeResult {
	if !t.node(index).square.ContainsPoint(pos) {
		return removeNone
	}

	n := t.node(index)
	switch {
	case n.isEmpty():
		return removeNone
	case n.isLeaf():
		return n.vertexes.remove(pos, id)
	}

	for _, child := range *n.subnodes {
		switch nodeRemove(t, child, pos, id) {
		case removeNone:
			continue

		case removeVertexJustRemovedEmpty:
			t.node(child).clearLeaf()
			return tryCollapse(t, index)

		case removeVertexJustRemoved, removeSubnodesCollapsed:
			return tryCollapse(t, index)

		default:
			return removeVertexRemoved
		}
	}

	return removeNone
}

// tryCollapse merges the four children of the node at index back into
// a single leaf when their combined vertex count fits nodeCapacity and
// none of them is itself subdivided.
func tryCollapse(t *QuadTree, index int) removeResult {
	n := t.node(index)

	count := 0
	for _, child := range *n.subnodes {
		c := t.node(child)
		if c.isSubdivided() {
			return removeVertexRemoved
		}
		count += len(c.vertexes)
	}

	if count > nodeCapacity {
		return removeVertexRemoved
	}

	var merged vertexes
	for _, child := range *n.subnodes {
		for _, vx := range t.removeNode(child) {
			if _, full := merged.insert(vx); full {
				panic(errors.New("merged vertexes exceed the leaf capacity"))
			}
		}
	}

	t.collectIntersections(n.intersections)
	n.intersections = nil
	n.subnodes = nil
	n.vertexes = merged
	instrumentCollapse(t.name)

	return removeSubnodesCollapsed
}

// nodeEntitiesAtPos stores in out the entities of the nodes containing
// pos. Returns whether pos is covered by the node at index.
func nodeEntitiesAtPos(t *QuadTree, out *IDSet, index int, pos geom.Vec) bool {
	n := t.node(index)

	if !n.square.ContainsPoint(pos) {
		return false
	}

	switch {
	case n.isEmpty():
		return true

	case n.isLeaf():
		for _, vx := range n.vertexes {
			for id, c := range vx.corners {
				out.insert(id, c.hull())
			}
		}
		return true
	}

	// Entities crossing this node's boundary lack a vertex below; the
	// intersections store is what finds them.
	for _, in := range n.intersections {
		for id, c := range in.corners {
			out.insert(id, c.hull())
		}
	}

	for _, child := range *n.subnodes {
		if nodeEntitiesAtPos(t, out, child, pos) {
			return true
		}
	}

	panic(errors.New("entities search failed").
		WithTag("x", pos.X).
		WithTag("y", pos.Y))
}

// nodeIntersectRange stores in out the entities of every node whose
// square overlaps rng.
func nodeIntersectRange(t *QuadTree, out *IDSet, index int, rng geom.Hull) {
	n := t.node(index)

	if !n.square.OverlapsHull(rng) {
		return
	}

	switch {
	case n.isEmpty():
		return

	case n.isLeaf():
		for _, vx := range n.vertexes {
			for id, c := range vx.corners {
				out.insert(id, c.hull())
			}
		}
		return
	}

	for _, in := range n.intersections {
		for id, c := range in.corners {
			out.insert(id, c.hull())
		}
	}

	for _, child := range *n.subnodes {
		nodeIntersectRange(t, out, child, rng)
	}
}

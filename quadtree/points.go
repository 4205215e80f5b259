package quadtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
)

// corner is one corner of an entity hull along with the signed extents
// toward the opposite corner, enough to reconstruct the whole hull.
// Corners, not hulls, are what the tree indexes.
type corner struct {
	kind   geom.HullCorner
	pos    geom.Vec
	width  float32
	height float32
}

// cornerFromHull derives the requested corner of hull.
func cornerFromHull(hull geom.Hull, kind geom.HullCorner) corner {
	width, height := hull.Width(), hull.Height()
	pos := hull.CornerVertex(kind)

	c := corner{kind: kind, pos: pos}
	switch kind {
	case geom.TopRight:
		c.width, c.height = -width, -height
	case geom.TopLeft:
		c.width, c.height = width, -height
	case geom.BottomLeft:
		c.width, c.height = width, height
	case geom.BottomRight:
		c.width, c.height = -width, height
	}
	return c
}

// hull reconstructs the hull the corner belongs to.
func (c corner) hull() geom.Hull {
	switch c.kind {
	case geom.TopRight:
		return geom.NewHull(c.pos.Y, c.pos.Y+c.height, c.pos.X+c.width, c.pos.X)
	case geom.TopLeft:
		return geom.NewHull(c.pos.Y, c.pos.Y+c.height, c.pos.X, c.pos.X+c.width)
	case geom.BottomLeft:
		return geom.NewHull(c.pos.Y+c.height, c.pos.Y, c.pos.X, c.pos.X+c.width)
	default:
		return geom.NewHull(c.pos.Y+c.height, c.pos.Y, c.pos.X+c.width, c.pos.X)
	}
}

// sides returns the two hull sides meeting at the corner.
func (c corner) sides() sides {
	return sides{
		x:      geom.Segment{c.pos, c.pos.Add(geom.Vec{Y: c.height})},
		y:      geom.Segment{c.pos, c.pos.Add(geom.Vec{X: c.width})},
		corner: c,
	}
}

// sides are two consecutive sides of an entity hull: the vertical and
// the horizontal edge meeting at a corner.
type sides struct {
	x      geom.Segment
	y      geom.Segment
	corner corner
}

// sidesFromHull returns the side pairs of two opposite corners, which
// together cover all four sides of the hull.
func sidesFromHull(hull geom.Hull) [2]sides {
	return [2]sides{
		cornerFromHull(hull, geom.TopRight).sides(),
		cornerFromHull(hull, geom.BottomLeft).sides(),
	}
}

// firstIntersection returns the first crossing between the sides and
// the split segments, pairing each side with the perpendicular
// segment.
func (s sides) firstIntersection(ss SplitSegments) (geom.Vec, bool) {
	if p, ok := geom.SegmentsIntersection(s.x, ss.YSplit); ok {
		return p, true
	}
	return geom.SegmentsIntersection(s.y, ss.XSplit)
}

// vertex is a tree indexed position shared by the corners of every
// entity whose corner lands there.
type vertex struct {
	pos     geom.Vec
	corners map[models.Identifier]corner
}

func newVertex(id models.Identifier, c corner) vertex {
	return vertex{
		pos:     c.pos,
		corners: map[models.Identifier]corner{id: c},
	}
}

// insertCorner adds a corner sharing the vertex position.
func (v vertex) insertCorner(id models.Identifier, c corner) {
	if !c.pos.AroundEqualNarrow(v.pos) {
		panic(errors.New("corner does not share the vertex position").
			WithTag("id", uint64(id)))
	}
	if _, ok := v.corners[id]; ok {
		panic(errors.New("vertex already holds a corner for the entity").
			WithTag("id", uint64(id)))
	}
	v.corners[id] = c
}

// removeID drops the corner of the given entity. Returns true when it
// was the last one and the whole vertex must go.
func (v vertex) removeID(id models.Identifier) bool {
	if len(v.corners) == 1 {
		if _, ok := v.corners[id]; !ok {
			panic(errors.New("last stored id does not match the one requested to remove").
				WithTag("id", uint64(id)))
		}
		return true
	}

	if _, ok := v.corners[id]; !ok {
		panic(errors.New("vertex does not hold a corner for the entity").
			WithTag("id", uint64(id)))
	}
	delete(v.corners, id)
	return false
}

// appendIntersections records, for every corner sharing the vertex,
// its first crossing with the split segments.
func (v vertex) appendIntersections(ints *intersections, ss SplitSegments) {
	for id, c := range v.corners {
		if p, ok := c.sides().firstIntersection(ss); ok {
			ints.insert(id, p, c)
		}
	}
}

// The number of distinct vertex positions a leaf holds before it
// splits, and the combined count below which subnodes collapse back
// into one leaf. Keeping both bounds equal makes insert followed by
// remove restore the previous topology.
const nodeCapacity = 4

// vertexes is the bounded vertex collection held by a leaf node.
type vertexes []vertex

// insert merges vx into a vertex with the same position or appends it.
// When the leaf already holds nodeCapacity distinct positions, vx is
// handed back and the caller must split.
func (vxs *vertexes) insert(vx vertex) (vertex, bool) {
	for _, existing := range *vxs {
		if !existing.pos.AroundEqualNarrow(vx.pos) {
			continue
		}

		for id, c := range vx.corners {
			existing.insertCorner(id, c)
		}
		return vertex{}, false
	}

	if len(*vxs) == nodeCapacity {
		return vx, true
	}

	*vxs = append(*vxs, vx)
	return vertex{}, false
}

// remove drops the corner with the given id from the vertex at pos.
func (vxs *vertexes) remove(pos geom.Vec, id models.Identifier) removeResult {
	if len(*vxs) == 0 {
		panic(errors.New("vertexes is already empty"))
	}

	index := -1
	for i, vx := range *vxs {
		if vx.pos.AroundEqualNarrow(pos) {
			index = i
			break
		}
	}
	if index < 0 {
		panic(errors.New("no vertex at the requested position").
			WithTag("id", uint64(id)).
			WithTag("x", pos.X).
			WithTag("y", pos.Y))
	}

	if (*vxs)[index].removeID(id) {
		last := len(*vxs) - 1
		(*vxs)[index] = (*vxs)[last]
		(*vxs)[last] = vertex{}
		*vxs = (*vxs)[:last]

		if len(*vxs) == 0 {
			return removeVertexJustRemovedEmpty
		}
		return removeVertexJustRemoved
	}

	return removeIDJustRemoved
}

// intersection is a crossing point between entity hull sides and the
// split segments of a subdivided node.
type intersection struct {
	pos     geom.Vec
	corners map[models.Identifier]corner
}

// intersections is the crossing store of a subdivided node. An entity
// is recorded at most once per node, even when its hull crosses the
// node's split segments at two points.
type intersections []intersection

func (ints intersections) containsID(id models.Identifier) bool {
	for _, in := range ints {
		if _, ok := in.corners[id]; ok {
			return true
		}
	}
	return false
}

// insert records a crossing of the entity at pos, unless the entity
// already has one recorded on this node.
func (ints *intersections) insert(id models.Identifier, pos geom.Vec, c corner) {
	if ints.containsID(id) {
		return
	}

	for _, in := range *ints {
		if in.pos.AroundEqualNarrow(pos) {
			in.corners[id] = c
			return
		}
	}

	*ints = append(*ints, intersection{
		pos:     pos,
		corners: map[models.Identifier]corner{id: c},
	})
}

// remove drops the entity's recorded crossing, if any.
func (ints *intersections) remove(id models.Identifier) {
	for i, in := range *ints {
		if len(in.corners) == 1 {
			if _, ok := in.corners[id]; ok {
				*ints = append((*ints)[:i], (*ints)[i+1:]...)
				return
			}
			continue
		}

		delete(in.corners, id)
	}
}

func (ints *intersections) clear() {
	*ints = (*ints)[:0]
}

// Package quadtree implements the spatial index used by the editor to
// answer point, proximity and range queries over entity bounding
// hulls.
//
// The tree stores the vertexes of the non-rotated rectangle
// encompassing each entity and the intersections of its sides with the
// segments partitioning the space into nodes, so entities spanning a
// node boundary are found even where they own no vertex.
package quadtree

import (
	"github.com/aukilabs/go-tooling/pkg/errors"
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
)

// WorldHalfSize is the default half side length of the addressable
// world.
const WorldHalfSize = float32(16384)

// Half side of the probe square used by proximity queries, scaled by
// the camera zoom.
const nearProbeHalfSide = float32(5)

// The outcome of an entity insertion.
type InsertResult int

const (
	Inserted InsertResult = iota
	AlreadyPresent
)

// QuadTree is a dynamically balancing spatial index over bidimensional
// entities. Nodes live in a flat arena; child references are indexes
// into it. The zero value is not usable, use New.
//
// A QuadTree is owned by a single caller. No internal synchronization
// is performed.
type QuadTree struct {
	name     string
	world    Square
	nodes    []node
	vacant   []int
	recycled []intersections
	entities map[models.Identifier]geom.Hull
}

// New returns a tree whose root covers a square world of the given
// half side length, centered on the origin. The name labels the tree
// in metrics.
func New(name string, worldHalfSize float32) *QuadTree {
	if worldHalfSize <= 0 {
		panic(errors.New("world half size must be positive").
			WithTag("world_half_size", worldHalfSize))
	}

	t := &QuadTree{
		name:     name,
		world:    NewSquare(geom.Vec{X: -worldHalfSize, Y: worldHalfSize}, worldHalfSize*2),
		nodes:    make([]node, 0, 256),
		entities: make(map[models.Identifier]geom.Hull),
	}
	t.nodes = append(t.nodes, node{square: t.world})
	instrumentNodeCount(t.name, 1)
	return t
}

func (t *QuadTree) node(index int) *node {
	return &t.nodes[index]
}

// WorldHull returns the addressable world bounds.
func (t *QuadTree) WorldHull() geom.Hull {
	return t.world.Hull()
}

// Len returns the number of indexed entities.
func (t *QuadTree) Len() int {
	return len(t.entities)
}

// Contains reports whether the entity is indexed.
func (t *QuadTree) Contains(id models.Identifier) bool {
	_, ok := t.entities[id]
	return ok
}

// EntityHull returns the hull the entity was indexed with.
func (t *QuadTree) EntityHull(id models.Identifier) (geom.Hull, bool) {
	hull, ok := t.entities[id]
	return hull, ok
}

// InsertEntity indexes the entity's hull. Returns AlreadyPresent
// without touching the tree when the entity is indexed already.
func (t *QuadTree) InsertEntity(e models.Entity) InsertResult {
	if t.Contains(e.ID()) {
		return AlreadyPresent
	}

	t.InsertHull(e.ID(), e.Hull())
	return Inserted
}

// InsertEntityWith indexes the entity with a lazily computed hull.
func (t *QuadTree) InsertEntityWith(id models.Identifier, hullFn models.HullFunc) InsertResult {
	if t.Contains(id) {
		return AlreadyPresent
	}

	t.InsertHull(id, hullFn())
	return Inserted
}

// InsertHull indexes an (id, hull) pair: the hull's four corners are
// inserted at the root and its sides' crossings are recorded on every
// already subdivided node they overlap. Inserting an id that is
// already indexed is a caller bookkeeping defect and panics.
func (t *QuadTree) InsertHull(id models.Identifier, hull geom.Hull) {
	if t.Contains(id) {
		panic(errors.New("entity is already indexed").
			WithTag("tree", t.name).
			WithTag("id", uint64(id)))
	}

	for _, kind := range hull.Corners() {
		if !nodeInsert(t, 0, newVertex(id, cornerFromHull(hull, kind))) {
			panic(errors.New("hull corner is outside the world bounds").
				WithTag("tree", t.name).
				WithTag("id", uint64(id)).
				WithTag("corner", kind.String()))
		}
	}

	for _, s := range sidesFromHull(hull) {
		nodeInsertIntersections(t, 0, id, s, hull)
	}

	t.entities[id] = hull
	instrumentEntityCount(t.name, len(t.entities))
}

// ReplaceHull reindexes the entity under its current hull. Returns
// false when the two hulls are approximately equal and nothing was
// done.
func (t *QuadTree) ReplaceHull(id models.Identifier, current, previous geom.Hull) bool {
	if previous.AroundEqualNarrow(current) {
		return false
	}

	t.RemoveHull(id, previous)
	t.InsertHull(id, current)
	return true
}

// RemoveEntity removes the entity from the index. Returns false when
// the entity was not indexed.
func (t *QuadTree) RemoveEntity(e models.Entity) bool {
	return t.RemoveID(e.ID())
}

// RemoveID removes the entity using the hull it was indexed with.
func (t *QuadTree) RemoveID(id models.Identifier) bool {
	hull, ok := t.entities[id]
	if !ok {
		return false
	}

	t.RemoveHull(id, hull)
	return true
}

// RemoveHull removes the (id, hull) pair. Removing an id that is not
// indexed is a caller bookkeeping defect and panics.
func (t *QuadTree) RemoveHull(id models.Identifier, hull geom.Hull) {
	if !t.Contains(id) {
		panic(errors.New("entity is not indexed").
			WithTag("tree", t.name).
			WithTag("id", uint64(id)))
	}

	for _, pos := range hull.Vertexes() {
		switch nodeRemove(t, 0, pos, id) {
		case removeNone:
			panic(errors.New("hull was not in the quad tree").
				WithTag("tree", t.name).
				WithTag("id", uint64(id)))

		case removeVertexJustRemovedEmpty:
			t.node(0).clearLeaf()
		}
	}

	nodeRemoveIntersections(t, 0, id, hull)

	delete(t.entities, id)
	instrumentEntityCount(t.name, len(t.entities))
}

// EntitiesAtPos stores in out the entities whose hull contains pos.
func (t *QuadTree) EntitiesAtPos(out *IDSet, pos geom.Vec) {
	nodeEntitiesAtPos(t, out, 0, pos)
	out.retain(func(_ models.Identifier, hull geom.Hull) bool {
		return hull.ContainsPoint(pos)
	})
}

// EntitiesNearPos stores in out the entities whose hull overlaps a
// probe square centered on pos and sized by cameraScale. The result is
// a superset of EntitiesAtPos for the same position.
func (t *QuadTree) EntitiesNearPos(out *IDSet, pos geom.Vec, cameraScale float32) {
	if cameraScale <= 0 {
		panic(errors.New("camera scale must be positive").
			WithTag("camera_scale", cameraScale))
	}

	probe := geom.Square(nearProbeHalfSide * cameraScale).Translated(pos)
	nodeIntersectRange(t, out, 0, probe)
	out.retain(func(_ models.Identifier, hull geom.Hull) bool {
		return hull.Overlaps(probe)
	})
}

// EntitiesInRange stores in out the entities whose hull is fully
// contained in rng.
func (t *QuadTree) EntitiesInRange(out *IDSet, rng geom.Hull) {
	nodeIntersectRange(t, out, 0, rng)
	out.retain(func(_ models.Identifier, hull geom.Hull) bool {
		return rng.ContainsHull(hull)
	})
}

// EntitiesIntersectRange stores in out the entities whose hull
// overlaps rng.
func (t *QuadTree) EntitiesIntersectRange(out *IDSet, rng geom.Hull) {
	nodeIntersectRange(t, out, 0, rng)
	out.retain(func(_ models.Identifier, hull geom.Hull) bool {
		return rng.Overlaps(hull)
	})
}

// Clear resets the tree to a single empty root.
func (t *QuadTree) Clear() {
	t.nodes = t.nodes[:0]
	t.nodes = append(t.nodes, node{square: t.world})
	t.vacant = t.vacant[:0]

	for id := range t.entities {
		delete(t.entities, id)
	}

	instrumentNodeCount(t.name, 1)
	instrumentEntityCount(t.name, 0)
}

// insertNode stores a new node sized by square in the arena, reusing a
// vacant spot when one exists. Returns the index it landed at.
func (t *QuadTree) insertNode(square Square) int {
	if len(t.vacant) > 0 {
		index := t.vacant[len(t.vacant)-1]
		t.vacant = t.vacant[:len(t.vacant)-1]
		t.nodes[index] = node{square: square}
		instrumentNodeCount(t.name, len(t.nodes)-len(t.vacant))
		return index
	}

	t.nodes = append(t.nodes, node{square: square})
	instrumentNodeCount(t.name, len(t.nodes)-len(t.vacant))
	return len(t.nodes) - 1
}

// removeNode wipes the node at index, returns its vertexes and marks
// the spot reusable.
func (t *QuadTree) removeNode(index int) vertexes {
	n := t.node(index)
	if n.isSubdivided() {
		panic(errors.New("tried to wipe a subdivided node"))
	}

	vxs := n.vertexes
	t.nodes[index] = node{}
	t.vacant = append(t.vacant, index)
	instrumentNodeCount(t.name, len(t.nodes)-len(t.vacant))
	return vxs
}

// collectIntersections stores an intersections store for reuse.
func (t *QuadTree) collectIntersections(ints intersections) {
	if ints == nil {
		return
	}
	ints.clear()
	t.recycled = append(t.recycled, ints)
}

// newIntersections returns a recycled intersections store, or a fresh
// one.
func (t *QuadTree) newIntersections() intersections {
	if len(t.recycled) == 0 {
		return nil
	}

	ints := t.recycled[len(t.recycled)-1]
	t.recycled = t.recycled[:len(t.recycled)-1]
	return ints
}

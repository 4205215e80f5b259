package quadtree

import (
	"testing"

	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
	"github.com/stretchr/testify/require"
)

type testEntity struct {
	id   models.Identifier
	hull geom.Hull
}

func (e testEntity) ID() models.Identifier { return e.id }
func (e testEntity) Hull() geom.Hull       { return e.hull }

func liveNodes(t *QuadTree) int {
	return len(t.nodes) - len(t.vacant)
}

// requireNodeContentExclusive walks the arena and checks every live
// node holds exactly one content kind.
func requireNodeContentExclusive(t *testing.T, tree *QuadTree) {
	t.Helper()

	vacant := make(map[int]struct{}, len(tree.vacant))
	for _, i := range tree.vacant {
		vacant[i] = struct{}{}
	}

	for i := range tree.nodes {
		if _, ok := vacant[i]; ok {
			continue
		}

		n := tree.node(i)
		if n.isSubdivided() {
			require.Empty(t, n.vertexes, "subdivided node %d holds vertexes", i)
			continue
		}
		require.Empty(t, n.intersections, "non subdivided node %d holds intersections", i)
	}
}

func TestNew(t *testing.T) {
	t.Run("non positive world size panics", func(t *testing.T) {
		require.Panics(t, func() {
			New("bad-world", 0)
		})
	})

	tree := New("new", 64)
	require.Equal(t, geom.NewHull(64, -64, -64, 64), tree.WorldHull())
	require.Zero(t, tree.Len())
	require.Equal(t, 1, liveNodes(tree))
}

func TestQuadTreeInsertAndQueryAtPos(t *testing.T) {
	tree := New("insert-query", 64)
	hull := geom.NewHull(10, -10, -10, 10)
	tree.InsertHull(1, hull)

	require.Equal(t, 1, tree.Len())
	require.True(t, tree.Contains(1))
	require.Equal(t, 1, liveNodes(tree))

	stored, ok := tree.EntityHull(1)
	require.True(t, ok)
	require.Equal(t, hull, stored)

	t.Run("position inside the hull", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{})
		require.Equal(t, 1, out.Len())
		require.True(t, out.Contains(1))
	})

	t.Run("position outside the hull", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{X: 30, Y: 30})
		require.Zero(t, out.Len())
	})
}

func TestQuadTreeSplitsOnFifthPosition(t *testing.T) {
	tree := New("split", 64)
	tree.InsertHull(1, geom.NewHull(10, -10, -10, 10))
	require.Equal(t, 1, liveNodes(tree))

	// The fifth distinct corner position subdivides the root.
	tree.InsertHull(2, geom.NewHull(30, 20, 20, 30))
	require.Equal(t, 5, liveNodes(tree))
	require.True(t, tree.node(0).isSubdivided())
	requireNodeContentExclusive(t, tree)

	t.Run("each entity is found at its own area", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{})
		require.Equal(t, 1, out.Len())
		require.True(t, out.Contains(1))

		out.Clear()
		tree.EntitiesAtPos(out, geom.Vec{X: 25, Y: 25})
		require.Equal(t, 1, out.Len())
		require.True(t, out.Contains(2))
	})

	t.Run("uncovered position finds nothing", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{X: 50, Y: -50})
		require.Zero(t, out.Len())
	})
}

// A hull crossing a subdivided node's split segments must be found at
// positions inside children where it owns no vertex.
func TestQuadTreeFindsBoundaryCrossingHull(t *testing.T) {
	tree := New("crossing", 64)
	tree.InsertHull(1, geom.NewHull(10, 8, 8, 10))
	tree.InsertHull(2, geom.NewHull(60, 58, 58, 60))
	require.Equal(t, 9, liveNodes(tree))

	probe := geom.Vec{X: 20, Y: 10}

	out := NewIDSet()
	tree.EntitiesAtPos(out, probe)
	require.Zero(t, out.Len())

	crossing := geom.NewHull(40, -8, 8, 40)
	tree.InsertHull(3, crossing)
	requireNodeContentExclusive(t, tree)

	t.Run("found where it has no vertex", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, probe)
		require.Equal(t, 1, out.Len())
		require.True(t, out.Contains(3))

		hull, ok := out.Hull(3)
		require.True(t, ok)
		require.Equal(t, crossing, hull)
	})

	t.Run("small neighbor keeps being found", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{X: 9, Y: 9})
		require.Equal(t, 2, out.Len())
		require.True(t, out.Contains(1))
		require.True(t, out.Contains(3))
	})

	t.Run("removal clears the crossings", func(t *testing.T) {
		tree.RemoveHull(3, crossing)

		out := NewIDSet()
		tree.EntitiesAtPos(out, probe)
		require.Zero(t, out.Len())
		requireNodeContentExclusive(t, tree)
	})
}

func TestQuadTreeRemovalRestoresTopology(t *testing.T) {
	tree := New("round-trip", 64)
	first := geom.NewHull(10, 8, 8, 10)
	second := geom.NewHull(60, 58, 58, 60)

	tree.InsertHull(1, first)
	tree.InsertHull(2, second)
	require.Equal(t, 9, liveNodes(tree))

	tree.RemoveHull(2, second)
	require.Equal(t, 1, liveNodes(tree))
	require.True(t, tree.node(0).isLeaf())
	requireNodeContentExclusive(t, tree)

	out := NewIDSet()
	tree.EntitiesAtPos(out, geom.Vec{X: 9, Y: 9})
	require.Equal(t, 1, out.Len())
	require.True(t, out.Contains(1))

	tree.RemoveHull(1, first)
	require.Zero(t, tree.Len())
	require.True(t, tree.node(0).isEmpty())

	out.Clear()
	tree.EntitiesIntersectRange(out, tree.WorldHull())
	require.Zero(t, out.Len())

	// The emptied tree accepts the same hulls again.
	tree.InsertHull(1, first)
	require.Equal(t, 1, tree.Len())
}

func TestQuadTreeSharedCornerPositions(t *testing.T) {
	tree := New("shared", 64)
	hull := geom.NewHull(10, -10, -10, 10)

	for id := models.Identifier(1); id <= 4; id++ {
		tree.InsertHull(id, hull)
	}

	// Coincident corners share vertexes, so no split happens.
	require.Equal(t, 1, liveNodes(tree))
	require.True(t, tree.node(0).isLeaf())

	out := NewIDSet()
	tree.EntitiesAtPos(out, geom.Vec{})
	require.Equal(t, 4, out.Len())

	tree.RemoveHull(1, hull)

	require.Equal(t, 1, liveNodes(tree))
	require.True(t, tree.node(0).isLeaf())

	out.Clear()
	tree.EntitiesAtPos(out, geom.Vec{})
	require.Equal(t, 3, out.Len())
	require.False(t, out.Contains(1))
}

// Five entities clustered in one quadrant subdivide it, and range
// queries over the whole world keep finding every one of them.
func TestQuadTreeClusteredQuadrant(t *testing.T) {
	tree := New("cluster", 500)

	centers := []geom.Vec{
		{X: 50, Y: 50},
		{X: 150, Y: 150},
		{X: 50, Y: 150},
		{X: 150, Y: 50},
		{X: 100, Y: 100},
	}
	for i, center := range centers {
		tree.InsertHull(models.Identifier(i+1), geom.Square(5).Translated(center))
	}

	require.True(t, tree.node(0).isSubdivided())
	requireNodeContentExclusive(t, tree)

	out := NewIDSet()
	tree.EntitiesInRange(out, tree.WorldHull())
	require.Equal(t, len(centers), out.Len())
	for i := range centers {
		require.True(t, out.Contains(models.Identifier(i+1)))
	}
}

// Removing the entities that forced a split collapses the subnodes back
// into a leaf that still holds the survivors.
func TestQuadTreeCollapseKeepsSurvivors(t *testing.T) {
	tree := New("survivors", 64)
	kept := geom.NewHull(10, 8, 8, 10)
	churned := geom.NewHull(60, 58, 58, 60)

	tree.InsertHull(1, kept)
	tree.InsertHull(2, kept)
	tree.InsertHull(3, churned)
	tree.InsertHull(4, churned)
	tree.InsertHull(5, churned)
	require.True(t, tree.node(0).isSubdivided())

	tree.RemoveHull(3, churned)
	tree.RemoveHull(4, churned)
	tree.RemoveHull(5, churned)

	require.Equal(t, 1, liveNodes(tree))
	require.True(t, tree.node(0).isLeaf())
	requireNodeContentExclusive(t, tree)

	out := NewIDSet()
	tree.EntitiesAtPos(out, geom.Vec{X: 9, Y: 9})
	require.Equal(t, 2, out.Len())
	require.True(t, out.Contains(1))
	require.True(t, out.Contains(2))
}

func TestQuadTreeRangeQueries(t *testing.T) {
	tree := New("ranges", 64)
	tree.InsertHull(1, geom.NewHull(10, -10, -10, 10))

	t.Run("containment is strict", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesInRange(out, geom.NewHull(5, -5, -5, 5))
		require.Zero(t, out.Len())

		tree.EntitiesInRange(out, geom.NewHull(20, -20, -20, 20))
		require.Equal(t, 1, out.Len())
	})

	t.Run("intersection accepts partial overlap", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesIntersectRange(out, geom.NewHull(5, -5, -5, 5))
		require.Equal(t, 1, out.Len())

		out.Clear()
		tree.EntitiesIntersectRange(out, geom.NewHull(60, 40, 40, 60))
		require.Zero(t, out.Len())
	})
}

func TestQuadTreeWorldRangeIsComplete(t *testing.T) {
	tree := New("world-range", 1024)

	const count = 10
	for i := 0; i < count; i++ {
		center := geom.Vec{X: float32(i)*100 - 450, Y: float32(i)*50 - 225}
		tree.InsertHull(
			models.Identifier(i+1),
			geom.Square(10).Translated(center),
		)
	}
	requireNodeContentExclusive(t, tree)

	out := NewIDSet()
	tree.EntitiesInRange(out, tree.WorldHull())
	require.Equal(t, count, out.Len())
	for i := 0; i < count; i++ {
		require.True(t, out.Contains(models.Identifier(i+1)))
	}

	t.Run("disjoint range finds nothing", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesInRange(out, geom.Square(20).Translated(geom.Vec{X: 900, Y: -900}))
		require.Zero(t, out.Len())
	})
}

func TestQuadTreeNearPosIsSupersetOfAtPos(t *testing.T) {
	tree := New("near-superset", 64)
	tree.InsertHull(1, geom.NewHull(10, 8, 8, 10))
	tree.InsertHull(2, geom.NewHull(60, 58, 58, 60))
	tree.InsertHull(3, geom.NewHull(40, -8, 8, 40))

	probes := []geom.Vec{
		{},
		{X: 9, Y: 9},
		{X: 20, Y: 10},
		{X: 40, Y: 32},
		{X: 60, Y: 59},
	}

	for _, pos := range probes {
		at := NewIDSet()
		tree.EntitiesAtPos(at, pos)

		near := NewIDSet()
		tree.EntitiesNearPos(near, pos, 1)

		at.Each(func(id models.Identifier, _ geom.Hull) {
			require.True(t, near.Contains(id), "id %d missing near %v", id, pos)
		})
	}
}

func TestQuadTreeNearPosFindsNeighbor(t *testing.T) {
	tree := New("near-neighbor", 64)
	tree.InsertHull(1, geom.NewHull(4, 3, 3, 4))

	out := NewIDSet()
	tree.EntitiesAtPos(out, geom.Vec{})
	require.Zero(t, out.Len())

	t.Run("probe square reaches it", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesNearPos(out, geom.Vec{}, 1)
		require.Equal(t, 1, out.Len())
		require.True(t, out.Contains(1))
	})

	t.Run("zoomed out probe reaches further", func(t *testing.T) {
		out := NewIDSet()
		tree.EntitiesNearPos(out, geom.Vec{X: -10}, 1)
		require.Zero(t, out.Len())

		tree.EntitiesNearPos(out, geom.Vec{X: -10}, 3)
		require.Equal(t, 1, out.Len())
	})
}

func TestQuadTreeInsertEntity(t *testing.T) {
	tree := New("insert-entity", 64)
	e := testEntity{id: 1, hull: geom.NewHull(10, -10, -10, 10)}

	require.Equal(t, Inserted, tree.InsertEntity(e))
	require.Equal(t, AlreadyPresent, tree.InsertEntity(e))
	require.Equal(t, 1, tree.Len())

	t.Run("lazy hull is not computed twice", func(t *testing.T) {
		var calls int
		hullFn := func() geom.Hull {
			calls++
			return geom.NewHull(30, 20, 20, 30)
		}

		require.Equal(t, Inserted, tree.InsertEntityWith(2, hullFn))
		require.Equal(t, AlreadyPresent, tree.InsertEntityWith(2, hullFn))
		require.Equal(t, 1, calls)
	})

	t.Run("remove by entity and id", func(t *testing.T) {
		require.True(t, tree.RemoveEntity(e))
		require.False(t, tree.RemoveEntity(e))

		require.True(t, tree.RemoveID(2))
		require.False(t, tree.RemoveID(2))
		require.Zero(t, tree.Len())
	})
}

func TestQuadTreeReplaceHull(t *testing.T) {
	tree := New("replace", 64)
	hull := geom.NewHull(10, -10, -10, 10)
	tree.InsertHull(1, hull)

	t.Run("unchanged hull is a no-op", func(t *testing.T) {
		require.False(t, tree.ReplaceHull(1, hull, hull))
		require.Equal(t, 1, tree.Len())
	})

	t.Run("moved hull is reindexed", func(t *testing.T) {
		moved := hull.Translated(geom.Vec{X: 40, Y: 40})
		require.True(t, tree.ReplaceHull(1, moved, hull))

		stored, ok := tree.EntityHull(1)
		require.True(t, ok)
		require.Equal(t, moved, stored)

		out := NewIDSet()
		tree.EntitiesAtPos(out, geom.Vec{})
		require.Zero(t, out.Len())

		tree.EntitiesAtPos(out, geom.Vec{X: 40, Y: 40})
		require.Equal(t, 1, out.Len())
	})
}

func TestQuadTreeClear(t *testing.T) {
	tree := New("clear", 64)
	tree.InsertHull(1, geom.NewHull(10, 8, 8, 10))
	tree.InsertHull(2, geom.NewHull(60, 58, 58, 60))

	tree.Clear()

	require.Zero(t, tree.Len())
	require.Equal(t, 1, liveNodes(tree))
	require.True(t, tree.node(0).isEmpty())

	out := NewIDSet()
	tree.EntitiesIntersectRange(out, tree.WorldHull())
	require.Zero(t, out.Len())

	tree.InsertHull(1, geom.NewHull(10, 8, 8, 10))
	require.Equal(t, 1, tree.Len())
}

func TestQuadTreePanicsOnBookkeepingDefects(t *testing.T) {
	t.Run("double insert", func(t *testing.T) {
		tree := New("dup", 64)
		tree.InsertHull(1, geom.NewHull(10, -10, -10, 10))

		require.Panics(t, func() {
			tree.InsertHull(1, geom.NewHull(30, 20, 20, 30))
		})
	})

	t.Run("corner outside the world", func(t *testing.T) {
		tree := New("oob", 64)
		require.Panics(t, func() {
			tree.InsertHull(1, geom.NewHull(70, 60, 0, 10))
		})
	})

	t.Run("removing an unknown entity", func(t *testing.T) {
		tree := New("absent", 64)
		require.Panics(t, func() {
			tree.RemoveHull(1, geom.NewHull(10, -10, -10, 10))
		})
	})

	t.Run("non positive camera scale", func(t *testing.T) {
		tree := New("scale", 64)
		require.Panics(t, func() {
			tree.EntitiesNearPos(NewIDSet(), geom.Vec{}, 0)
		})
	})
}

func TestQuadTreeChurnKeepsContentExclusive(t *testing.T) {
	tree := New("churn", 1024)

	hulls := make(map[models.Identifier]geom.Hull)
	for i := 0; i < 32; i++ {
		id := models.Identifier(i + 1)
		center := geom.Vec{
			X: float32(i%8)*200 - 700,
			Y: float32(i/8)*200 - 300,
		}
		hulls[id] = geom.Square(float32(i%5)*8 + 4).Translated(center)
		tree.InsertHull(id, hulls[id])
	}
	requireNodeContentExclusive(t, tree)

	for id, hull := range hulls {
		if id%3 != 0 {
			continue
		}
		tree.RemoveHull(id, hull)
		delete(hulls, id)
	}
	requireNodeContentExclusive(t, tree)

	out := NewIDSet()
	tree.EntitiesInRange(out, tree.WorldHull())
	require.Equal(t, len(hulls), out.Len())
	for id := range hulls {
		require.True(t, out.Contains(id))
	}
}

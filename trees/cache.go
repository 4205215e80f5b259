package trees

import (
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/quadtree"
)

// Extra space added around the viewport so panning does not pop
// entities in and out exactly at the edge. Scaled by the camera zoom.
const viewportPadding = float32(64)

// posCache memoizes the result of a position query. The memoized set
// is returned as long as the cache is clean and the query key matches
// the previous one within tolerance.
type posCache struct {
	category  string
	ids       *quadtree.IDSet
	dirty     bool
	lastPos   geom.Vec
	lastScale float32
}

func newPosCache(category string) posCache {
	return posCache{
		category: category,
		ids:      quadtree.NewIDSet(),
		dirty:    true,
	}
}

func (c *posCache) setDirty() {
	c.dirty = true
}

// update refreshes the memoized set through query when the cache is
// dirty or the key changed.
func (c *posCache) update(pos geom.Vec, cameraScale float32, query func(*quadtree.IDSet, geom.Vec, float32)) {
	if !c.dirty && c.lastPos.AroundEqualNarrow(pos) && c.lastScale == cameraScale {
		instrumentCacheHit(c.category, cacheShapePos)
		return
	}

	instrumentCacheMiss(c.category, cacheShapePos)

	c.lastPos = pos
	c.lastScale = cameraScale
	c.ids.Clear()

	query(c.ids, pos, cameraScale)
	c.dirty = false
}

// viewportCache memoizes the set of entities intersecting the padded
// viewport.
type viewportCache struct {
	category     string
	ids          *quadtree.IDSet
	dirty        bool
	lastViewport geom.Hull
}

func newViewportCache(category string) viewportCache {
	return viewportCache{
		category: category,
		ids:      quadtree.NewIDSet(),
		dirty:    true,
	}
}

func (c *viewportCache) setDirty() {
	c.dirty = true
}

// update refreshes the memoized set through query when the cache is
// dirty or the padded viewport moved.
func (c *viewportCache) update(viewport geom.Hull, cameraScale float32, query func(*quadtree.IDSet, geom.Hull)) {
	padded := viewport.Bumped(viewportPadding * cameraScale)

	if !c.dirty && c.lastViewport.AroundEqualNarrow(padded) {
		instrumentCacheHit(c.category, cacheShapeViewport)
		return
	}

	instrumentCacheMiss(c.category, cacheShapeViewport)

	c.lastViewport = padded
	c.ids.Clear()

	query(c.ids, padded)
	c.dirty = false
}

// Package trees layers memoizing query caches over one quadtree per
// entity category: brushes, paths, anchors, sprites and things.
//
// Queries are issued up to once per frame from several independent
// call sites while the underlying set only changes on edits, so each
// structural mutation marks its category's caches dirty and clean
// caches answer from the memoized result.
package trees

import (
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
	"github.com/ivoryduke/quadindex/quadtree"
)

// Trees bundles the per-category quadtrees with their query caches.
// Like the trees it wraps, a Trees is owned and driven by a single
// caller; query methods may refresh caches internally and must not
// race with mutators.
type Trees struct {
	brushesTree *quadtree.QuadTree
	pathsTree   *quadtree.QuadTree
	anchorsTree *quadtree.QuadTree
	spritesTree *quadtree.QuadTree
	thingsTree  *quadtree.QuadTree

	brushesAtPos posCache
	pathsAtPos   posCache
	spritesAtPos posCache
	thingsAtPos  posCache

	visibleBrushes viewportCache
	visiblePaths   viewportCache
	visibleAnchors viewportCache
	visibleSprites viewportCache
	visibleThings  viewportCache

	brushesInRange *quadtree.IDSet
	spritesInRange *quadtree.IDSet
	thingsInRange  *quadtree.IDSet
}

// New returns a Trees over a world with the default half size.
func New() *Trees {
	return NewSized(quadtree.WorldHalfSize)
}

// NewSized returns a Trees over a square world of the given half side
// length, centered on the origin.
func NewSized(worldHalfSize float32) *Trees {
	return &Trees{
		brushesTree: quadtree.New("brushes", worldHalfSize),
		pathsTree:   quadtree.New("paths", worldHalfSize),
		anchorsTree: quadtree.New("anchors", worldHalfSize),
		spritesTree: quadtree.New("sprites", worldHalfSize),
		thingsTree:  quadtree.New("things", worldHalfSize),

		brushesAtPos: newPosCache("brushes"),
		pathsAtPos:   newPosCache("paths"),
		spritesAtPos: newPosCache("sprites"),
		thingsAtPos:  newPosCache("things"),

		visibleBrushes: newViewportCache("brushes"),
		visiblePaths:   newViewportCache("paths"),
		visibleAnchors: newViewportCache("anchors"),
		visibleSprites: newViewportCache("sprites"),
		visibleThings:  newViewportCache("things"),

		brushesInRange: quadtree.NewIDSet(),
		spritesInRange: quadtree.NewIDSet(),
		thingsInRange:  quadtree.NewIDSet(),
	}
}

// WorldHull returns the addressable world bounds.
func (t *Trees) WorldHull() geom.Hull {
	return t.brushesTree.WorldHull()
}

// Stats is a per-category count of the indexed hulls.
type Stats struct {
	Brushes int `json:"brushes"`
	Paths   int `json:"paths"`
	Anchors int `json:"anchors"`
	Sprites int `json:"sprites"`
	Things  int `json:"things"`
}

// Stats returns the current per-category counts.
func (t *Trees) Stats() Stats {
	return Stats{
		Brushes: t.brushesTree.Len(),
		Paths:   t.pathsTree.Len(),
		Anchors: t.anchorsTree.Len(),
		Sprites: t.spritesTree.Len(),
		Things:  t.thingsTree.Len(),
	}
}

// InsertBrushHull indexes the hull of brush.
func (t *Trees) InsertBrushHull(brush models.Entity) {
	t.brushesTree.InsertEntity(brush)
	t.SetBrushesDirty()
}

// RemoveBrushHull removes the hull of brush.
func (t *Trees) RemoveBrushHull(brush models.Entity) {
	t.brushesTree.RemoveEntity(brush)
	t.SetBrushesDirty()
}

// ReplaceBrushHull reindexes the brush with the given id under its
// current hull.
func (t *Trees) ReplaceBrushHull(id models.Identifier, current, previous geom.Hull) {
	t.brushesTree.ReplaceHull(id, current, previous)
	t.SetBrushesDirty()
}

// InsertPathHull indexes the path hull of the entity with the given
// id.
func (t *Trees) InsertPathHull(id models.Identifier, hull geom.Hull) {
	t.pathsTree.InsertHull(id, hull)
	t.SetPathsDirty()
}

// RemovePathHull removes the path hull of the entity with the given
// id.
func (t *Trees) RemovePathHull(id models.Identifier, hull geom.Hull) {
	t.pathsTree.RemoveHull(id, hull)
	t.SetPathsDirty()
}

// ReplacePathHull reindexes the path hull of the entity with the
// given id.
func (t *Trees) ReplacePathHull(id models.Identifier, current, previous geom.Hull) {
	t.pathsTree.ReplaceHull(id, current, previous)
	t.SetPathsDirty()
}

// InsertAnchorHull indexes the anchor hull of the brush with the
// given owner id.
func (t *Trees) InsertAnchorHull(ownerID models.Identifier, hull geom.Hull) {
	t.anchorsTree.InsertHull(ownerID, hull)
	t.SetAnchorsDirty()
}

// RemoveAnchorHull removes the anchor hull of the brush with the
// given owner id.
func (t *Trees) RemoveAnchorHull(ownerID models.Identifier, hull geom.Hull) {
	t.anchorsTree.RemoveHull(ownerID, hull)
	t.SetAnchorsDirty()
}

// InsertSpriteHull indexes the sprite hull of the brush with the
// given id. The hull is computed lazily since it may depend on the
// loaded texture size.
func (t *Trees) InsertSpriteHull(id models.Identifier, hullFn models.HullFunc) {
	t.spritesTree.InsertEntityWith(id, hullFn)
	t.SetSpritesDirty()
}

// RemoveSpriteHull removes the sprite hull of the brush with the
// given id.
func (t *Trees) RemoveSpriteHull(id models.Identifier, hull geom.Hull) {
	t.spritesTree.RemoveHull(id, hull)
	t.SetSpritesDirty()
}

// ReplaceSpriteHull reindexes the sprite hull of the brush with the
// given id.
func (t *Trees) ReplaceSpriteHull(id models.Identifier, current, previous geom.Hull) {
	t.spritesTree.ReplaceHull(id, current, previous)
	t.SetSpritesDirty()
}

// InsertThingHull indexes the hull of thing.
func (t *Trees) InsertThingHull(thing models.Entity) {
	t.thingsTree.InsertEntity(thing)
	t.SetThingsDirty()
}

// RemoveThingHull removes the hull of thing.
func (t *Trees) RemoveThingHull(thing models.Entity) {
	t.thingsTree.RemoveEntity(thing)
	t.SetThingsDirty()
}

// ReplaceThingHull reindexes the thing with the given id under its
// current hull.
func (t *Trees) ReplaceThingHull(id models.Identifier, current, previous geom.Hull) {
	t.thingsTree.ReplaceHull(id, current, previous)
	t.SetThingsDirty()
}

// SetBrushesDirty forces the brush caches to recompute on their next
// query.
func (t *Trees) SetBrushesDirty() {
	t.brushesAtPos.setDirty()
	t.visibleBrushes.setDirty()
}

// SetPathsDirty forces the path caches to recompute on their next
// query.
func (t *Trees) SetPathsDirty() {
	t.pathsAtPos.setDirty()
	t.visiblePaths.setDirty()
}

// SetAnchorsDirty forces the anchor caches to recompute on their next
// query.
func (t *Trees) SetAnchorsDirty() {
	t.visibleAnchors.setDirty()
}

// SetSpritesDirty forces the sprite caches to recompute on their next
// query.
func (t *Trees) SetSpritesDirty() {
	t.spritesAtPos.setDirty()
	t.visibleSprites.setDirty()
}

// SetThingsDirty forces the thing caches to recompute on their next
// query.
func (t *Trees) SetThingsDirty() {
	t.thingsAtPos.setDirty()
	t.visibleThings.setDirty()
}

// BrushesAtPos returns the brushes at pos, or near it when
// cameraScale is positive. The returned set is owned by the cache and
// valid until the next query or mutation.
func (t *Trees) BrushesAtPos(pos geom.Vec, cameraScale float32) *quadtree.IDSet {
	t.brushesAtPos.update(pos, cameraScale, func(ids *quadtree.IDSet, pos geom.Vec, scale float32) {
		if scale > 0 {
			t.brushesTree.EntitiesNearPos(ids, pos, scale)
			return
		}

		t.brushesTree.EntitiesAtPos(ids, pos)
	})

	return t.brushesAtPos.ids
}

// BrushesInRange returns the brushes fully contained in rng.
func (t *Trees) BrushesInRange(rng geom.Hull) *quadtree.IDSet {
	t.brushesInRange.Clear()
	t.brushesTree.EntitiesInRange(t.brushesInRange, rng)
	return t.brushesInRange
}

// PathsAtPos returns the entities owning a path near pos.
func (t *Trees) PathsAtPos(pos geom.Vec, cameraScale float32) *quadtree.IDSet {
	t.pathsAtPos.update(pos, cameraScale, func(ids *quadtree.IDSet, pos geom.Vec, scale float32) {
		t.pathsTree.EntitiesNearPos(ids, pos, scale)
	})

	return t.pathsAtPos.ids
}

// SpritesAtPos returns the brushes whose sprite is at pos.
func (t *Trees) SpritesAtPos(pos geom.Vec) *quadtree.IDSet {
	t.spritesAtPos.update(pos, 0, func(ids *quadtree.IDSet, pos geom.Vec, _ float32) {
		t.spritesTree.EntitiesAtPos(ids, pos)
	})

	return t.spritesAtPos.ids
}

// SpritesInRange returns the brushes whose sprite is fully contained
// in rng.
func (t *Trees) SpritesInRange(rng geom.Hull) *quadtree.IDSet {
	t.spritesInRange.Clear()
	t.spritesTree.EntitiesInRange(t.spritesInRange, rng)
	return t.spritesInRange
}

// ThingsAtPos returns the things at pos, or near it when cameraScale
// is positive.
func (t *Trees) ThingsAtPos(pos geom.Vec, cameraScale float32) *quadtree.IDSet {
	t.thingsAtPos.update(pos, cameraScale, func(ids *quadtree.IDSet, pos geom.Vec, scale float32) {
		if scale > 0 {
			t.thingsTree.EntitiesNearPos(ids, pos, scale)
			return
		}

		t.thingsTree.EntitiesAtPos(ids, pos)
	})

	return t.thingsAtPos.ids
}

// ThingsInRange returns the things fully contained in rng.
func (t *Trees) ThingsInRange(rng geom.Hull) *quadtree.IDSet {
	t.thingsInRange.Clear()
	t.thingsTree.EntitiesInRange(t.thingsInRange, rng)
	return t.thingsInRange
}

// VisibleBrushes returns the brushes intersecting the padded
// viewport.
func (t *Trees) VisibleBrushes(viewport geom.Hull, cameraScale float32) *quadtree.IDSet {
	t.visibleBrushes.update(viewport, cameraScale, func(ids *quadtree.IDSet, padded geom.Hull) {
		t.brushesTree.EntitiesIntersectRange(ids, padded)
	})

	return t.visibleBrushes.ids
}

// VisiblePaths returns the paths intersecting the padded viewport.
func (t *Trees) VisiblePaths(viewport geom.Hull, cameraScale float32) *quadtree.IDSet {
	t.visiblePaths.update(viewport, cameraScale, func(ids *quadtree.IDSet, padded geom.Hull) {
		t.pathsTree.EntitiesIntersectRange(ids, padded)
	})

	return t.visiblePaths.ids
}

// VisibleAnchors returns the anchors intersecting the padded
// viewport.
func (t *Trees) VisibleAnchors(viewport geom.Hull, cameraScale float32) *quadtree.IDSet {
	t.visibleAnchors.update(viewport, cameraScale, func(ids *quadtree.IDSet, padded geom.Hull) {
		t.anchorsTree.EntitiesIntersectRange(ids, padded)
	})

	return t.visibleAnchors.ids
}

// VisibleSprites returns the sprites intersecting the padded
// viewport.
func (t *Trees) VisibleSprites(viewport geom.Hull, cameraScale float32) *quadtree.IDSet {
	t.visibleSprites.update(viewport, cameraScale, func(ids *quadtree.IDSet, padded geom.Hull) {
		t.spritesTree.EntitiesIntersectRange(ids, padded)
	})

	return t.visibleSprites.ids
}

// VisibleThings returns the things intersecting the padded viewport.
func (t *Trees) VisibleThings(viewport geom.Hull, cameraScale float32) *quadtree.IDSet {
	t.visibleThings.update(viewport, cameraScale, func(ids *quadtree.IDSet, padded geom.Hull) {
		t.thingsTree.EntitiesIntersectRange(ids, padded)
	})

	return t.visibleThings.ids
}

package models

import "github.com/ivoryduke/quadindex/geom"

// Entity is an editor entity with a stable identifier and an axis
// aligned bounding hull.
type Entity interface {
	// Returns the entity identifier.
	ID() Identifier

	// Returns the current bounding hull.
	Hull() geom.Hull
}

// HullFunc computes a bounding hull on demand. It is used where the
// hull cannot be known upfront, such as a sprite whose hull depends on
// the loaded texture size.
type HullFunc func() geom.Hull

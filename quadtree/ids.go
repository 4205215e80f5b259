package quadtree

import (
	"github.com/ivoryduke/quadindex/geom"
	"github.com/ivoryduke/quadindex/models"
)

// IDSet stores the identifiers collected by a query, each with the
// hull it was indexed under. Sets are reused across queries to avoid
// per-call allocation.
type IDSet struct {
	m map[models.Identifier]geom.Hull
}

func NewIDSet() *IDSet {
	return &IDSet{m: make(map[models.Identifier]geom.Hull)}
}

func (s *IDSet) insert(id models.Identifier, hull geom.Hull) {
	s.m[id] = hull
}

// Contains reports whether the set holds the identifier.
func (s *IDSet) Contains(id models.Identifier) bool {
	_, ok := s.m[id]
	return ok
}

// Hull returns the hull stored for the identifier.
func (s *IDSet) Hull(id models.Identifier) (geom.Hull, bool) {
	hull, ok := s.m[id]
	return hull, ok
}

// Len returns the number of stored identifiers.
func (s *IDSet) Len() int {
	return len(s.m)
}

// IDs returns the stored identifiers. Order is unspecified.
func (s *IDSet) IDs() []models.Identifier {
	ids := make([]models.Identifier, 0, len(s.m))
	for id := range s.m {
		ids = append(ids, id)
	}
	return ids
}

// Each calls f for every stored (identifier, hull) pair.
func (s *IDSet) Each(f func(models.Identifier, geom.Hull)) {
	for id, hull := range s.m {
		f(id, hull)
	}
}

// Clear drops the stored identifiers.
func (s *IDSet) Clear() {
	for id := range s.m {
		delete(s.m, id)
	}
}

// retain keeps only the pairs for which f returns true.
func (s *IDSet) retain(f func(models.Identifier, geom.Hull) bool) {
	for id, hull := range s.m {
		if !f(id, hull) {
			delete(s.m, id)
		}
	}
}

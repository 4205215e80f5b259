package models

// Identifier uniquely identifies an editor entity. It is stable for
// the entity's whole lifetime and usable as a map key.
type Identifier uint64

// A sequential identifier generator.
type IDGenerator struct {
	currentID   Identifier
	reusableIDs map[Identifier]struct{}
}

// New returns a sequential identifier. Identifiers marked as reusable
// are returned in priority.
func (g *IDGenerator) New() Identifier {
	for id := range g.reusableIDs {
		delete(g.reusableIDs, id)
		return id
	}

	g.currentID++
	return g.currentID
}

// Reuse marks the given identifier as reusable.
func (g *IDGenerator) Reuse(id Identifier) {
	if g.reusableIDs == nil {
		g.reusableIDs = make(map[Identifier]struct{})
	}

	g.reusableIDs[id] = struct{}{}
}

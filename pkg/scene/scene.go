package scene

import (
	"github.com/google/uuid"
)

// Entry is a renderable and its identifier.
type Entry struct {
	ID   uuid.UUID
	Name string
	Item Renderable
}

// Scene is an ordered collection of renderables. Order is paint order:
// there is no depth test, so later entries overwrite earlier ones.
type Scene struct {
	entries []Entry
}

// New creates an empty scene.
func New() *Scene {
	return &Scene{}
}

// Add appends r to the scene and returns its identifier.
func (s *Scene) Add(name string, r Renderable) uuid.UUID {
	id := uuid.New()
	s.entries = append(s.entries, Entry{ID: id, Name: name, Item: r})
	return id
}

// Find returns the renderable with the given identifier.
func (s *Scene) Find(id uuid.UUID) (Renderable, bool) {
	for _, e := range s.entries {
		if e.ID == id {
			return e.Item, true
		}
	}
	return nil, false
}

// Len returns the number of renderables.
func (s *Scene) Len() int {
	return len(s.entries)
}

// Each calls fn for every entry in paint order.
func (s *Scene) Each(fn func(Entry)) {
	for _, e := range s.entries {
		fn(e)
	}
}

// Animate applies every object's spin once.
func (s *Scene) Animate() {
	for _, e := range s.entries {
		e.Item.Base().Animate()
	}
}

// TriangleCount returns the total number of triangles submitted per frame.
func (s *Scene) TriangleCount() int {
	n := 0
	for _, e := range s.entries {
		n += len(e.Item.Triangles())
	}
	return n
}

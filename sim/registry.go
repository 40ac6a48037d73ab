package sim

import (
	"sort"
)

// Registry owns the dwellers of a world, keyed by ID.
type Registry struct {
	dwellers map[ID]*Dweller
}

func NewRegistry() *Registry {
	return &Registry{dwellers: make(map[ID]*Dweller)}
}

func (r *Registry) Add(d *Dweller) bool {
	if _, exists := r.dwellers[d.ID]; exists {
		return false
	}
	r.dwellers[d.ID] = d
	return true
}

func (r *Registry) Remove(id ID) (*Dweller, bool) {
	d, ok := r.dwellers[id]
	if ok {
		delete(r.dwellers, id)
	}
	return d, ok
}

func (r *Registry) Get(id ID) (*Dweller, bool) {
	d, ok := r.dwellers[id]
	return d, ok
}

func (r *Registry) Len() int {
	return len(r.dwellers)
}

// Sorted returns the dwellers in ascending ID order.
func (r *Registry) Sorted() []*Dweller {
	out := make([]*Dweller, 0, len(r.dwellers))
	for _, d := range r.dwellers {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// CountBySpecies returns the population of each species.
func (r *Registry) CountBySpecies() map[Species]int {
	out := make(map[Species]int)
	for _, d := range r.dwellers {
		out[d.Species]++
	}
	return out
}

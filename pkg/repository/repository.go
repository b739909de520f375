// Package repository groups pathways and the virtual pathways derived from them.
//
// A [Repository] indexes pathways by identifier and by category. A
// [VirtualPathway] is a named subset of the edges of a source pathway; its
// node and edge lists are derived from the source graph on first use and
// reference the source's objects rather than copying them.
package repository

import (
	"maps"
	"slices"
	"sync"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
)

// Repository is a collection of pathways plus virtual pathways.
// It is built once and read concurrently afterwards; mutation is not safe
// while engines are running.
type Repository struct {
	pathways   map[string]*pathway.Pathway
	categories map[string]map[string]struct{}
	virtual    map[string]*VirtualPathway

	mu       sync.Mutex // guards universe
	universe []string
}

// New creates an empty repository.
func New() *Repository {
	return &Repository{
		pathways:   make(map[string]*pathway.Pathway),
		categories: make(map[string]map[string]struct{}),
		virtual:    make(map[string]*VirtualPathway),
	}
}

// Add registers a pathway. An existing pathway with the same ID is replaced.
func (r *Repository) Add(p *pathway.Pathway) error {
	if err := perrors.ValidateIdentifier("pathway", p.ID); err != nil {
		return err
	}
	if old, ok := r.pathways[p.ID]; ok {
		r.unindex(old)
	}
	r.pathways[p.ID] = p
	r.resetUniverse()
	for _, c := range p.Categories {
		if r.categories[c] == nil {
			r.categories[c] = make(map[string]struct{})
		}
		r.categories[c][p.ID] = struct{}{}
	}
	return nil
}

// Remove deletes a pathway and every virtual pathway derived from it.
func (r *Repository) Remove(id string) {
	p, ok := r.pathways[id]
	if !ok {
		return
	}
	r.unindex(p)
	delete(r.pathways, id)
	r.resetUniverse()
	for vid, v := range r.virtual {
		if v.source == p {
			delete(r.virtual, vid)
		}
	}
}

func (r *Repository) resetUniverse() {
	r.mu.Lock()
	r.universe = nil
	r.mu.Unlock()
}

func (r *Repository) unindex(p *pathway.Pathway) {
	for _, c := range p.Categories {
		delete(r.categories[c], p.ID)
		if len(r.categories[c]) == 0 {
			delete(r.categories, c)
		}
	}
}

// Get returns the pathway with the given ID.
func (r *Repository) Get(id string) (*pathway.Pathway, bool) {
	p, ok := r.pathways[id]
	return p, ok
}

// Len returns the number of pathways, hidden ones included.
func (r *Repository) Len() int { return len(r.pathways) }

// All returns every pathway, hidden ones included, ordered by ID.
func (r *Repository) All() []*pathway.Pathway {
	out := make([]*pathway.Pathway, 0, len(r.pathways))
	for _, id := range slices.Sorted(maps.Keys(r.pathways)) {
		out = append(out, r.pathways[id])
	}
	return out
}

// Pathways returns the visible pathways ordered by ID.
func (r *Repository) Pathways() []*pathway.Pathway {
	var out []*pathway.Pathway
	for _, p := range r.All() {
		if !p.Hidden {
			out = append(out, p)
		}
	}
	return out
}

// Categories returns all category names in sorted order.
func (r *Repository) Categories() []string { return slices.Sorted(maps.Keys(r.categories)) }

// ByCategory returns the pathways tagged with category c, ordered by ID.
func (r *Repository) ByCategory(c string) []*pathway.Pathway {
	ids := slices.Sorted(maps.Keys(r.categories[c]))
	out := make([]*pathway.Pathway, 0, len(ids))
	for _, id := range ids {
		out = append(out, r.pathways[id])
	}
	return out
}

// NodeUniverse returns the sorted distinct node IDs across all pathway
// graphs, hidden pathways included. The result is cached until the set of
// pathways changes.
func (r *Repository) NodeUniverse() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.universe != nil {
		return r.universe
	}
	seen := make(map[string]struct{})
	for _, p := range r.pathways {
		if p.Graph == nil {
			continue
		}
		for _, id := range p.Graph.NodeIDs() {
			seen[id] = struct{}{}
		}
	}
	r.universe = slices.Sorted(maps.Keys(seen))
	return r.universe
}

// NodeIndex maps every node ID in the repository to the pathways (visible or
// hidden) whose graph contains it.
func (r *Repository) NodeIndex() map[string][]string {
	idx := make(map[string][]string)
	for _, p := range r.All() {
		if p.Graph == nil {
			continue
		}
		for _, id := range p.Graph.NodeIDs() {
			idx[id] = append(idx[id], p.ID)
		}
	}
	return idx
}

package pathway

import "slices"

// Pathway is a named analysis unit owning a graph. A pathway without a graph
// is inert: engines skip it. Hidden pathways stay available as sources for
// virtual pathways but are not reported on their own.
type Pathway struct {
	ID         string
	Name       string
	Categories []string
	Graph      *Graph
	Hidden     bool
}

// New creates a pathway that owns g. The graph owner is set to id so that
// descriptions added afterwards are attributed to this pathway.
func New(id, name string, g *Graph, categories ...string) *Pathway {
	if g != nil {
		g.SetOwner(id)
	}
	return &Pathway{ID: id, Name: name, Categories: categories, Graph: g}
}

// HasGraph reports whether the pathway owns a non-nil graph.
func (p *Pathway) HasGraph() bool { return p.Graph != nil }

// IsEmpty reports whether the pathway has no graph, no nodes or no edges.
// Empty pathways are skipped by the engines.
func (p *Pathway) IsEmpty() bool {
	return p.Graph == nil || p.Graph.NodeCount() == 0 || p.Graph.EdgeCount() == 0
}

// InCategory reports whether the pathway is tagged with category c.
func (p *Pathway) InCategory(c string) bool { return slices.Contains(p.Categories, c) }

package repository

import (
	"maps"
	"slices"
	"sync"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
)

// EdgeRef identifies an edge of the source graph by its endpoints.
type EdgeRef struct {
	Start string
	End   string
}

// VirtualPathway is a named subset of a source pathway's edges. Its nodes
// are the endpoints of the referenced edges. The derived lists are computed
// once and point to the source graph's own objects.
type VirtualPathway struct {
	ID   string
	Name string

	source *pathway.Pathway
	refs   []EdgeRef

	once  sync.Once
	nodes []*pathway.Node
	edges []*pathway.Edge
}

// Source returns the pathway the virtual pathway is drawn from.
func (v *VirtualPathway) Source() *pathway.Pathway { return v.source }

// Refs returns a copy of the edge references.
func (v *VirtualPathway) Refs() []EdgeRef { return slices.Clone(v.refs) }

// Nodes returns the source nodes touched by the referenced edges, ordered by ID.
func (v *VirtualPathway) Nodes() []*pathway.Node {
	v.materialize()
	return v.nodes
}

// NodeIDs returns the IDs of [VirtualPathway.Nodes].
func (v *VirtualPathway) NodeIDs() []string {
	nodes := v.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

// Edges returns the referenced source edges in reference order.
func (v *VirtualPathway) Edges() []*pathway.Edge {
	v.materialize()
	return v.edges
}

func (v *VirtualPathway) materialize() {
	v.once.Do(func() {
		g := v.source.Graph
		seen := make(map[string]*pathway.Node)
		for _, ref := range v.refs {
			e, ok := g.Edge(ref.Start, ref.End)
			if !ok {
				continue
			}
			v.edges = append(v.edges, e)
			for _, id := range []string{e.Start, e.End} {
				if n, ok := g.Node(id); ok {
					seen[id] = n
				}
			}
		}
		for _, id := range slices.Sorted(maps.Keys(seen)) {
			v.nodes = append(v.nodes, seen[id])
		}
	})
}

// AddVirtual registers a virtual pathway over the edges of source.
//
// Returns PATHWAY_NOT_FOUND if the source does not exist or has no graph,
// and NODE_NOT_FOUND if a reference names an edge absent from the source.
func (r *Repository) AddVirtual(id, name, source string, refs []EdgeRef) (*VirtualPathway, error) {
	if err := perrors.ValidateIdentifier("virtual pathway", id); err != nil {
		return nil, err
	}
	src, ok := r.pathways[source]
	if !ok || src.Graph == nil {
		return nil, perrors.New(perrors.ErrCodePathwayNotFound, "virtual pathway %s: source pathway %q not found", id, source)
	}
	for _, ref := range refs {
		if _, ok := src.Graph.Edge(ref.Start, ref.End); !ok {
			return nil, perrors.New(perrors.ErrCodeNodeNotFound, "virtual pathway %s: edge %s->%s not in %s", id, ref.Start, ref.End, source)
		}
	}
	v := &VirtualPathway{ID: id, Name: name, source: src, refs: slices.Clone(refs)}
	r.virtual[id] = v
	return v, nil
}

// Virtual returns the virtual pathway with the given ID.
func (r *Repository) Virtual(id string) (*VirtualPathway, bool) {
	v, ok := r.virtual[id]
	return v, ok
}

// VirtualPathways returns all virtual pathways ordered by ID.
func (r *Repository) VirtualPathways() []*VirtualPathway {
	out := make([]*VirtualPathway, 0, len(r.virtual))
	for _, id := range slices.Sorted(maps.Keys(r.virtual)) {
		out = append(out, r.virtual[id])
	}
	return out
}

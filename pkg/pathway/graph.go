package pathway

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// a node ID is empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.AddNode] when a node with the
	// same ID already exists in the graph.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrNodeNotFound is returned by traversals and lookups that start from a
	// node which is not part of the graph.
	ErrNodeNotFound = errors.New("node not found")
)

// Graph is a directed multigraph of pathway nodes. Each ordered pair of
// nodes has at most one [Edge]; additional relations between the same pair
// are merged into that edge as extra descriptions.
//
// Adjacency is kept in both directions keyed by node ID. Upstream and
// downstream reachability counts are cached per node and invalidated on any
// structural change.
//
// The zero value is not usable - use NewGraph. Graph is not safe for
// concurrent mutation; concurrent reads of a graph that is no longer being
// modified are safe except for the cached counters (see [Graph.CountUpstream]).
type Graph struct {
	owner     string
	nodes     map[string]*Node
	out       map[string]map[string]*Edge // start -> end -> edge
	in        map[string]map[string]*Edge // end -> start -> edge
	endpoints map[string]struct{}
	edgeCount int

	upCount   map[string]int
	downCount map[string]int
}

// NewGraph creates an empty graph. owner is the identifier of the pathway the
// graph belongs to; it is stamped on edge descriptions that have no owner.
func NewGraph(owner string) *Graph {
	return &Graph{
		owner:     owner,
		nodes:     make(map[string]*Node),
		out:       make(map[string]map[string]*Edge),
		in:        make(map[string]map[string]*Edge),
		endpoints: make(map[string]struct{}),
	}
}

// Owner returns the pathway identifier that owns this graph.
func (g *Graph) Owner() string { return g.owner }

// SetOwner changes the owner stamped on descriptions added from now on.
func (g *Graph) SetOwner(owner string) { g.owner = owner }

// AddNode adds a node to the graph. Returns ErrInvalidNodeID for an empty ID
// and ErrDuplicateNodeID when the ID is already present.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return ErrDuplicateNodeID
	}
	node := n
	g.nodes[n.ID] = &node
	g.invalidate()
	return nil
}

// Node returns the node with the given ID and true, or nil and false if not found.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// HasNode reports whether the graph contains a node with the given ID.
func (g *Graph) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// FindByAlias returns the node whose ID or alias equals id. Direct ID matches
// win; otherwise nodes are searched in ID order.
func (g *Graph) FindByAlias(id string) (*Node, bool) {
	if n, ok := g.nodes[id]; ok {
		return n, true
	}
	for _, n := range g.Nodes() {
		if n.HasAlias(id) {
			return n, true
		}
	}
	return nil, false
}

// RemoveNode deletes a node together with all its incident edges and its
// endpoint mark. Removing a missing node is a no-op.
func (g *Graph) RemoveNode(id string) {
	if _, ok := g.nodes[id]; !ok {
		return
	}
	for end := range g.out[id] {
		delete(g.in[end], id)
		g.edgeCount--
	}
	for start := range g.in[id] {
		if start == id {
			continue // self loop already counted above
		}
		delete(g.out[start], id)
		g.edgeCount--
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
	delete(g.endpoints, id)
	g.invalidate()
}

// AddEdge inserts e into the graph.
//
// Missing endpoint nodes are created with the endpoint ID and type
// NodeTypeOther. Descriptions with an empty owner are stamped with the
// graph owner. If an edge between the same endpoints already exists, the
// descriptions of e are merged into it and no new edge is created.
//
// The edge actually stored in the graph is returned.
func (g *Graph) AddEdge(e *Edge) (*Edge, error) {
	if e.Start == "" || e.End == "" {
		return nil, ErrInvalidNodeID
	}
	for _, id := range []string{e.Start, e.End} {
		if _, ok := g.nodes[id]; !ok {
			g.nodes[id] = &Node{ID: id, Name: id}
		}
	}

	stored, ok := g.out[e.Start][e.End]
	if !ok {
		stored = &Edge{Start: e.Start, End: e.End}
		if g.out[e.Start] == nil {
			g.out[e.Start] = make(map[string]*Edge)
		}
		if g.in[e.End] == nil {
			g.in[e.End] = make(map[string]*Edge)
		}
		g.out[e.Start][e.End] = stored
		g.in[e.End][e.Start] = stored
		g.edgeCount++
	}
	for _, d := range e.descriptions {
		if d.Owner == "" {
			d.Owner = g.owner
		}
		stored.AddDescription(d)
	}
	g.invalidate()
	return stored, nil
}

// Connect is a convenience wrapper around AddEdge for a single description.
func (g *Graph) Connect(start, end string, t EdgeType, s EdgeSubtype) (*Edge, error) {
	return g.AddEdge(NewEdge(start, end, EdgeDescription{Type: t, Subtype: s}))
}

// Edge returns the edge start→end if present.
func (g *Graph) Edge(start, end string) (*Edge, bool) {
	e, ok := g.out[start][end]
	return e, ok
}

// Edges returns all edges ordered by (start, end).
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, g.edgeCount)
	for _, start := range slices.Sorted(maps.Keys(g.out)) {
		edges = append(edges, g.OutEdges(start)...)
	}
	return edges
}

// OutEdges returns the edges leaving id, ordered by end node ID.
func (g *Graph) OutEdges(id string) []*Edge {
	return sortedEdges(g.out[id], func(e *Edge) string { return e.End })
}

// InEdges returns the edges entering id, ordered by start node ID.
func (g *Graph) InEdges(id string) []*Edge {
	return sortedEdges(g.in[id], func(e *Edge) string { return e.Start })
}

func sortedEdges(m map[string]*Edge, key func(*Edge) string) []*Edge {
	if len(m) == 0 {
		return nil
	}
	edges := slices.Collect(maps.Values(m))
	slices.SortFunc(edges, func(a, b *Edge) int { return strings.Compare(key(a), key(b)) })
	return edges
}

// Children returns the IDs of the direct successors of id in sorted order.
func (g *Graph) Children(id string) []string { return slices.Sorted(maps.Keys(g.out[id])) }

// Parents returns the IDs of the direct predecessors of id in sorted order.
func (g *Graph) Parents(id string) []string { return slices.Sorted(maps.Keys(g.in[id])) }

// OutDegree returns the number of edges leaving the node, or 0 if it does not exist.
func (g *Graph) OutDegree(id string) int { return len(g.out[id]) }

// InDegree returns the number of edges entering the node, or 0 if it does not exist.
func (g *Graph) InDegree(id string) int { return len(g.in[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges. A multi-edge counts once.
func (g *Graph) EdgeCount() int { return g.edgeCount }

// Nodes returns all nodes ordered by ID. The pointers refer to the graph's
// own nodes.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		nodes = append(nodes, g.nodes[id])
	}
	return nodes
}

// NodeIDs returns all node IDs in sorted order.
func (g *Graph) NodeIDs() []string { return slices.Sorted(maps.Keys(g.nodes)) }

// AddEndpoint marks an existing node as a terminal node of interest.
func (g *Graph) AddEndpoint(id string) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrNodeNotFound
	}
	g.endpoints[id] = struct{}{}
	return nil
}

// IsEndpoint reports whether id is marked as an endpoint.
func (g *Graph) IsEndpoint(id string) bool {
	_, ok := g.endpoints[id]
	return ok
}

// Endpoints returns the endpoint IDs in sorted order.
func (g *Graph) Endpoints() []string { return slices.Sorted(maps.Keys(g.endpoints)) }

// Sources returns nodes with no incoming edges, ordered by ID.
func (g *Graph) Sources() []*Node {
	var sources []*Node
	for _, n := range g.Nodes() {
		if len(g.in[n.ID]) == 0 {
			sources = append(sources, n)
		}
	}
	return sources
}

func (g *Graph) invalidate() {
	g.upCount = nil
	g.downCount = nil
}

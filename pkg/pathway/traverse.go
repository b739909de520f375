package pathway

// VisitResult tells a walk what to do after visiting a node.
type VisitResult int

const (
	// Continue expands the neighbors of the visited node.
	Continue VisitResult = iota
	// Prune skips the neighbors of the visited node but keeps walking other branches.
	Prune
	// Stop aborts the whole walk.
	Stop
)

// Visitor is called once for every node reached by a walk.
type Visitor func(n *Node) VisitResult

// Upstream returns every node from which id can be reached, each exactly
// once, in depth-first discovery order. The start node itself is only
// included when it lies on a cycle back to itself.
func (g *Graph) Upstream(id string) ([]*Node, error) {
	return g.collect(id, g.in, func(e *Edge) string { return e.Start })
}

// Downstream returns every node reachable from id, each exactly once, in
// depth-first discovery order. The start node itself is only included when
// it lies on a cycle back to itself.
func (g *Graph) Downstream(id string) ([]*Node, error) {
	return g.collect(id, g.out, func(e *Edge) string { return e.End })
}

// WalkUpstream visits the predecessors of id depth-first, honoring the
// visitor's Continue/Prune/Stop decisions. Each node is visited at most once.
func (g *Graph) WalkUpstream(id string, visit Visitor) error {
	return g.walk(id, g.in, func(e *Edge) string { return e.Start }, visit)
}

// WalkDownstream visits the successors of id depth-first, honoring the
// visitor's Continue/Prune/Stop decisions. Each node is visited at most once.
func (g *Graph) WalkDownstream(id string, visit Visitor) error {
	return g.walk(id, g.out, func(e *Edge) string { return e.End }, visit)
}

func (g *Graph) collect(id string, adj map[string]map[string]*Edge, next func(*Edge) string) ([]*Node, error) {
	var nodes []*Node
	err := g.walk(id, adj, next, func(n *Node) VisitResult {
		nodes = append(nodes, n)
		return Continue
	})
	return nodes, err
}

// walk is an iterative DFS; pathway graphs can be deep enough that a
// recursive walk would grow the stack without bound.
func (g *Graph) walk(id string, adj map[string]map[string]*Edge, next func(*Edge) string, visit Visitor) error {
	if _, ok := g.nodes[id]; !ok {
		return ErrNodeNotFound
	}

	visited := make(map[string]bool)
	stack := g.neighbors(id, adj, next)
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		switch visit(g.nodes[cur]) {
		case Stop:
			return nil
		case Prune:
			continue
		}
		for _, nb := range g.neighbors(cur, adj, next) {
			if !visited[nb] {
				stack = append(stack, nb)
			}
		}
	}
	return nil
}

// neighbors returns adjacent IDs in reverse sorted order so that popping
// from the stack yields them in ascending order.
func (g *Graph) neighbors(id string, adj map[string]map[string]*Edge, next func(*Edge) string) []string {
	edges := sortedEdges(adj[id], next)
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[len(edges)-1-i] = next(e)
	}
	return ids
}

// CountUpstream returns the number of nodes from which id is reachable.
// Results are cached until the graph changes. The cache is filled lazily,
// so concurrent callers must synchronize.
func (g *Graph) CountUpstream(id string) (int, error) {
	if g.upCount == nil {
		g.upCount = make(map[string]int)
	}
	return g.count(id, g.upCount, g.Upstream)
}

// CountDownstream returns the number of nodes reachable from id.
// Results are cached until the graph changes.
func (g *Graph) CountDownstream(id string) (int, error) {
	if g.downCount == nil {
		g.downCount = make(map[string]int)
	}
	return g.count(id, g.downCount, g.Downstream)
}

func (g *Graph) count(id string, cache map[string]int, reach func(string) ([]*Node, error)) (int, error) {
	if c, ok := cache[id]; ok {
		return c, nil
	}
	nodes, err := reach(id)
	if err != nil {
		return 0, err
	}
	cache[id] = len(nodes)
	return len(nodes), nil
}

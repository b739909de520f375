package propagation

import (
	"cmp"
	"slices"

	"github.com/pathwaylab/pathsim/pkg/pathway"
)

// Order returns the pseudo-topological node order of g.
//
// Nodes are ranked by (in-degree asc, out-degree desc, ID asc). A DFS is
// started from every unvisited node in rank order, children are visited in
// rank order, and the reverse post-order of the resulting forest is
// returned. Every node appears exactly once.
func Order(g *pathway.Graph) []string {
	ranked := g.NodeIDs()
	slices.SortStableFunc(ranked, func(a, b string) int {
		if c := cmp.Compare(g.InDegree(a), g.InDegree(b)); c != 0 {
			return c
		}
		if c := cmp.Compare(g.OutDegree(b), g.OutDegree(a)); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	rank := make(map[string]int, len(ranked))
	for i, id := range ranked {
		rank[id] = i
	}

	children := func(id string) []string {
		c := g.Children(id)
		slices.SortFunc(c, func(a, b string) int { return cmp.Compare(rank[a], rank[b]) })
		return c
	}

	type frame struct {
		id   string
		kids []string
		next int
	}

	visited := make(map[string]bool, len(ranked))
	post := make([]string, 0, len(ranked))
	for _, root := range ranked {
		if visited[root] {
			continue
		}
		visited[root] = true
		stack := []frame{{id: root, kids: children(root)}}
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			if top.next < len(top.kids) {
				kid := top.kids[top.next]
				top.next++
				if !visited[kid] {
					visited[kid] = true
					stack = append(stack, frame{id: kid, kids: children(kid)})
				}
				continue
			}
			post = append(post, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	slices.Reverse(post)
	return post
}

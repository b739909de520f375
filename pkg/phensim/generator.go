package phensim

import (
	"maps"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/pathwaylab/pathsim/pkg/repository"
)

const (
	maxRelaxations = 100
	maxRetries     = 100
)

// target is one constrained node of a replicate.
type target struct {
	id string
	c  Constraint
}

// outDegrees returns, for every node of the repository, the number of
// distinct successors over all pathway graphs.
func outDegrees(repo *repository.Repository) map[string]int {
	succ := make(map[string]map[string]struct{})
	for _, p := range repo.All() {
		if p.Graph == nil {
			continue
		}
		for _, id := range p.Graph.NodeIDs() {
			if succ[id] == nil {
				succ[id] = make(map[string]struct{})
			}
			for _, c := range p.Graph.Children(id) {
				succ[id][c] = struct{}{}
			}
		}
	}
	deg := make(map[string]int, len(succ))
	for id, s := range succ {
		deg[id] = len(s)
	}
	return deg
}

// candidateSet returns the nodes whose out-degree is at least the minimum
// out-degree of the constrained nodes. The threshold is lowered one step at
// a time until the set has more than need nodes; after maxRelaxations
// attempts, or at degree 0, every node is a candidate.
func candidateSet(degrees map[string]int, constrained []string, need int) []string {
	threshold := -1
	for _, id := range constrained {
		if d := degrees[id]; threshold < 0 || d < threshold {
			threshold = d
		}
	}
	all := slices.Sorted(maps.Keys(degrees))
	for range maxRelaxations {
		if threshold <= 0 {
			break
		}
		var set []string
		for _, id := range all {
			if degrees[id] >= threshold {
				set = append(set, id)
			}
		}
		if len(set) > need {
			return set
		}
		threshold--
	}
	return all
}

// subsetGenerator draws random subsets of the candidate set of a fixed size,
// avoiding subsets it has already produced.
type subsetGenerator struct {
	candidates []string
	size       int
	seen       map[string]struct{}
}

func newSubsetGenerator(candidates []string, size int, exclude []string) *subsetGenerator {
	g := &subsetGenerator{
		candidates: candidates,
		size:       min(size, len(candidates)),
		seen:       make(map[string]struct{}),
	}
	g.seen[subsetKey(exclude)] = struct{}{}
	return g
}

// next returns a subset in draw order. After maxRetries duplicates in a row
// the last duplicate is returned.
func (g *subsetGenerator) next(rng *rand.Rand) []string {
	var subset []string
	for range maxRetries {
		subset = subset[:0]
		for _, i := range rng.Perm(len(g.candidates))[:g.size] {
			subset = append(subset, g.candidates[i])
		}
		key := subsetKey(subset)
		if _, dup := g.seen[key]; !dup {
			g.seen[key] = struct{}{}
			return slices.Clone(subset)
		}
	}
	return slices.Clone(subset)
}

func subsetKey(ids []string) string {
	sorted := slices.Sorted(slices.Values(ids))
	return strings.Join(sorted, "\x00")
}

// remap assigns the constraints of observed, in ID order, to the nodes of
// subset in draw order.
func remap(observed []target, subset []string) []target {
	out := make([]target, len(subset))
	for i, id := range subset {
		out[i] = target{id: id, c: observed[i].c}
	}
	return out
}

// sortedTargets returns the constraints ordered by node ID.
func sortedTargets(constraints map[string]Constraint) []target {
	ids := slices.Sorted(maps.Keys(constraints))
	out := make([]target, len(ids))
	for i, id := range ids {
		out[i] = target{id: id, c: constraints[id]}
	}
	return out
}

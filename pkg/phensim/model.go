package phensim

import (
	"maps"
	"slices"

	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/repository"
)

// entry is one reported pathway: a whole table or a virtual subset of it.
type entry struct {
	id      string
	name    string
	table   int
	idx     []int // nil for the whole table
	virtual bool
}

// model is the read-only view of a repository shared by all replicates.
type model struct {
	tables  []*propagation.Table
	entries []entry

	nodes   []string
	nodeMap [][]int   // per table: table index -> node index, nil if not visible
	members []float64 // per node: number of visible tables containing it
}

func newModel(repo *repository.Repository, cat *propagation.Catalog) *model {
	m := &model{}
	index := make(map[*propagation.Table]int)
	use := func(t *propagation.Table) int {
		if i, ok := index[t]; ok {
			return i
		}
		index[t] = len(m.tables)
		m.tables = append(m.tables, t)
		m.nodeMap = append(m.nodeMap, nil)
		return index[t]
	}

	var visible []int
	for _, p := range repo.Pathways() {
		t, ok := cat.Table(p.ID)
		if !ok || t.IsEmpty() {
			continue
		}
		ti := use(t)
		visible = append(visible, ti)
		m.entries = append(m.entries, entry{id: p.ID, name: p.Name, table: ti})
	}
	for _, v := range cat.Virtual() {
		if v.Source.IsEmpty() || len(v.Nodes) == 0 {
			continue
		}
		m.entries = append(m.entries, entry{id: v.ID, name: v.Name, table: use(v.Source), idx: v.Nodes, virtual: true})
	}

	seen := make(map[string]struct{})
	for _, ti := range visible {
		for _, id := range m.tables[ti].Nodes {
			seen[id] = struct{}{}
		}
	}
	m.nodes = slices.Sorted(maps.Keys(seen))
	pos := make(map[string]int, len(m.nodes))
	for i, id := range m.nodes {
		pos[id] = i
	}
	m.members = make([]float64, len(m.nodes))
	for _, ti := range visible {
		t := m.tables[ti]
		nm := make([]int, t.Len())
		for i, id := range t.Nodes {
			nm[i] = pos[id]
			m.members[pos[id]]++
		}
		m.nodeMap[ti] = nm
	}
	return m
}

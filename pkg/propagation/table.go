package propagation

import (
	"fmt"
	"math"
	"slices"

	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/repository"
)

// Input is one incoming edge of a node: the source index and edge weight.
type Input struct {
	From   int
	Weight float64
}

// Table is the compiled, immutable form of a pathway graph.
// Index i refers to Nodes[i]; Nodes is in propagation order.
type Table struct {
	ID     string
	Nodes  []string
	Index  map[string]int
	Signs  []float64
	In     [][]Input
	OutAbs []float64 // Σ|w| over finite outgoing weights
	Edges  int
}

// Compile builds the table of g with edge weights computed by wc.
func Compile(id string, g *pathway.Graph, wc pathway.WeightComputer) (*Table, error) {
	order := Order(g)
	t := &Table{
		ID:     id,
		Nodes:  order,
		Index:  make(map[string]int, len(order)),
		Signs:  make([]float64, len(order)),
		In:     make([][]Input, len(order)),
		OutAbs: make([]float64, len(order)),
		Edges:  g.EdgeCount(),
	}
	for i, nid := range order {
		t.Index[nid] = i
		if n, ok := g.Node(nid); ok {
			t.Signs[i] = n.Type.Sign()
		}
	}
	for _, e := range g.Edges() {
		w, err := e.Weight(wc)
		if err != nil {
			return nil, fmt.Errorf("pathway %s: edge %s->%s: %w", id, e.Start, e.End, err)
		}
		from, to := t.Index[e.Start], t.Index[e.End]
		t.In[to] = append(t.In[to], Input{From: from, Weight: w})
		if !math.IsNaN(w) && !math.IsInf(w, 0) {
			t.OutAbs[from] += math.Abs(w)
		}
	}
	return t, nil
}

// Len returns the number of nodes in the table.
func (t *Table) Len() int { return len(t.Nodes) }

// IsEmpty reports whether the table has no nodes or no edges.
func (t *Table) IsEmpty() bool { return len(t.Nodes) == 0 || t.Edges == 0 }

// Fill writes expr into dst in table order; nodes missing from expr get 0.
// dst must have length t.Len().
func (t *Table) Fill(dst []float64, expr map[string]float64) {
	if len(expr) < len(t.Nodes) {
		clear(dst)
		for id, v := range expr {
			if i, ok := t.Index[id]; ok {
				dst[i] = v
			}
		}
		return
	}
	for i, id := range t.Nodes {
		dst[i] = expr[id]
	}
}

// Subset returns the table indices of ids that belong to the table, sorted.
func (t *Table) Subset(ids []string) []int {
	idx := make([]int, 0, len(ids))
	for _, id := range ids {
		if i, ok := t.Index[id]; ok {
			idx = append(idx, i)
		}
	}
	slices.Sort(idx)
	return idx
}

// VirtualEntry is a virtual pathway resolved against its source table.
type VirtualEntry struct {
	ID     string
	Name   string
	Source *Table
	Nodes  []int
}

// Catalog holds the compiled tables of a repository. It is read-only once
// built and safe for concurrent use.
type Catalog struct {
	tables  map[string]*Table
	ids     []string
	virtual []VirtualEntry
}

// BuildCatalog compiles every pathway with a graph, hidden ones included,
// and resolves every virtual pathway against its source table.
func BuildCatalog(repo *repository.Repository, wc pathway.WeightComputer) (*Catalog, error) {
	c := &Catalog{tables: make(map[string]*Table)}
	for _, p := range repo.All() {
		if p.Graph == nil {
			continue
		}
		t, err := Compile(p.ID, p.Graph, wc)
		if err != nil {
			return nil, err
		}
		c.tables[p.ID] = t
		c.ids = append(c.ids, p.ID)
	}
	for _, v := range repo.VirtualPathways() {
		src, ok := c.tables[v.Source().ID]
		if !ok {
			continue
		}
		c.virtual = append(c.virtual, VirtualEntry{
			ID:     v.ID,
			Name:   v.Name,
			Source: src,
			Nodes:  src.Subset(v.NodeIDs()),
		})
	}
	return c, nil
}

// Table returns the compiled table of a pathway.
func (c *Catalog) Table(id string) (*Table, bool) {
	t, ok := c.tables[id]
	return t, ok
}

// IDs returns the compiled pathway IDs in sorted order.
func (c *Catalog) IDs() []string { return c.ids }

// Virtual returns the resolved virtual pathways ordered by ID.
func (c *Catalog) Virtual() []VirtualEntry { return c.virtual }

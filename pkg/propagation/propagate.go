package propagation

import "math"

type state uint8

const (
	unvisited state = iota
	inProgress
	done
)

// Propagator computes perturbations over one [Table]. It owns scratch
// buffers sized to the table and is therefore not safe for concurrent use;
// create one per goroutine.
type Propagator struct {
	t     *Table
	expr  []float64
	pf    []float64
	state []state
	memo  []float64
	stamp []uint32
	gen   uint32
	clamp []bool
}

// NewPropagator returns a propagator for t.
func NewPropagator(t *Table) *Propagator {
	n := t.Len()
	return &Propagator{
		t:     t,
		expr:  make([]float64, n),
		pf:    make([]float64, n),
		state: make([]state, n),
		memo:  make([]float64, n),
		stamp: make([]uint32, n),
	}
}

// Table returns the table the propagator runs on.
func (p *Propagator) Table() *Table { return p.t }

// Clamp forces the given nodes to a perturbation of 0 on every subsequent
// run. Unknown IDs are ignored. Passing no IDs clears the clamp set.
func (p *Propagator) Clamp(ids ...string) {
	if len(ids) == 0 {
		p.clamp = nil
		return
	}
	if p.clamp == nil {
		p.clamp = make([]bool, p.t.Len())
	}
	for _, id := range ids {
		if i, ok := p.t.Index[id]; ok {
			p.clamp[i] = true
		}
	}
}

// Run propagates expr through the table and returns the perturbation of
// every node in table order, together with the dense expression vector
// used. Both slices are owned by the propagator and overwritten by the next
// call.
func (p *Propagator) Run(expr map[string]float64) (pf, e []float64) {
	p.t.Fill(p.expr, expr)
	return p.RunVector(p.expr), p.expr
}

// RunVector is Run for an expression vector already in table order.
func (p *Propagator) RunVector(expr []float64) []float64 {
	clear(p.state)
	if p.clamp != nil {
		for i, c := range p.clamp {
			if c {
				p.pf[i] = 0
				p.state[i] = done
			}
		}
	}
	for i := range p.t.Nodes {
		if p.state[i] == done {
			continue
		}
		p.next()
		p.pf[i] = p.visit(i, expr)
		p.state[i] = done
	}
	return p.pf
}

// next starts a new top-level traversal. Stamps from earlier traversals
// become stale, which empties the per-start memo without clearing it.
func (p *Propagator) next() {
	p.gen++
	if p.gen == 0 {
		clear(p.stamp)
		p.gen = 1
	}
}

func (p *Propagator) visit(i int, expr []float64) float64 {
	if p.state[i] == done {
		return p.pf[i]
	}
	if p.stamp[i] == p.gen {
		return p.memo[i]
	}
	p.stamp[i] = p.gen
	p.memo[i] = expr[i]
	p.state[i] = inProgress

	sum := expr[i]
	for _, in := range p.t.In[i] {
		term := in.Weight * p.visit(in.From, expr) / p.t.OutAbs[in.From]
		if isFinite(term) {
			sum += term
		}
	}
	p.memo[i] = sum
	p.state[i] = unvisited
	return sum
}

func isFinite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

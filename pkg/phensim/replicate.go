package phensim

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// tally holds the state counters and running mean value of a list of items.
type tally struct {
	counts [][3]float64 // indexed by State
	values []stats.Moments
}

func newTally(n int) tally {
	return tally{counts: make([][3]float64, n), values: make([]stats.Moments, n)}
}

func (t *tally) add(i int, v, eps float64) {
	t.counts[i][Classify(v, eps)]++
	t.values[i].Add(v)
}

// outcome is what one replicate produces.
type outcome struct {
	nodes       tally
	pathways    tally
	simulations int
}

// plan is a replicate prepared before submission to the pool.
type plan struct {
	index   int
	seed    [2]uint64
	targets []target
}

// runReplicate executes one replicate. Panics are converted into a
// *perrors.ReplicateError.
func (e *Engine) runReplicate(ctx context.Context, m *model, p plan) (out *outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, &perrors.ReplicateError{Index: p.index, Cause: fmt.Errorf("panic: %v", r)}
		}
	}()
	start := time.Now()
	if e.beforeReplicate != nil {
		if err := e.beforeReplicate(p.index); err != nil {
			return nil, &perrors.ReplicateError{Index: p.index, Cause: err}
		}
	}

	rng := rand.New(rand.NewPCG(p.seed[0], p.seed[1]))
	props := make([]*propagation.Propagator, len(m.tables))
	for i, t := range m.tables {
		props[i] = propagation.NewPropagator(t)
		if len(e.opts.NonExpressed) > 0 {
			props[i].Clamp(e.opts.NonExpressed...)
		}
	}

	eps := *e.opts.Epsilon
	out = &outcome{nodes: newTally(len(m.nodes)), pathways: newTally(len(m.entries))}
	expr := make(map[string]float64, len(p.targets))
	sums := make([]float64, len(m.nodes))
	runs := make([][2][]float64, len(m.tables))

	for range e.opts.Simulations {
		if err := ctx.Err(); err != nil {
			return nil, &perrors.ReplicateError{Index: p.index, Cause: err}
		}
		for _, t := range p.targets {
			expr[t.id] = e.dist.Sample(t.c, rng)
		}
		clear(sums)
		for ti, prop := range props {
			pf, ex := prop.Run(expr)
			runs[ti] = [2][]float64{pf, ex}
			for i, n := range m.nodeMap[ti] {
				sums[n] += pf[i]
			}
		}
		for i, en := range m.entries {
			t := m.tables[en.table]
			pf, ex := runs[en.table][0], runs[en.table][1]
			var acc float64
			if en.idx == nil {
				acc = propagation.Accumulation(t, pf, ex)
			} else {
				acc = propagation.SubsetAccumulation(t, en.idx, pf, ex)
			}
			out.pathways.add(i, acc, eps)
		}
		for n, s := range sums {
			out.nodes.add(n, s/m.members[n], eps)
		}
		out.simulations++
	}
	observability.Simulation().OnReplicateComplete(ctx, p.index, time.Since(start))
	return out, nil
}

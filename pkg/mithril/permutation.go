package mithril

import (
	"context"
	"math"
	"math/rand/v2"

	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// progressEvery is the number of repetitions between progress events.
const progressEvery = 100

// target is a scored pathway taking part in the permutation test.
type target struct {
	res   *PathwayResult
	table *propagation.Table
	idx   []int

	random []float64 // accumulation per repetition
	nodes  []float32 // node accumulation, len(idx) rows of R values
}

// sampler reassigns the observed values to distinct random nodes of the
// universe using a partial Fisher-Yates shuffle over a persistent pool.
// There are never more values than universe nodes.
type sampler struct {
	universe []string
	values   []float64
	pool     []int
	expr     map[string]float64
}

func newSampler(universe []string, values []float64) *sampler {
	pool := make([]int, len(universe))
	for i := range pool {
		pool[i] = i
	}
	values = values[:min(len(values), len(universe))]
	return &sampler{universe: universe, values: values, pool: pool, expr: make(map[string]float64, len(values))}
}

func (s *sampler) next(rng *rand.Rand) map[string]float64 {
	clear(s.expr)
	n := len(s.pool)
	for i, v := range s.values {
		j := i + rng.IntN(n-i)
		s.pool[i], s.pool[j] = s.pool[j], s.pool[i]
		s.expr[s.universe[s.pool[i]]] = v
	}
	return s.expr
}

// permute runs the permutation test on targets and fills their network
// probability, corrected accumulation and node p-values.
func (e *Engine) permute(ctx context.Context, targets []*target, universe []string) error {
	if len(targets) == 0 {
		return nil
	}
	reps := e.opts.Repetitions
	withNodes := e.opts.ComputeNodePValues()

	props := make(map[*propagation.Table]*propagation.Propagator)
	var tables []*propagation.Table
	for _, t := range targets {
		t.random = make([]float64, reps)
		if withNodes {
			t.nodes = make([]float32, len(t.idx)*reps)
		}
		if _, ok := props[t.table]; !ok {
			props[t.table] = propagation.NewPropagator(t.table)
			tables = append(tables, t.table)
		}
	}

	s := newSampler(universe, observedValues(e.opts.Expression, universe))
	runs := make(map[*propagation.Table]evaluation, len(tables))
	hooks := observability.Analysis()
	for r := range reps {
		if err := ctx.Err(); err != nil {
			return err
		}
		expr := s.next(e.opts.Rand)
		for _, tbl := range tables {
			pf, ex := props[tbl].Run(expr)
			runs[tbl] = evaluation{pf: pf, e: ex}
		}
		for _, t := range targets {
			ev := runs[t.table]
			t.random[r] = propagation.SubsetAccumulation(t.table, t.idx, ev.pf, ev.e)
			if withNodes {
				for j, i := range t.idx {
					t.nodes[j*reps+r] = float32(propagation.NodeAccumulation(t.table, i, ev.pf, ev.e))
				}
			}
		}
		if (r+1)%progressEvery == 0 || r+1 == reps {
			hooks.OnPermutationProgress(ctx, r+1, reps)
		}
	}

	buf := make([]float64, reps)
	for _, t := range targets {
		t.res.CorrectedAccumulation, t.res.NetworkProbability = empiricalPValue(t.res.Accumulation, t.random)
		t.res.PValue = e.combine(t.res.NetworkProbability, t.res.Probability)
		if !withNodes {
			continue
		}
		for j := range t.idx {
			for r := range reps {
				buf[r] = float64(t.nodes[j*reps+r])
			}
			n := &t.res.NodeResults[j]
			n.CorrectedAccumulation, n.PValue = empiricalPValue(n.Accumulation, buf)
		}
		t.nodes = nil
	}
	return nil
}

// empiricalPValue centers observed and random on the median of random and
// counts the random values at least as extreme as the observed one on the
// same side of zero. The p-value is floored at 1/(100·R) and capped at 1.
// A centered observation of exactly 0 yields 1.
func empiricalPValue(observed float64, random []float64) (corrected, p float64) {
	reps := float64(len(random))
	median := stats.Median(random)
	corrected = observed - median
	if corrected == 0 || math.IsNaN(corrected) || math.IsInf(corrected, 0) {
		return corrected, 1
	}
	var count int
	for _, v := range random {
		c := v - median
		if (corrected > 0 && c >= corrected) || (corrected < 0 && c <= corrected) {
			count++
		}
	}
	p = float64(count) / reps
	return corrected, min(1, max(p, 1/(reps*100)))
}

// observedValues returns the non-zero expression values of universe nodes,
// in universe order. Values of nodes outside every pathway are left out so
// that the null model shuffles the same signal the observed run sees.
func observedValues(expr map[string]float64, universe []string) []float64 {
	var values []float64
	for _, id := range universe {
		if v := expr[id]; v != 0 {
			values = append(values, v)
		}
	}
	return values
}

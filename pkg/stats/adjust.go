package stats

import (
	"maps"
	"math"
	"slices"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// Adjuster corrects a vector of p-values for multiple comparisons. The
// returned slice is new and index-aligned with the input.
type Adjuster func(p []float64) []float64

// DefaultAdjuster is used when no adjuster is named.
const DefaultAdjuster = "bh"

var adjusters = map[string]Adjuster{
	"bh":         BenjaminiHochberg,
	"by":         BenjaminiYekutieli,
	"bonferroni": Bonferroni,
	"holm":       Holm,
	"none":       NoAdjustment,
}

// AdjusterByName returns the registered adjuster. An empty name selects
// [DefaultAdjuster].
func AdjusterByName(name string) (Adjuster, error) {
	if name == "" {
		name = DefaultAdjuster
	}
	a, ok := adjusters[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidStrategy, "unknown adjuster %q (available: %v)", name, AdjusterNames())
	}
	return a, nil
}

// AdjusterNames lists the registered adjusters in sorted order.
func AdjusterNames() []string { return slices.Sorted(maps.Keys(adjusters)) }

// BenjaminiHochberg controls the false discovery rate (R p.adjust "BH").
func BenjaminiHochberg(p []float64) []float64 {
	return stepUp(p, 1)
}

// BenjaminiYekutieli controls the false discovery rate under arbitrary
// dependence (R p.adjust "BY").
func BenjaminiYekutieli(p []float64) []float64 {
	var q float64
	for i := 1; i <= len(p); i++ {
		q += 1 / float64(i)
	}
	return stepUp(p, q)
}

// stepUp applies cummin(scale * n/rank * p) from the largest p down.
func stepUp(p []float64, scale float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	if n == 0 {
		return out
	}
	order := orderBy(p, func(a, b float64) bool { return a > b })
	running := math.Inf(1)
	for i, idx := range order {
		rank := n - i
		v := scale * float64(n) / float64(rank) * p[idx]
		running = min(running, v)
		out[idx] = min(1, running)
	}
	return out
}

// Bonferroni multiplies each p-value by the number of tests.
func Bonferroni(p []float64) []float64 {
	out := make([]float64, len(p))
	for i, v := range p {
		out[i] = min(1, v*float64(len(p)))
	}
	return out
}

// Holm is the step-down Holm-Bonferroni procedure.
func Holm(p []float64) []float64 {
	n := len(p)
	out := make([]float64, n)
	order := orderBy(p, func(a, b float64) bool { return a < b })
	running := 0.0
	for i, idx := range order {
		v := float64(n-i) * p[idx]
		running = max(running, v)
		out[idx] = min(1, running)
	}
	return out
}

// NoAdjustment returns a copy of the input.
func NoAdjustment(p []float64) []float64 { return slices.Clone(p) }

// orderBy returns indices of p sorted by less, stable on ties.
func orderBy(p []float64, less func(a, b float64) bool) []int {
	idx := make([]int, len(p))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		switch {
		case less(p[a], p[b]):
			return -1
		case less(p[b], p[a]):
			return 1
		}
		return 0
	})
	return idx
}

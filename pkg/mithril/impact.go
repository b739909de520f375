package mithril

import (
	"math"

	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// evaluation is one propagation of an expression map through a table.
type evaluation struct {
	pf []float64
	e  []float64
}

// score fills the perturbation-derived fields of res for the nodes idx of t.
func score(res *PathwayResult, t *propagation.Table, idx []int, ev evaluation, universe, deUniverse int) {
	var sumDE float64
	var nDE int
	for _, i := range idx {
		if ev.e[i] != 0 {
			nDE++
			sumDE += math.Abs(ev.e[i])
		}
	}
	res.Nodes = len(idx)
	res.DENodes = nDE
	res.Accumulation = propagation.SubsetAccumulation(t, idx, ev.pf, ev.e)
	res.CorrectedAccumulation = res.Accumulation
	res.Probability = stats.HypergeometricUpperTail(universe, deUniverse, len(idx), nDE)
	res.ImpactFactor = impactFactor(propagation.TotalPerturbation(ev.pf, idx), sumDE, nDE, res.Probability)
	res.NetworkProbability = 1
	res.PValue = 1

	res.NodeResults = make([]NodeResult, len(idx))
	for j, i := range idx {
		acc := propagation.NodeAccumulation(t, i, ev.pf, ev.e)
		res.NodeResults[j] = NodeResult{
			ID:                    t.Nodes[i],
			Expression:            ev.e[i],
			Perturbation:          ev.pf[i],
			Accumulation:          acc,
			CorrectedAccumulation: acc,
			PValue:                1,
		}
	}
}

// impactFactor is Σ|pf| / (mean|e_DE| · #DE) − ln(p). It is 0 when the
// pathway has no differentially expressed node.
func impactFactor(totalPerturbation, sumAbsDE float64, nDE int, p float64) float64 {
	if nDE == 0 {
		return 0
	}
	mean := sumAbsDE / float64(nDE)
	denom := mean * float64(nDE)
	if denom == 0 {
		return 0
	}
	return totalPerturbation/denom - math.Log(max(p, stats.MinPValue))
}

func allIndices(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}

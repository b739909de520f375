package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/combin"
)

// HypergeometricUpperTail returns P(X >= k) for X drawn from a
// hypergeometric distribution with population size N, K successes in the
// population and n draws.
//
// Out-of-range arguments are clamped to the support: k at or below the
// minimum attainable count yields 1 and k above the maximum yields 0.
func HypergeometricUpperTail(N, K, n, k int) float64 {
	if N <= 0 || n <= 0 {
		return 1
	}
	K = max(0, min(K, N))
	n = min(n, N)
	lo := max(0, n-(N-K))
	hi := min(K, n)
	if k <= lo {
		return 1
	}
	if k > hi {
		return 0
	}

	logDenom := logBinom(N, n)
	terms := make([]float64, 0, hi-k+1)
	maxTerm := math.Inf(-1)
	for i := k; i <= hi; i++ {
		t := logBinom(K, i) + logBinom(N-K, n-i) - logDenom
		terms = append(terms, t)
		maxTerm = max(maxTerm, t)
	}
	var sum float64
	for _, t := range terms {
		sum += math.Exp(t - maxTerm)
	}
	return min(1, math.Exp(maxTerm)*sum)
}

func logBinom(n, k int) float64 {
	return combin.LogGeneralizedBinomial(float64(n), float64(k))
}

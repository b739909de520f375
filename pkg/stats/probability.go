package stats

import (
	"maps"
	"slices"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// ProbabilityEstimator turns outcome counts into probabilities. alpha is the
// additive smoothing constant.
type ProbabilityEstimator func(counts []float64, alpha float64) []float64

// DefaultProbabilityEstimator is used when no estimator is named.
const DefaultProbabilityEstimator = "laplace"

var estimators = map[string]ProbabilityEstimator{
	"laplace":   Laplace,
	"empirical": Empirical,
}

// ProbabilityEstimatorByName returns the registered estimator. An empty name
// selects [DefaultProbabilityEstimator].
func ProbabilityEstimatorByName(name string) (ProbabilityEstimator, error) {
	if name == "" {
		name = DefaultProbabilityEstimator
	}
	e, ok := estimators[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidStrategy, "unknown probability estimator %q (available: %v)", name, ProbabilityEstimatorNames())
	}
	return e, nil
}

// ProbabilityEstimatorNames lists the registered estimators in sorted order.
func ProbabilityEstimatorNames() []string { return slices.Sorted(maps.Keys(estimators)) }

// Laplace applies additive smoothing: (c + alpha) / (N + k*alpha).
func Laplace(counts []float64, alpha float64) []float64 {
	var total float64
	for _, c := range counts {
		total += c
	}
	denom := total + float64(len(counts))*alpha
	out := make([]float64, len(counts))
	for i, c := range counts {
		if denom == 0 {
			out[i] = 1 / float64(len(counts))
			continue
		}
		out[i] = (c + alpha) / denom
	}
	return out
}

// Empirical uses raw frequencies, flooring each probability at alpha and
// renormalizing so that no outcome has probability zero.
func Empirical(counts []float64, alpha float64) []float64 {
	var total float64
	for _, c := range counts {
		total += c
	}
	out := make([]float64, len(counts))
	var sum float64
	for i, c := range counts {
		v := 1 / float64(len(counts))
		if total > 0 {
			v = c / total
		}
		out[i] = max(v, alpha)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

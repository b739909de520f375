package phensim

import (
	"maps"
	"math"
	"math/rand/v2"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// Distribution draws the simulated expression of a constrained node.
// Implementations must only use rng for randomness.
type Distribution interface {
	Sample(c Constraint, rng *rand.Rand) float64
}

// DistributionFunc adapts a function to the Distribution interface.
type DistributionFunc func(c Constraint, rng *rand.Rand) float64

// Sample calls f(c, rng).
func (f DistributionFunc) Sample(c Constraint, rng *rand.Rand) float64 { return f(c, rng) }

// DefaultDistribution is used when no distribution is named.
const DefaultDistribution = "uniform"

const (
	uniformSpread = 0.2
	normalMean    = 2.0
	normalSigma   = 0.5
)

// Uniform draws |Value|·[0.8, 1.2], or [1, 3] without a value, signed by
// the direction.
var Uniform Distribution = DistributionFunc(func(c Constraint, rng *rand.Rand) float64 {
	sign := c.Direction.Sign()
	if sign == 0 {
		return 0
	}
	lo, hi := 1.0, 3.0
	if m := math.Abs(c.Value); m > 0 {
		lo, hi = m*(1-uniformSpread), m*(1+uniformSpread)
	}
	return sign * distuv.Uniform{Min: lo, Max: hi, Src: rng}.Rand()
})

// Normal draws from N(|Value| or 2, 0.5), folded onto the direction's sign.
var Normal Distribution = DistributionFunc(func(c Constraint, rng *rand.Rand) float64 {
	sign := c.Direction.Sign()
	if sign == 0 {
		return 0
	}
	mu := normalMean
	if m := math.Abs(c.Value); m > 0 {
		mu = m
	}
	return sign * math.Abs(distuv.Normal{Mu: mu, Sigma: normalSigma, Src: rng}.Rand())
})

// Fixed returns |Value|, or 1 without a value, signed by the direction.
var Fixed Distribution = DistributionFunc(func(c Constraint, _ *rand.Rand) float64 {
	m := math.Abs(c.Value)
	if m == 0 {
		m = 1
	}
	return c.Direction.Sign() * m
})

var distributions = map[string]Distribution{
	"uniform": Uniform,
	"normal":  Normal,
	"fixed":   Fixed,
}

// DistributionByName returns a registered distribution. An empty name
// selects [DefaultDistribution].
func DistributionByName(name string) (Distribution, error) {
	if name == "" {
		name = DefaultDistribution
	}
	d, ok := distributions[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidStrategy, "unknown distribution %q (available: %v)", name, DistributionNames())
	}
	return d, nil
}

// DistributionNames lists the registered distributions in sorted order.
func DistributionNames() []string { return slices.Sorted(maps.Keys(distributions)) }

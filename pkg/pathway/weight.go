package pathway

import (
	"maps"
	"slices"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// ErrNoWeightComputer is returned by [Edge.Weight] when no strategy is configured.
var ErrNoWeightComputer = perrors.New(perrors.ErrCodeInvalidConfig, "edge weight requires a weight computer")

// WeightComputer maps a single edge description to its signed contribution.
// Implementations must be safe for concurrent use.
type WeightComputer interface {
	Contribution(d EdgeDescription) float64
}

// WeightFunc adapts a function to the WeightComputer interface.
type WeightFunc func(d EdgeDescription) float64

// Contribution calls f(d).
func (f WeightFunc) Contribution(d EdgeDescription) float64 { return f(d) }

// SubtypeWeight uses the subtype's configured weight.
var SubtypeWeight WeightComputer = WeightFunc(func(d EdgeDescription) float64 {
	return d.Subtype.Weight
})

// SignWeight reduces the subtype weight to its sign (-1, 0 or +1).
var SignWeight WeightComputer = WeightFunc(func(d EdgeDescription) float64 {
	switch w := d.Subtype.Weight; {
	case w > 0:
		return 1
	case w < 0:
		return -1
	default:
		return 0
	}
})

// DefaultWeightComputer is the strategy used when none is named.
const DefaultWeightComputer = "subtype"

var weightComputers = map[string]WeightComputer{
	"subtype": SubtypeWeight,
	"sign":    SignWeight,
}

// WeightComputerByName returns the registered strategy with the given name.
// An empty name selects [DefaultWeightComputer].
func WeightComputerByName(name string) (WeightComputer, error) {
	if name == "" {
		name = DefaultWeightComputer
	}
	wc, ok := weightComputers[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidStrategy, "unknown weight computer %q (available: %v)", name, WeightComputerNames())
	}
	return wc, nil
}

// WeightComputerNames lists the registered strategies in sorted order.
func WeightComputerNames() []string {
	return slices.Sorted(maps.Keys(weightComputers))
}

package stats

import (
	"maps"
	"math"
	"slices"

	"gonum.org/v1/gonum/stat/distuv"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

// MinPValue is the smallest p-value that combiners accept or return.
const MinPValue = 1e-300

// maxPValue keeps combiner inputs below 1 so that a p-value of exactly 1
// has a finite normal quantile.
var maxPValue = math.Nextafter(1, 0)

// Combiner merges two independent p-values into one.
type Combiner func(p1, p2 float64) float64

// DefaultCombiner is used when no combiner is named.
const DefaultCombiner = "stouffer"

var combiners = map[string]Combiner{
	"stouffer": Stouffer,
	"fisher":   Fisher,
	"tippett":  Tippett,
	"mean":     MeanCombiner,
}

// CombinerByName returns the registered combiner. An empty name selects
// [DefaultCombiner].
func CombinerByName(name string) (Combiner, error) {
	if name == "" {
		name = DefaultCombiner
	}
	c, ok := combiners[name]
	if !ok {
		return nil, perrors.New(perrors.ErrCodeInvalidStrategy, "unknown combiner %q (available: %v)", name, CombinerNames())
	}
	return c, nil
}

// CombinerNames lists the registered combiners in sorted order.
func CombinerNames() []string { return slices.Sorted(maps.Keys(combiners)) }

// Stouffer combines p-values through the sum of their normal quantiles:
// z = (Φ⁻¹(1-p1) + Φ⁻¹(1-p2)) / √2, p = 1 - Φ(z).
func Stouffer(p1, p2 float64) float64 {
	z1 := -distuv.UnitNormal.Quantile(clampIn(p1))
	z2 := -distuv.UnitNormal.Quantile(clampIn(p2))
	return clampOut(distuv.UnitNormal.Survival((z1 + z2) / math.Sqrt2))
}

// Fisher combines p-values with -2Σln(p), which is χ² with 4 degrees of freedom.
func Fisher(p1, p2 float64) float64 {
	x := -2 * (math.Log(clampIn(p1)) + math.Log(clampIn(p2)))
	return clampOut(distuv.ChiSquared{K: 4}.Survival(x))
}

// Tippett uses the minimum p-value: 1 - (1 - min)².
func Tippett(p1, p2 float64) float64 {
	m := min(clampIn(p1), clampIn(p2))
	return clampOut(1 - (1-m)*(1-m))
}

// MeanCombiner averages the two p-values.
func MeanCombiner(p1, p2 float64) float64 {
	return clampOut((clampIn(p1) + clampIn(p2)) / 2)
}

func clampIn(p float64) float64 {
	if math.IsNaN(p) {
		return 1
	}
	return max(MinPValue, min(p, maxPValue))
}

func clampOut(p float64) float64 {
	if math.IsNaN(p) {
		return 1
	}
	return max(math.SmallestNonzeroFloat64, min(p, 1))
}

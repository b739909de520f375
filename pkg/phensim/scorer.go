package phensim

import (
	"math"

	"github.com/pathwaylab/pathsim/pkg/stats"
)

// Probabilities are per-state probabilities.
type Probabilities struct {
	Active    float64 `json:"active"`
	Inhibited float64 `json:"inhibited"`
	Otherwise float64 `json:"otherwise"`
}

func (p Probabilities) of(s State) float64 {
	switch s {
	case Active:
		return p.Active
	case Inhibited:
		return p.Inhibited
	default:
		return p.Otherwise
	}
}

// Counts are per-state occurrence counts.
type Counts struct {
	Active    float64 `json:"active"`
	Inhibited float64 `json:"inhibited"`
	Otherwise float64 `json:"otherwise"`
}

func (c Counts) total() float64 { return c.Active + c.Inhibited + c.Otherwise }

func countsOf(c [3]float64) Counts {
	return Counts{Active: c[Active], Inhibited: c[Inhibited], Otherwise: c[Otherwise]}
}

// Score is the scored outcome of one node or pathway.
type Score struct {
	Counts     Counts        `json:"counts"`      // observed replicate
	NullCounts Counts        `json:"null_counts"` // null replicates pooled
	Activity   Probabilities `json:"activity"`
	Prior      Probabilities `json:"prior"`
	State      State         `json:"state"`

	ActivityScore   float64 `json:"activity_score"`
	PValue          float64 `json:"pvalue"`
	EmpiricalPValue float64 `json:"empirical_pvalue"`
}

// Scorer turns replicate counters into activity scores and p-values.
type Scorer struct {
	Smoothing float64
	Estimator stats.ProbabilityEstimator
}

// Score scores one item from its observed counts and mean, the pooled null
// counts and the per-replicate null means.
func (s Scorer) Score(observed, null Counts, observedMean float64, nullMeans []float64) Score {
	estimate := s.Estimator
	if estimate == nil {
		estimate = stats.Laplace
	}
	act := toProbabilities(estimate([]float64{observed.Active, observed.Inhibited, observed.Otherwise}, s.Smoothing))
	prior := toProbabilities(estimate([]float64{null.Active, null.Inhibited, null.Otherwise}, s.Smoothing))

	sc := Score{Counts: observed, NullCounts: null, Activity: act, Prior: prior, State: dominant(act)}
	if sc.State != Otherwise {
		pa, pp := act.of(sc.State), prior.of(sc.State)
		llr := math.Log((pa / (1 - pa)) / (pp / (1 - pp)))
		if sc.State == Inhibited {
			llr = -llr
		}
		if !math.IsNaN(llr) && !math.IsInf(llr, 0) {
			sc.ActivityScore = llr
		}
	}

	m1, v1 := stats.CategoricalMoments(act.Active, act.Inhibited)
	m2, v2 := stats.CategoricalMoments(prior.Active, prior.Inhibited)
	_, _, p := stats.WelchTTest(m1, v1, int(observed.total()), m2, v2, int(null.total()))
	if math.IsNaN(p) {
		p = 1
	}
	sc.PValue = min(1, max(p, stats.MinPValue))
	sc.EmpiricalPValue = empiricalPValue(observedMean, nullMeans)
	return sc
}

// dominant returns the most probable state; ties prefer Active, then
// Inhibited.
func dominant(p Probabilities) State {
	best := Active
	if p.Inhibited > p.of(best) {
		best = Inhibited
	}
	if p.Otherwise > p.of(best) {
		best = Otherwise
	}
	return best
}

func toProbabilities(p []float64) Probabilities {
	return Probabilities{Active: p[Active], Inhibited: p[Inhibited], Otherwise: p[Otherwise]}
}

// empiricalPValue is (1 + #{|null| >= |observed|}) / (1 + #null).
func empiricalPValue(observed float64, null []float64) float64 {
	var count int
	for _, v := range null {
		if math.Abs(v) >= math.Abs(observed) {
			count++
		}
	}
	return float64(1+count) / float64(1+len(null))
}

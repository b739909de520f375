package stats

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/stat"
)

// Moments accumulates count, mean and variance online (Welford's method).
// The zero value is ready to use.
type Moments struct {
	n    int
	mean float64
	m2   float64
}

// Add records one observation.
func (m *Moments) Add(x float64) {
	m.n++
	d := x - m.mean
	m.mean += d / float64(m.n)
	m.m2 += d * (x - m.mean)
}

// Merge folds the observations of o into m.
func (m *Moments) Merge(o Moments) {
	if o.n == 0 {
		return
	}
	if m.n == 0 {
		*m = o
		return
	}
	n := m.n + o.n
	d := o.mean - m.mean
	m.mean += d * float64(o.n) / float64(n)
	m.m2 += o.m2 + d*d*float64(m.n)*float64(o.n)/float64(n)
	m.n = n
}

// N returns the number of observations.
func (m Moments) N() int { return m.n }

// Mean returns the running mean, or 0 with no observations.
func (m Moments) Mean() float64 { return m.mean }

// Variance returns the unbiased sample variance, or 0 with fewer than two
// observations.
func (m Moments) Variance() float64 {
	if m.n < 2 {
		return 0
	}
	return m.m2 / float64(m.n-1)
}

// StdDev returns the square root of [Moments.Variance].
func (m Moments) StdDev() float64 { return math.Sqrt(m.Variance()) }

// Median returns the empirical median of x without modifying it. For an even
// number of samples the lower middle value is returned. Returns NaN for an
// empty slice.
func Median(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)
	return stat.Quantile(0.5, stat.Empirical, sorted, nil)
}

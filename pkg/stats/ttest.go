package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// CategoricalMoments returns the mean and variance of a variable taking +1
// with probability pUp, -1 with probability pDown and 0 otherwise.
func CategoricalMoments(pUp, pDown float64) (mean, variance float64) {
	mean = pUp - pDown
	second := pUp + pDown
	return mean, max(0, second-mean*mean)
}

// WelchTTest compares two populations from their means, variances and sizes
// and returns the t statistic, the Welch-Satterthwaite degrees of freedom
// and the two-sided p-value.
//
// When the standard error is zero the p-value is 1 for equal means and the
// smallest positive float otherwise. Sizes below 2 yield p = 1.
func WelchTTest(m1, v1 float64, n1 int, m2, v2 float64, n2 int) (t, df, p float64) {
	if n1 < 2 || n2 < 2 {
		return 0, 0, 1
	}
	a := v1 / float64(n1)
	b := v2 / float64(n2)
	se := math.Sqrt(a + b)
	if se == 0 || math.IsNaN(se) {
		if m1 == m2 {
			return 0, 0, 1
		}
		return math.Copysign(math.Inf(1), m1-m2), 0, math.SmallestNonzeroFloat64
	}
	t = (m1 - m2) / se
	df = (a + b) * (a + b) / (a*a/float64(n1-1) + b*b/float64(n2-1))
	dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
	p = 2 * dist.Survival(math.Abs(t))
	return t, df, clampOut(p)
}

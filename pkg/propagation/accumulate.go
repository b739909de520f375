package propagation

import "math"

// Accumulation returns Σ sign(n)·(pf(n) − e(n)) over every node of t.
func Accumulation(t *Table, pf, e []float64) float64 {
	var acc float64
	for i, s := range t.Signs {
		acc += s * (pf[i] - e[i])
	}
	return acc
}

// SubsetAccumulation is Accumulation restricted to the table indices in idx.
func SubsetAccumulation(t *Table, idx []int, pf, e []float64) float64 {
	var acc float64
	for _, i := range idx {
		acc += t.Signs[i] * (pf[i] - e[i])
	}
	return acc
}

// TotalPerturbation returns Σ|pf(n)| over every node, or over idx when it is
// non-nil.
func TotalPerturbation(pf []float64, idx []int) float64 {
	var total float64
	if idx == nil {
		for _, v := range pf {
			total += math.Abs(v)
		}
		return total
	}
	for _, i := range idx {
		total += math.Abs(pf[i])
	}
	return total
}

// NodeAccumulation returns sign(n)·(pf(n) − e(n)) for node i.
func NodeAccumulation(t *Table, i int, pf, e []float64) float64 {
	return t.Signs[i] * (pf[i] - e[i])
}

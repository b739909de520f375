// Package stats provides the statistical building blocks shared by the
// MITHrIL and PHENSIM engines: p-value combination and multiple-testing
// adjustment strategies, the hypergeometric enrichment tail, online moment
// accumulation, categorical probability estimation and Welch's t-test.
//
// Strategies are plain function types registered by name so that engines
// and the CLI can select them from configuration:
//
//	combine, _ := stats.CombinerByName("stouffer")
//	adjust, _ := stats.AdjusterByName("bh")
//	q := adjust([]float64{combine(0.01, 0.2), combine(0.5, 0.5)})
//
// Distribution functions come from gonum (stat, stat/distuv, stat/combin).
package stats

// Package mithril computes pathway perturbation, impact factors and
// permutation-based significance for one expression profile.
//
// An [Engine] propagates the expression map through every pathway of a
// repository, scores each pathway by its accumulation and impact factor,
// and estimates significance with a permutation test: the observed non-zero
// expression values are reassigned to random nodes of the repository's node
// universe, propagated again, and compared with the observed accumulation.
// The empirical p-value is combined with the hypergeometric enrichment
// p-value and adjusted for multiple testing jointly across real and virtual
// pathways.
//
// # Usage
//
//	engine, err := mithril.New(mithril.Options{
//	    Expression: expr,
//	    Repository: repo,
//	    Rand:       rand.New(rand.NewPCG(42, 0)),
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := engine.Run(ctx)
//
// The permutation loop is sequential. The context is only checked between
// repetitions.
package mithril

// Package phensim simulates the phenotypic effect of perturbing a set of
// nodes and scores every node and pathway by how consistently it is
// activated or inhibited.
//
// A simulation runs one observed replicate, driven by the user's
// constraints, and a number of null replicates in which the same constraint
// values are moved to random nodes of comparable connectivity. Each
// replicate repeatedly samples an expression profile from the constraint
// distributions, propagates it through every pathway and classifies each
// node and pathway as ACTIVE, INHIBITED or OTHERWISE. The [Scorer] compares
// the observed state frequencies with the pooled null frequencies.
//
// Replicates run on a fixed-size worker pool. Each owns its RNG, seeded
// from the master RNG before any replicate starts, and its counters; the
// compiled pathway tables are shared read-only. A replicate that fails is
// logged and skipped without cancelling the others.
package phensim

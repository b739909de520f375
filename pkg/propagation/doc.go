// Package propagation implements the cycle-safe perturbation propagation
// shared by the MITHrIL and PHENSIM engines.
//
// # Ordering
//
// [Order] sorts nodes by increasing in-degree and decreasing out-degree
// (ties by ID), then emits a DFS-based pseudo-topological order. On acyclic
// graphs the order is topological; on cyclic graphs it is an approximation
// that keeps recursion shallow and is fully reproducible.
//
// # Tables
//
// [Compile] turns a pathway graph into an immutable, arena-indexed [Table]:
// node order, signs, incoming (source, weight) lists and the absolute sum of
// outgoing weights per node. A [Catalog] holds the tables of a whole
// repository. Catalogs are built once before a run and are read-only
// afterwards, so any number of goroutines may share one.
//
// # Propagation
//
// A [Propagator] holds per-goroutine scratch space for one table and
// computes, for every node n,
//
//	pf(n) = e(n) + Σ_{u→n} w(u,n)·pf(u) / Σ|w(u,·)|
//
// Each top-level computation starts a fresh traversal. A node entered during
// the traversal is seeded with its raw expression before its parents are
// visited, so re-entering it through a cycle returns the seed instead of
// recursing forever. Values computed at the top level are final and
// short-circuit later traversals. Non-finite terms are dropped.
package propagation

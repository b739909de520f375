// Package pkg provides the core libraries of pathsim, a pathway perturbation
// engine.
//
// # Overview
//
// pathsim propagates expression changes through directed pathway graphs. It
// offers two analyses over the same propagation core:
//
//  1. [mithril] - scores how strongly each pathway is perturbed by measured
//     log-fold-changes (impact factor, permutation p-value, combined p-value)
//  2. [phensim] - simulates the effect of forcing a few nodes up or down and
//     reports activity scores and states for nodes and pathways
//
// # Architecture
//
// The typical data flow:
//
//	Repository document + expression or constraint TSV
//	         ↓
//	    [io] package (decode inputs)
//	         ↓
//	    [repository] package (pathways, virtual pathways, node universe)
//	         ↓
//	    [propagation] package (weight tables, ordering, perturbation factors)
//	         ↓
//	    [mithril] or [phensim] engine, scored with [stats]
//	         ↓
//	    JSON result
//
// [pipeline] wraps both engines with input hashing and result caching
// through [cache]; the CLI in internal/cli is a thin layer over it.
//
// # Quick Start
//
//	repo, _ := io.ImportRepository("kegg.yaml")
//	expr, _ := io.ImportExpression("degs.tsv")
//
//	engine, _ := mithril.New(mithril.Options{
//	    Repository: repo,
//	    Expression: expr,
//	    Rand:       rand.New(rand.NewPCG(42, 0)),
//	})
//	res, _ := engine.Run(ctx)
//
// # Main Packages
//
// [pathway] - Directed multigraph of pathway nodes and typed edges, with
// subtype weights and upstream/downstream traversal.
//
// [propagation] - Dense weight tables built from pathway graphs and the
// iterative perturbation-factor computation shared by both engines.
//
// [stats] - Hypergeometric tests, p-value combiners, multiple-testing
// adjusters and probability estimators, each selectable by name.
//
// [observability] - Hooks for progress reporting from long-running engines.
//
// [config] - TOML configuration with environment overrides.
//
// [errors] - Coded errors shared by all packages.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                          # All tests
//	PATHSIM_TEST_REDIS=localhost:6379 go test ./pkg/cache/   # Include Redis
//
// [mithril]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/mithril
// [phensim]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/phensim
// [io]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/io
// [repository]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/repository
// [propagation]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/propagation
// [stats]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/stats
// [pipeline]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/cache
// [pathway]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/pathway
// [observability]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/observability
// [config]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/config
// [errors]: https://pkg.go.dev/github.com/pathwaylab/pathsim/pkg/errors
package pkg

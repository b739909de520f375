// Package pipeline runs the engines end to end: it loads input files, checks
// the result cache, runs MITHrIL or PHENSIM and stores the JSON result.
//
// The CLI and any other entry point share this code so that file formats,
// seeding and cache keys behave the same everywhere.
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Analyze(ctx, pipeline.AnalysisOptions{
//	    Repository: "kegg.yaml",
//	    Expression: "degs.tsv",
//	    Seed:       42,
//	})
//	if err != nil {
//	    return err
//	}
//	fmt.Println(res.Result.Pathways[0].AdjustedPValue)
//
// # Caching
//
// A run is cached only when its seed is fixed. Runs without a seed draw a
// fresh one, report it in the result, and bypass the cache.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pathwaylab/pathsim/pkg/cache"
	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/mithril"
	"github.com/pathwaylab/pathsim/pkg/phensim"
)

// DefaultTTL is the lifetime of cached results.
const DefaultTTL = 7 * 24 * time.Hour

// =============================================================================
// Options
// =============================================================================

// AnalysisOptions configures a MITHrIL run.
type AnalysisOptions struct {
	Repository string `json:"repository"` // repository document path
	Expression string `json:"expression"` // expression TSV path

	Repetitions     int    `json:"repetitions,omitempty"`
	Combiner        string `json:"combiner,omitempty"`
	Adjuster        string `json:"adjuster,omitempty"`
	WeightComputer  string `json:"weight_computer,omitempty"`
	SkipNodePValues bool   `json:"skip_node_pvalues,omitempty"`
	Seed            uint64 `json:"seed,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"` // recompute and overwrite the cache entry

	Logger *log.Logger   `json:"-"`
	TTL    time.Duration `json:"-"`
}

// SimulationOptions configures a PHENSIM run.
type SimulationOptions struct {
	Repository   string `json:"repository"`
	Constraints  string `json:"constraints"`             // constraint TSV path
	NonExpressed string `json:"non_expressed,omitempty"` // optional node list path

	Repetitions    int      `json:"repetitions,omitempty"`
	Simulations    int      `json:"simulations,omitempty"`
	Epsilon        *float64 `json:"epsilon,omitempty"` // nil selects phensim.DefaultEpsilon
	Smoothing      float64  `json:"smoothing,omitempty"`
	Workers        int      `json:"workers,omitempty"`
	Distribution   string   `json:"distribution,omitempty"`
	Estimator      string   `json:"estimator,omitempty"`
	Adjuster       string   `json:"adjuster,omitempty"`
	WeightComputer string   `json:"weight_computer,omitempty"`
	Seed           uint64   `json:"seed,omitempty"`
	Refresh        bool     `json:"refresh,omitempty"`

	Logger *log.Logger   `json:"-"`
	TTL    time.Duration `json:"-"`
}

// Validate checks that the input paths are set and applies defaults.
func (o *AnalysisOptions) Validate() error {
	if o.Repository == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repository path is required")
	}
	if o.Expression == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "expression path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return nil
}

// Validate checks that the input paths are set and applies defaults.
func (o *SimulationOptions) Validate() error {
	if o.Repository == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repository path is required")
	}
	if o.Constraints == "" {
		return perrors.New(perrors.ErrCodeInvalidConfig, "constraints path is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	return nil
}

// engineOptions builds mithril.Options without inputs. Defaults are applied
// so that the cache key does not depend on whether a default was spelled out.
func (o *AnalysisOptions) engineOptions() mithril.Options {
	opts := mithril.Options{
		Repetitions:     o.Repetitions,
		Combiner:        o.Combiner,
		Adjuster:        o.Adjuster,
		WeightComputer:  o.WeightComputer,
		SkipNodePValues: o.SkipNodePValues,
		Logger:          o.Logger,
	}
	opts.SetDefaults()
	return opts
}

func (o *SimulationOptions) engineOptions() phensim.Options {
	opts := phensim.Options{
		Repetitions:    o.Repetitions,
		Simulations:    o.Simulations,
		Epsilon:        o.Epsilon,
		Smoothing:      o.Smoothing,
		Workers:        o.Workers,
		Distribution:   o.Distribution,
		Estimator:      o.Estimator,
		Adjuster:       o.Adjuster,
		WeightComputer: o.WeightComputer,
		Logger:         o.Logger,
	}
	opts.SetDefaults()
	return opts
}

// AnalysisKeyOpts returns the cache key options of a resolved configuration.
func AnalysisKeyOpts(opts mithril.Options, seed uint64) cache.AnalysisKeyOpts {
	return cache.AnalysisKeyOpts{
		Repetitions:     opts.Repetitions,
		Seed:            seed,
		Combiner:        opts.Combiner,
		Adjuster:        opts.Adjuster,
		WeightComputer:  opts.WeightComputer,
		SkipNodePValues: opts.SkipNodePValues,
	}
}

// SimulationKeyOpts returns the cache key options of a resolved configuration.
func SimulationKeyOpts(opts phensim.Options, seed uint64) cache.SimulationKeyOpts {
	return cache.SimulationKeyOpts{
		Repetitions:    opts.Repetitions,
		Simulations:    opts.Simulations,
		Seed:           seed,
		Epsilon:        *opts.Epsilon,
		Smoothing:      opts.Smoothing,
		Distribution:   opts.Distribution,
		Estimator:      opts.Estimator,
		Adjuster:       opts.Adjuster,
		WeightComputer: opts.WeightComputer,
	}
}

// =============================================================================
// Results
// =============================================================================

// AnalysisResult is the outcome of [Runner.Analyze].
type AnalysisResult struct {
	RunID    string          `json:"run_id"`
	Seed     uint64          `json:"seed"`
	Result   *mithril.Result `json:"result"`
	Stats    Stats           `json:"-"`
	CacheHit bool            `json:"-"`
}

// SimulationResult is the outcome of [Runner.Simulate].
type SimulationResult struct {
	RunID    string          `json:"run_id"`
	Seed     uint64          `json:"seed"`
	Result   *phensim.Result `json:"result"`
	Stats    Stats           `json:"-"`
	CacheHit bool            `json:"-"`
}

// Stats contains run timings and input sizes.
type Stats struct {
	Pathways int
	Virtual  int
	Nodes    int
	LoadTime time.Duration
	RunTime  time.Duration
}

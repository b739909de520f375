package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/pathwaylab/pathsim/pkg/cache"
	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	pkgio "github.com/pathwaylab/pathsim/pkg/io"
	"github.com/pathwaylab/pathsim/pkg/mithril"
	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/phensim"
	"github.com/pathwaylab/pathsim/pkg/repository"
)

// Runner encapsulates engine execution with caching.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Analyze loads the repository and expression files and runs MITHrIL.
func (r *Runner) Analyze(ctx context.Context, opts AnalysisOptions) (*AnalysisResult, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &AnalysisResult{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", res.RunID)

	loadStart := time.Now()
	repoData, repo, err := loadRepository(opts.Repository)
	if err != nil {
		return nil, err
	}
	exprData, err := readInput(opts.Expression)
	if err != nil {
		return nil, err
	}
	expr, err := pkgio.ReadExpression(bytes.NewReader(exprData))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Expression, err)
	}
	res.Stats = repoStats(repo)
	res.Stats.LoadTime = time.Since(loadStart)
	logger.Info("loaded inputs",
		"pathways", res.Stats.Pathways,
		"virtual", res.Stats.Virtual,
		"nodes", res.Stats.Nodes,
		"expressed", len(expr),
		"duration", res.Stats.LoadTime)

	eopts := opts.engineOptions()
	var cacheable bool
	res.Seed, cacheable = resolveSeed(opts.Seed)
	key := r.Keyer.AnalysisKey(cache.HashParts(repoData, exprData), AnalysisKeyOpts(eopts, res.Seed))

	if cacheable && !opts.Refresh {
		var cached mithril.Result
		if r.lookup(ctx, "mithril", key, &cached, logger) {
			res.Result = &cached
			res.CacheHit = true
			return res, nil
		}
	}

	eopts.Expression = expr
	eopts.Repository = repo
	eopts.Rand = newRand(res.Seed)
	eng, err := mithril.New(eopts)
	if err != nil {
		return nil, err
	}
	runStart := time.Now()
	out, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}
	res.Result = out
	res.Stats.RunTime = time.Since(runStart)
	logger.Debug("engine run finished", "pathways", len(out.Pathways), "duration", res.Stats.RunTime)

	if cacheable {
		r.store(ctx, "mithril", key, out, opts.TTL, logger)
	}
	return res, nil
}

// Simulate loads the repository and constraint files and runs PHENSIM.
func (r *Runner) Simulate(ctx context.Context, opts SimulationOptions) (*SimulationResult, error) {
	r.applyLogger(&opts.Logger)
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	res := &SimulationResult{RunID: uuid.NewString()}
	logger := opts.Logger.With("run", res.RunID)

	loadStart := time.Now()
	repoData, repo, err := loadRepository(opts.Repository)
	if err != nil {
		return nil, err
	}
	consData, err := readInput(opts.Constraints)
	if err != nil {
		return nil, err
	}
	constraints, err := pkgio.ReadConstraints(bytes.NewReader(consData))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", opts.Constraints, err)
	}
	var neData []byte
	var nonExpressed []string
	if opts.NonExpressed != "" {
		if neData, err = readInput(opts.NonExpressed); err != nil {
			return nil, err
		}
		if nonExpressed, err = pkgio.ReadNodeList(bytes.NewReader(neData)); err != nil {
			return nil, fmt.Errorf("%s: %w", opts.NonExpressed, err)
		}
	}
	res.Stats = repoStats(repo)
	res.Stats.LoadTime = time.Since(loadStart)
	logger.Info("loaded inputs",
		"pathways", res.Stats.Pathways,
		"virtual", res.Stats.Virtual,
		"nodes", res.Stats.Nodes,
		"constraints", len(constraints),
		"non_expressed", len(nonExpressed),
		"duration", res.Stats.LoadTime)

	eopts := opts.engineOptions()
	var cacheable bool
	res.Seed, cacheable = resolveSeed(opts.Seed)
	key := r.Keyer.SimulationKey(cache.HashParts(repoData, consData, neData), SimulationKeyOpts(eopts, res.Seed))

	if cacheable && !opts.Refresh {
		var cached phensim.Result
		if r.lookup(ctx, "phensim", key, &cached, logger) {
			res.Result = &cached
			res.CacheHit = true
			return res, nil
		}
	}

	eopts.Constraints = constraints
	eopts.NonExpressed = nonExpressed
	eopts.Repository = repo
	eopts.Rand = newRand(res.Seed)
	eng, err := phensim.New(eopts)
	if err != nil {
		return nil, err
	}
	runStart := time.Now()
	out, err := eng.Run(ctx)
	if err != nil {
		return nil, err
	}
	res.Result = out
	res.Stats.RunTime = time.Since(runStart)
	logger.Debug("engine run finished",
		"nodes", len(out.Nodes),
		"pathways", len(out.Pathways),
		"failed_replicates", out.FailedReplicates,
		"duration", res.Stats.RunTime)

	// A partial run is not worth replaying from the cache.
	if cacheable && out.FailedReplicates == 0 {
		r.store(ctx, "phensim", key, out, opts.TTL, logger)
	}
	return res, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// lookup decodes a cached entry into v. Cache failures and undecodable
// entries count as misses.
func (r *Runner) lookup(ctx context.Context, kind, key string, v any, logger *log.Logger) bool {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
		return false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		logger.Warn("discarding unreadable cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, kind)
		return false
	}
	observability.Cache().OnCacheHit(ctx, kind)
	logger.Debug("cache hit", "key", key)
	return true
}

func (r *Runner) store(ctx context.Context, kind, key string, v any, ttl time.Duration, logger *log.Logger) {
	data, err := json.Marshal(v)
	if err != nil {
		logger.Warn("result not cached", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, kind, len(data))
}

func (r *Runner) applyLogger(l **log.Logger) {
	if *l == nil {
		*l = r.Logger
	}
}

func loadRepository(path string) ([]byte, *repository.Repository, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, nil, err
	}
	repo, err := pkgio.ReadRepository(bytes.NewReader(data))
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}
	return data, repo, nil
}

func readInput(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "read %s", path)
	}
	return data, nil
}

func repoStats(repo *repository.Repository) Stats {
	return Stats{
		Pathways: repo.Len(),
		Virtual:  len(repo.VirtualPathways()),
		Nodes:    len(repo.NodeUniverse()),
	}
}

// resolveSeed returns the seed to run with and whether the run is cacheable.
func resolveSeed(seed uint64) (uint64, bool) {
	if seed != 0 {
		return seed, true
	}
	for seed == 0 {
		seed = rand.Uint64()
	}
	return seed, false
}

// newRand builds the master generator of a run.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

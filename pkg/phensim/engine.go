package phensim

import (
	"context"
	"errors"
	"sync"
	"time"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// Engine runs PHENSIM simulations.
type Engine struct {
	opts     Options
	dist     Distribution
	estimate stats.ProbabilityEstimator
	weights  pathway.WeightComputer
	adjust   stats.Adjuster

	// beforeReplicate, when set, runs at the start of every replicate and
	// fails it by returning an error.
	beforeReplicate func(index int) error
}

// New validates opts, applies defaults and resolves the named strategies.
func New(opts Options) (*Engine, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	dist, err := DistributionByName(opts.Distribution)
	if err != nil {
		return nil, err
	}
	estimate, err := stats.ProbabilityEstimatorByName(opts.Estimator)
	if err != nil {
		return nil, err
	}
	weights, err := pathway.WeightComputerByName(opts.WeightComputer)
	if err != nil {
		return nil, err
	}
	adjust, err := stats.AdjusterByName(opts.Adjuster)
	if err != nil {
		return nil, err
	}
	return &Engine{opts: opts, dist: dist, estimate: estimate, weights: weights, adjust: adjust}, nil
}

// Options returns the effective options, defaults applied.
func (e *Engine) Options() Options { return e.opts }

// WithDistribution replaces the sampling distribution.
func (e *Engine) WithDistribution(d Distribution) *Engine {
	if d != nil {
		e.dist = d
	}
	return e
}

// Run executes the observed replicate and all null replicates and scores
// every node and pathway.
//
// A failed null replicate is logged and left out of the pooled counters;
// Result.FailedReplicates reports how many were lost. Run fails when the
// observed replicate fails or when no null replicate succeeds.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := e.opts.Logger
	repo := e.opts.Repository

	cat, err := propagation.BuildCatalog(repo, e.weights)
	if err != nil {
		return nil, err
	}
	m := newModel(repo, cat)
	plans := e.plan(outDegrees(repo))
	logger.Debug("simulation planned", "replicates", len(plans), "pathways", len(m.entries), "nodes", len(m.nodes))

	hooks := observability.Simulation()
	hooks.OnSimulationStart(ctx, len(plans), e.opts.Workers)
	outcomes, errs := e.execute(ctx, m, plans)

	failed := 0
	for i, err := range errs {
		if err == nil {
			continue
		}
		logger.Error("replicate failed", "replicate", i, "err", err)
		hooks.OnReplicateFailed(ctx, i, err)
		if i > 0 {
			failed++
		}
	}

	var runErr error
	switch {
	case errs[0] != nil:
		runErr = perrors.Wrap(perrors.ErrCodeInternal, errs[0], "observed replicate failed")
	case failed == len(plans)-1:
		runErr = perrors.Wrap(perrors.ErrCodeInternal, errors.Join(errs[1:]...), "all %d null replicates failed", failed)
	}
	hooks.OnSimulationComplete(ctx, len(plans), failed, time.Since(start), runErr)
	if runErr != nil {
		return nil, runErr
	}

	res := e.score(m, outcomes)
	res.FailedReplicates = failed
	logger.Info("simulation complete",
		"replicates", len(plans)-1, "failed", failed,
		"duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

// plan draws every replicate's seed and constraint set from the master RNG.
// Replicate 0 uses the observed constraints.
func (e *Engine) plan(degrees map[string]int) []plan {
	rng := e.opts.Rand
	observed := sortedTargets(e.opts.Constraints)
	ids := make([]string, len(observed))
	for i, t := range observed {
		ids[i] = t.id
	}
	gen := newSubsetGenerator(candidateSet(degrees, ids, len(ids)), len(ids), ids)

	plans := make([]plan, e.opts.Repetitions+1)
	plans[0] = plan{index: 0, targets: observed}
	for i := 1; i < len(plans); i++ {
		plans[i] = plan{index: i, targets: remap(observed, gen.next(rng))}
	}
	for i := range plans {
		plans[i].seed = [2]uint64{rng.Uint64(), rng.Uint64()}
	}
	return plans
}

// execute runs the plans on a fixed-size worker pool and waits for all of
// them. Outcomes and errors are indexed like plans.
func (e *Engine) execute(ctx context.Context, m *model, plans []plan) ([]*outcome, []error) {
	outcomes := make([]*outcome, len(plans))
	errs := make([]error, len(plans))
	workers := min(e.opts.Workers, len(plans))

	jobs := make(chan int, workers*2)
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i], errs[i] = e.runReplicate(ctx, m, plans[i])
			}
		}()
	}
	for i := range plans {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return outcomes, errs
}

// score pools the null outcomes and scores every node and pathway.
func (e *Engine) score(m *model, outcomes []*outcome) *Result {
	observed := outcomes[0]
	var nulls []*outcome
	for _, o := range outcomes[1:] {
		if o != nil {
			nulls = append(nulls, o)
		}
	}
	sc := Scorer{Smoothing: e.opts.Smoothing, Estimator: e.estimate}

	res := &Result{Replicates: e.opts.Repetitions, Simulations: e.opts.Simulations}
	res.Nodes = make([]Entry, len(m.nodes))
	for i, id := range m.nodes {
		res.Nodes[i] = e.entry(sc, i, observed.nodes, nulls, func(o *outcome) tally { return o.nodes })
		res.Nodes[i].ID = id
	}
	res.Pathways = make([]Entry, len(m.entries))
	for i, en := range m.entries {
		res.Pathways[i] = e.entry(sc, i, observed.pathways, nulls, func(o *outcome) tally { return o.pathways })
		res.Pathways[i].ID = en.id
		res.Pathways[i].Name = en.name
		res.Pathways[i].Virtual = en.virtual
	}
	e.adjustEntries(res.Nodes)
	e.adjustEntries(res.Pathways)
	return res
}

func (e *Engine) entry(sc Scorer, i int, observed tally, nulls []*outcome, pick func(*outcome) tally) Entry {
	var pooled [3]float64
	means := make([]float64, len(nulls))
	for j, o := range nulls {
		t := pick(o)
		for s := range pooled {
			pooled[s] += t.counts[i][s]
		}
		means[j] = t.values[i].Mean()
	}
	mean := observed.values[i].Mean()
	return Entry{
		Perturbation: mean,
		Score:        sc.Score(countsOf(observed.counts[i]), countsOf(pooled), mean, means),
	}
}

func (e *Engine) adjustEntries(entries []Entry) {
	p := make([]float64, len(entries))
	emp := make([]float64, len(entries))
	for i, en := range entries {
		p[i], emp[i] = en.PValue, en.EmpiricalPValue
	}
	p, emp = e.adjust(p), e.adjust(emp)
	for i := range entries {
		entries[i].AdjustedPValue = min(1, p[i])
		entries[i].AdjustedEmpiricalPValue = min(1, emp[i])
	}
}

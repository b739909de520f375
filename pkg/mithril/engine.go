package mithril

import (
	"context"
	"math"
	"time"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/propagation"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// Engine runs a MITHrIL analysis. An engine is single-use per Run call but
// may be run again; every run draws fresh permutations from Options.Rand.
type Engine struct {
	opts    Options
	combine stats.Combiner
	adjust  stats.Adjuster
	weights pathway.WeightComputer
}

// New validates opts, applies defaults and resolves the named strategies.
func New(opts Options) (*Engine, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	combine, err := stats.CombinerByName(opts.Combiner)
	if err != nil {
		return nil, err
	}
	adjust, err := stats.AdjusterByName(opts.Adjuster)
	if err != nil {
		return nil, err
	}
	weights, err := pathway.WeightComputerByName(opts.WeightComputer)
	if err != nil {
		return nil, err
	}
	return &Engine{opts: opts, combine: combine, adjust: adjust, weights: weights}, nil
}

// Options returns the effective options, defaults applied.
func (e *Engine) Options() Options { return e.opts }

// Run analyzes every visible pathway and every virtual pathway of the
// repository and returns their scores.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	logger := e.opts.Logger
	repo := e.opts.Repository

	cat, err := propagation.BuildCatalog(repo, e.weights)
	if err != nil {
		return nil, err
	}
	hooks := observability.Analysis()
	hooks.OnAnalysisStart(ctx, len(cat.IDs())+len(cat.Virtual()), e.opts.Repetitions)

	res, err := e.run(ctx, cat)
	hooks.OnAnalysisComplete(ctx, len(cat.IDs())+len(cat.Virtual()), time.Since(start), err)
	if err != nil {
		return nil, err
	}
	logger.Info("analysis complete", "pathways", len(res.Pathways), "duration", time.Since(start).Round(time.Millisecond))
	return res, nil
}

func (e *Engine) run(ctx context.Context, cat *propagation.Catalog) (*Result, error) {
	logger := e.opts.Logger
	repo := e.opts.Repository
	universe := repo.NodeUniverse()

	deUniverse := 0
	for _, id := range universe {
		if e.opts.Expression[id] != 0 {
			deUniverse++
		}
	}
	logger.Debug("node universe", "nodes", len(universe), "de", deUniverse)

	observed := make(map[string]evaluation, len(cat.IDs()))
	for _, id := range cat.IDs() {
		tbl, _ := cat.Table(id)
		if tbl.IsEmpty() {
			continue
		}
		pf, ex := propagation.NewPropagator(tbl).Run(e.opts.Expression)
		observed[id] = evaluation{pf: pf, e: ex}
	}

	result := &Result{Repetitions: e.opts.Repetitions, Universe: len(universe), DENodes: deUniverse}
	type pending struct {
		tbl *propagation.Table
		idx []int
	}
	var scored []pending
	var indexOf []int

	for _, p := range repo.Pathways() {
		pr := PathwayResult{ID: p.ID, Name: p.Name}
		tbl, ok := cat.Table(p.ID)
		if !ok || tbl.IsEmpty() {
			pr.Skipped = true
			if ok {
				pr.Nodes = tbl.Len()
			}
			result.Pathways = append(result.Pathways, trivial(pr))
			continue
		}
		idx := allIndices(tbl.Len())
		score(&pr, tbl, idx, observed[p.ID], len(universe), deUniverse)
		result.Pathways = append(result.Pathways, pr)
		scored = append(scored, pending{tbl, idx})
		indexOf = append(indexOf, len(result.Pathways)-1)
	}
	for _, v := range cat.Virtual() {
		pr := PathwayResult{ID: v.ID, Name: v.Name, Virtual: true, Source: v.Source.ID}
		if v.Source.IsEmpty() || len(v.Nodes) == 0 {
			pr.Skipped = true
			pr.Nodes = len(v.Nodes)
			result.Pathways = append(result.Pathways, trivial(pr))
			continue
		}
		score(&pr, v.Source, v.Nodes, observed[v.Source.ID], len(universe), deUniverse)
		result.Pathways = append(result.Pathways, pr)
		scored = append(scored, pending{v.Source, v.Nodes})
		indexOf = append(indexOf, len(result.Pathways)-1)
	}

	// Targets are built after result.Pathways stops growing so that the
	// pointers stay valid.
	var targets []*target
	for i, s := range scored {
		pr := &result.Pathways[indexOf[i]]
		if pr.Accumulation == 0 || math.IsNaN(pr.Accumulation) || math.IsInf(pr.Accumulation, 0) {
			continue
		}
		targets = append(targets, &target{res: pr, table: s.tbl, idx: s.idx})
	}
	logger.Info("permutation test", "targets", len(targets), "repetitions", e.opts.Repetitions)
	if err := e.permute(ctx, targets, universe); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInternal, err, "permutation test interrupted")
	}

	raw := make([]float64, len(indexOf))
	for i, at := range indexOf {
		raw[i] = result.Pathways[at].PValue
	}
	adjusted := e.adjust(raw)
	for i, at := range indexOf {
		result.Pathways[at].AdjustedPValue = min(1, adjusted[i])
	}
	return result, nil
}

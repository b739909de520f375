package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/pipeline"
)

// phensimFlags holds the flags of the phensim command.
type phensimFlags struct {
	repository   string
	constraints  string
	nonExpressed string
	output       string
	top          int

	repetitions  int
	simulations  int
	epsilon      float64
	smoothing    float64
	workers      int
	distribution string
	estimator    string
	adjuster     string
	weights      string
	seed         uint64
	refresh      bool
}

// phensimCommand creates the phensim command.
func (c *CLI) phensimCommand() *cobra.Command {
	var f phensimFlags
	cmd := &cobra.Command{
		Use:   "phensim",
		Short: "Simulate the effect of up- or down-regulating nodes",
		Long: `Sample expression values for the constrained nodes, propagate them through
every pathway and classify each node and pathway as activated, inhibited or
unaffected. Null replicates perturb random node sets of the same size and
provide the p-values.

The constraint file has one "id<TAB>UP|DOWN[<TAB>value]" line per node. The
optional non-expressed list names nodes held at zero.`,
		Example: `  pathsim phensim -r kegg.yaml -c knockdown.tsv -o sim.json --seed 7
  pathsim phensim -r kegg.yaml -c knockdown.tsv --non-expressed absent.txt --workers 8`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runPhensim(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.repository, "repository", "r", "", "pathway repository document (YAML or JSON)")
	fl.StringVarP(&f.constraints, "constraints", "c", "", "constraint TSV (id, direction[, value])")
	fl.StringVar(&f.nonExpressed, "non-expressed", "", "file listing nodes that are not expressed")
	fl.StringVarP(&f.output, "output", "o", "", "write the JSON result to this file instead of stdout")
	fl.IntVar(&f.top, "top", 10, "pathways listed in the summary")
	fl.IntVar(&f.repetitions, "repetitions", 0, "null replicates (config default: 100)")
	fl.IntVar(&f.simulations, "simulations", 0, "simulations per replicate (config default: 1000)")
	fl.Float64Var(&f.epsilon, "epsilon", 0, "threshold below which a value counts as unchanged")
	fl.Float64Var(&f.smoothing, "smoothing", 0, "additive smoothing of state probabilities")
	fl.IntVarP(&f.workers, "workers", "w", 0, "parallel replicates (default: number of CPUs)")
	fl.StringVar(&f.distribution, "distribution", "", "constraint value distribution: uniform, normal, fixed")
	fl.StringVar(&f.estimator, "estimator", "", "probability estimator: laplace or empirical")
	fl.StringVar(&f.adjuster, "adjuster", "", "multiple-testing adjustment: bh, bonferroni, ...")
	fl.StringVar(&f.weights, "weights", "", "edge weight strategy: subtype or sign")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed; 0 draws a fresh seed and skips the cache")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	_ = cmd.MarkFlagRequired("repository")
	_ = cmd.MarkFlagRequired("constraints")

	return cmd
}

// simulationOptions merges the config file with the flags that were set.
func (c *CLI) simulationOptions(cmd *cobra.Command, f phensimFlags) pipeline.SimulationOptions {
	pc := c.cfg.Phensim
	eps := pc.Epsilon
	override(cmd, "epsilon", &eps, f.epsilon)
	opts := pipeline.SimulationOptions{
		Repository:     f.repository,
		Constraints:    f.constraints,
		NonExpressed:   f.nonExpressed,
		Repetitions:    pc.Repetitions,
		Simulations:    pc.Simulations,
		Epsilon:        &eps,
		Smoothing:      pc.Smoothing,
		Workers:        pc.Workers,
		Distribution:   pc.Distribution,
		Estimator:      pc.Estimator,
		Adjuster:       pc.Adjuster,
		WeightComputer: pc.WeightComputer,
		Seed:           pc.Seed,
		Refresh:        f.refresh,
		Logger:         c.Logger,
		TTL:            c.cfg.Cache.TTL,
	}
	override(cmd, "repetitions", &opts.Repetitions, f.repetitions)
	override(cmd, "simulations", &opts.Simulations, f.simulations)
	override(cmd, "smoothing", &opts.Smoothing, f.smoothing)
	override(cmd, "workers", &opts.Workers, f.workers)
	override(cmd, "distribution", &opts.Distribution, f.distribution)
	override(cmd, "estimator", &opts.Estimator, f.estimator)
	override(cmd, "adjuster", &opts.Adjuster, f.adjuster)
	override(cmd, "weights", &opts.WeightComputer, f.weights)
	override(cmd, "seed", &opts.Seed, f.seed)
	return opts
}

func (c *CLI) runPhensim(cmd *cobra.Command, f phensimFlags) error {
	ctx := cmd.Context()
	opts := c.simulationOptions(cmd, f)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := withProgress(ctx, "Simulating replicates", func(ctx context.Context, h *progressHooks) (*pipeline.SimulationResult, error) {
		observability.SetSimulationHooks(h)
		return runner.Simulate(ctx, opts)
	})
	if err != nil {
		return err
	}
	prog.done("Simulation finished", "run", res.RunID, "cached", res.CacheHit)

	return c.writeResult(cmd, f.output, res, func() {
		printSimulationSummary(res, f.top)
	})
}

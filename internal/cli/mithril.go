package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pathwaylab/pathsim/pkg/observability"
	"github.com/pathwaylab/pathsim/pkg/pipeline"
)

// mithrilFlags holds the flags of the mithril command. Unset tuning flags
// fall back to the config file.
type mithrilFlags struct {
	repository string
	expression string
	output     string
	top        int

	repetitions     int
	seed            uint64
	combiner        string
	adjuster        string
	weights         string
	skipNodePValues bool
	refresh         bool
}

// mithrilCommand creates the mithril command.
func (c *CLI) mithrilCommand() *cobra.Command {
	var f mithrilFlags
	cmd := &cobra.Command{
		Use:   "mithril",
		Short: "Score pathway perturbation from expression changes",
		Long: `Propagate measured log-fold-changes through every pathway and score each
pathway with an impact factor, a permutation p-value, and a combined p-value
adjusted for multiple testing.

The expression file has one "id<TAB>value" line per differentially expressed
node. Lines starting with # are ignored.`,
		Example: `  pathsim mithril -r kegg.yaml -e degs.tsv -o result.json --seed 42
  pathsim mithril -r kegg.yaml -e degs.tsv --repetitions 501 --adjuster bonferroni`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMithril(cmd, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.repository, "repository", "r", "", "pathway repository document (YAML or JSON)")
	fl.StringVarP(&f.expression, "expression", "e", "", "expression TSV (id, log-fold-change)")
	fl.StringVarP(&f.output, "output", "o", "", "write the JSON result to this file instead of stdout")
	fl.IntVar(&f.top, "top", 10, "pathways listed in the summary")
	fl.IntVar(&f.repetitions, "repetitions", 0, "permutations of the significance test (config default: 2001)")
	fl.Uint64Var(&f.seed, "seed", 0, "random seed; 0 draws a fresh seed and skips the cache")
	fl.StringVar(&f.combiner, "combiner", "", "p-value combination: fisher, stouffer, ...")
	fl.StringVar(&f.adjuster, "adjuster", "", "multiple-testing adjustment: bh, bonferroni, ...")
	fl.StringVar(&f.weights, "weights", "", "edge weight strategy: subtype or sign")
	fl.BoolVar(&f.skipNodePValues, "skip-node-pvalues", false, "do not estimate per-node p-values")
	fl.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
	_ = cmd.MarkFlagRequired("repository")
	_ = cmd.MarkFlagRequired("expression")

	return cmd
}

// analysisOptions merges the config file with the flags that were set.
func (c *CLI) analysisOptions(cmd *cobra.Command, f mithrilFlags) pipeline.AnalysisOptions {
	mc := c.cfg.Mithril
	opts := pipeline.AnalysisOptions{
		Repository:      f.repository,
		Expression:      f.expression,
		Repetitions:     mc.Repetitions,
		Combiner:        mc.Combiner,
		Adjuster:        mc.Adjuster,
		WeightComputer:  mc.WeightComputer,
		SkipNodePValues: mc.SkipNodePValues,
		Seed:            mc.Seed,
		Refresh:         f.refresh,
		Logger:          c.Logger,
		TTL:             c.cfg.Cache.TTL,
	}
	override(cmd, "repetitions", &opts.Repetitions, f.repetitions)
	override(cmd, "seed", &opts.Seed, f.seed)
	override(cmd, "combiner", &opts.Combiner, f.combiner)
	override(cmd, "adjuster", &opts.Adjuster, f.adjuster)
	override(cmd, "weights", &opts.WeightComputer, f.weights)
	override(cmd, "skip-node-pvalues", &opts.SkipNodePValues, f.skipNodePValues)
	return opts
}

func (c *CLI) runMithril(cmd *cobra.Command, f mithrilFlags) error {
	ctx := cmd.Context()
	opts := c.analysisOptions(cmd, f)

	runner, err := c.newRunner(ctx)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	res, err := withProgress(ctx, "Running permutation test", func(ctx context.Context, h *progressHooks) (*pipeline.AnalysisResult, error) {
		observability.SetAnalysisHooks(h)
		return runner.Analyze(ctx, opts)
	})
	if err != nil {
		return err
	}
	prog.done("Analysis finished", "run", res.RunID, "cached", res.CacheHit)

	return c.writeResult(cmd, f.output, res, func() {
		printAnalysisSummary(res, f.top)
	})
}

// override replaces *dst with v when the named flag was set explicitly.
func override[T any](cmd *cobra.Command, name string, dst *T, v T) {
	if cmd.Flags().Changed(name) {
		*dst = v
	}
}

// describeSeed formats the seed line of a summary.
func describeSeed(seed uint64, cached bool) string {
	if cached {
		return fmt.Sprintf("%d (cached)", seed)
	}
	return fmt.Sprintf("%d", seed)
}

package mithril

import (
	"io"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/repository"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// DefaultRepetitions is the number of permutations of the significance test.
const DefaultRepetitions = 2001

// Options configures an analysis.
type Options struct {
	// Expression maps node IDs to log-fold-changes. Missing nodes count as 0.
	Expression map[string]float64 `json:"-"`
	// Repository holds the pathways to analyze.
	Repository *repository.Repository `json:"-"`
	// Rand drives the permutation test. Required for reproducibility.
	Rand *rand.Rand `json:"-"`

	Repetitions     int    `json:"repetitions,omitempty"`
	Combiner        string `json:"combiner,omitempty"`
	Adjuster        string `json:"adjuster,omitempty"`
	WeightComputer  string `json:"weight_computer,omitempty"`
	SkipNodePValues bool   `json:"skip_node_pvalues,omitempty"` // default: false = compute

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Repetitions == 0 {
		o.Repetitions = DefaultRepetitions
	}
	if o.Combiner == "" {
		o.Combiner = stats.DefaultCombiner
	}
	if o.Adjuster == "" {
		o.Adjuster = stats.DefaultAdjuster
	}
	if o.WeightComputer == "" {
		o.WeightComputer = pathway.DefaultWeightComputer
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks required inputs. It does not resolve strategy names; see [New].
func (o *Options) Validate() error {
	if o.Expression == nil {
		return perrors.New(perrors.ErrCodeInvalidConfig, "expression map is required")
	}
	if o.Repository == nil {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repository is required")
	}
	if o.Rand == nil {
		return perrors.New(perrors.ErrCodeInvalidConfig, "random source is required")
	}
	if o.Repetitions < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repetitions must be positive, got %d", o.Repetitions)
	}
	return perrors.ValidateExpression(o.Expression)
}

// ComputeNodePValues reports whether per-node p-values are estimated.
func (o *Options) ComputeNodePValues() bool { return !o.SkipNodePValues }

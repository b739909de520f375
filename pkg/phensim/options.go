package phensim

import (
	"io"
	"math"
	"math/rand/v2"
	"runtime"

	"github.com/charmbracelet/log"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/repository"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

const (
	// DefaultRepetitions is the number of null replicates.
	DefaultRepetitions = 100
	// DefaultSimulations is the number of inner simulations per replicate.
	DefaultSimulations = 1000
	// DefaultEpsilon is the classification threshold.
	DefaultEpsilon = 0.001
	// DefaultSmoothing is the additive smoothing constant of the scorer.
	DefaultSmoothing = 1e-3
)

// Options configures a simulation.
type Options struct {
	// Constraints maps the perturbed node IDs to their expected change.
	Constraints map[string]Constraint `json:"-"`
	// NonExpressed nodes are held at zero in every simulation.
	NonExpressed []string `json:"-"`
	// Repository holds the pathways to simulate.
	Repository *repository.Repository `json:"-"`
	// Rand is the master RNG. Replicate seeds are drawn from it.
	Rand *rand.Rand `json:"-"`

	Repetitions    int      `json:"repetitions,omitempty"`
	Simulations    int      `json:"simulations,omitempty"`
	// Epsilon is the classification threshold. Nil selects DefaultEpsilon;
	// a zero threshold counts every non-zero perturbation as a change.
	Epsilon        *float64 `json:"epsilon,omitempty"`
	Smoothing      float64  `json:"smoothing,omitempty"`
	Workers        int      `json:"-"`
	Distribution   string   `json:"distribution,omitempty"`
	Estimator      string   `json:"estimator,omitempty"`
	WeightComputer string   `json:"weight_computer,omitempty"`
	Adjuster       string   `json:"adjuster,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills unset fields with their defaults.
func (o *Options) SetDefaults() {
	if o.Repetitions == 0 {
		o.Repetitions = DefaultRepetitions
	}
	if o.Simulations == 0 {
		o.Simulations = DefaultSimulations
	}
	if o.Epsilon == nil {
		eps := DefaultEpsilon
		o.Epsilon = &eps
	}
	if o.Smoothing == 0 {
		o.Smoothing = DefaultSmoothing
	}
	if o.Workers == 0 {
		o.Workers = runtime.NumCPU()
	}
	if o.Distribution == "" {
		o.Distribution = DefaultDistribution
	}
	if o.Estimator == "" {
		o.Estimator = stats.DefaultProbabilityEstimator
	}
	if o.WeightComputer == "" {
		o.WeightComputer = pathway.DefaultWeightComputer
	}
	if o.Adjuster == "" {
		o.Adjuster = stats.DefaultAdjuster
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate checks required inputs and numeric ranges.
func (o *Options) Validate() error {
	if len(o.Constraints) == 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "at least one constrained node is required")
	}
	if o.Repository == nil {
		return perrors.New(perrors.ErrCodeInvalidConfig, "repository is required")
	}
	if o.Rand == nil {
		return perrors.New(perrors.ErrCodeInvalidConfig, "random source is required")
	}
	for id, c := range o.Constraints {
		if err := perrors.ValidateIdentifier("node", id); err != nil {
			return err
		}
		if math.IsNaN(c.Value) || math.IsInf(c.Value, 0) {
			return perrors.New(perrors.ErrCodeInvalidInput, "constraint on %s has non-finite value", id)
		}
	}
	switch {
	case o.Repetitions < 1:
		return perrors.New(perrors.ErrCodeInvalidConfig, "repetitions must be positive, got %d", o.Repetitions)
	case o.Simulations < 1:
		return perrors.New(perrors.ErrCodeInvalidConfig, "simulations must be positive, got %d", o.Simulations)
	case o.Epsilon == nil:
		return perrors.New(perrors.ErrCodeInvalidConfig, "epsilon is required")
	case *o.Epsilon < 0 || math.IsNaN(*o.Epsilon):
		return perrors.New(perrors.ErrCodeInvalidConfig, "epsilon must not be negative, got %g", *o.Epsilon)
	case o.Workers < 1:
		return perrors.New(perrors.ErrCodeInvalidConfig, "workers must be positive, got %d", o.Workers)
	}
	return perrors.ValidateProbability("smoothing", o.Smoothing)
}

// Package config loads pathsim defaults from a TOML file and the environment.
//
// Precedence, lowest first: built-in defaults, the config file, PATHSIM_*
// environment variables. Command-line flags are applied by the caller on top
// of the returned Config.
//
//	[mithril]
//	repetitions = 2001
//	adjuster = "bh"
//
//	[phensim]
//	simulations = 1000
//	workers = 8
//
//	[cache]
//	ttl = "168h"
//	redis_addr = "localhost:6379"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
	"github.com/pathwaylab/pathsim/pkg/mithril"
	"github.com/pathwaylab/pathsim/pkg/pathway"
	"github.com/pathwaylab/pathsim/pkg/phensim"
	"github.com/pathwaylab/pathsim/pkg/stats"
)

// AppName is used for the config and cache directories.
const AppName = "pathsim"

// Config holds every setting that can come from a file.
type Config struct {
	Mithril MithrilConfig `toml:"mithril"`
	Phensim PhensimConfig `toml:"phensim"`
	Cache   CacheConfig   `toml:"cache"`
	Logging LoggingConfig `toml:"logging"`
}

// MithrilConfig mirrors the tunable fields of mithril.Options.
type MithrilConfig struct {
	Repetitions     int    `toml:"repetitions"`
	Combiner        string `toml:"combiner"`
	Adjuster        string `toml:"adjuster"`
	WeightComputer  string `toml:"weight_computer"`
	SkipNodePValues bool   `toml:"skip_node_pvalues"`
	// Seed fixes the RNG. Zero draws a fresh seed for every run.
	Seed uint64 `toml:"seed"`
}

// PhensimConfig mirrors the tunable fields of phensim.Options.
type PhensimConfig struct {
	Repetitions    int     `toml:"repetitions"`
	Simulations    int     `toml:"simulations"`
	Epsilon        float64 `toml:"epsilon"`
	Smoothing      float64 `toml:"smoothing"`
	Workers        int     `toml:"workers"`
	Distribution   string  `toml:"distribution"`
	Estimator      string  `toml:"estimator"`
	Adjuster       string  `toml:"adjuster"`
	WeightComputer string  `toml:"weight_computer"`
	Seed           uint64  `toml:"seed"`
}

// CacheConfig selects the result cache backend.
type CacheConfig struct {
	Enabled bool          `toml:"enabled"`
	Dir     string        `toml:"dir"`
	TTL     time.Duration `toml:"ttl"`
	// RedisAddr switches from the file cache to Redis when set.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	Prefix        string `toml:"prefix"`
}

// LoggingConfig sets the log verbosity.
type LoggingConfig struct {
	// Level is "debug", "info", "warn" or "error".
	Level string `toml:"level"`
}

// DefaultCacheTTL is how long cached results stay valid.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Mithril: MithrilConfig{
			Repetitions:    mithril.DefaultRepetitions,
			Combiner:       stats.DefaultCombiner,
			Adjuster:       stats.DefaultAdjuster,
			WeightComputer: pathway.DefaultWeightComputer,
		},
		Phensim: PhensimConfig{
			Repetitions:    phensim.DefaultRepetitions,
			Simulations:    phensim.DefaultSimulations,
			Epsilon:        phensim.DefaultEpsilon,
			Smoothing:      phensim.DefaultSmoothing,
			Distribution:   phensim.DefaultDistribution,
			Estimator:      stats.DefaultProbabilityEstimator,
			Adjuster:       stats.DefaultAdjuster,
			WeightComputer: pathway.DefaultWeightComputer,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     DefaultCacheTTL,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// DefaultPath returns ~/.config/pathsim/config.toml, or "" when the user
// config directory is unknown.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, AppName, "config.toml")
}

// DefaultCacheDir returns the per-user cache directory.
func DefaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppName)
	}
	return filepath.Join(dir, AppName)
}

// Load reads path, or the default location when path is empty, and applies
// environment overrides. A missing default file is not an error; a missing
// explicit file is FILE_NOT_FOUND.
func Load(path string) (*Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			fileCfg, err := LoadFromFile(path)
			if err != nil {
				return nil, err
			}
			cfg = fileCfg
		} else if explicit {
			return nil, perrors.Wrap(perrors.ErrCodeFileNotFound, err, "config %s", path)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if cfg.Cache.Dir == "" {
		cfg.Cache.Dir = DefaultCacheDir()
	}
	return cfg, cfg.Validate()
}

// LoadFromFile decodes a TOML file over the defaults. Unknown keys are
// rejected so that typos do not silently fall back to defaults.
func LoadFromFile(path string) (*Config, error) {
	cfg := Default()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, perrors.New(perrors.ErrCodeInvalidConfig, "%s: unknown keys %s", path, strings.Join(keys, ", "))
	}
	return cfg, nil
}

// Validate checks numeric ranges and strategy names.
func (c *Config) Validate() error {
	if c.Mithril.Repetitions < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "mithril.repetitions must be positive, got %d", c.Mithril.Repetitions)
	}
	if c.Phensim.Repetitions < 1 || c.Phensim.Simulations < 1 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "phensim.repetitions and phensim.simulations must be positive")
	}
	if c.Phensim.Workers < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "phensim.workers must not be negative, got %d", c.Phensim.Workers)
	}
	if c.Phensim.Epsilon < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "phensim.epsilon must not be negative, got %g", c.Phensim.Epsilon)
	}
	if err := perrors.ValidateProbability("phensim.smoothing", c.Phensim.Smoothing); err != nil {
		return err
	}
	if c.Cache.TTL < 0 {
		return perrors.New(perrors.ErrCodeInvalidConfig, "cache.ttl must not be negative, got %v", c.Cache.TTL)
	}

	checks := []struct {
		key, value string
		valid      []string
	}{
		{"mithril.combiner", c.Mithril.Combiner, stats.CombinerNames()},
		{"mithril.adjuster", c.Mithril.Adjuster, stats.AdjusterNames()},
		{"mithril.weight_computer", c.Mithril.WeightComputer, pathway.WeightComputerNames()},
		{"phensim.distribution", c.Phensim.Distribution, phensim.DistributionNames()},
		{"phensim.estimator", c.Phensim.Estimator, stats.ProbabilityEstimatorNames()},
		{"phensim.adjuster", c.Phensim.Adjuster, stats.AdjusterNames()},
		{"phensim.weight_computer", c.Phensim.WeightComputer, pathway.WeightComputerNames()},
		{"logging.level", c.Logging.Level, []string{"debug", "info", "warn", "error"}},
	}
	for _, chk := range checks {
		if !slices.Contains(chk.valid, chk.value) {
			return perrors.New(perrors.ErrCodeInvalidStrategy, "invalid %s %q (valid: %s)", chk.key, chk.value, strings.Join(chk.valid, ", "))
		}
	}
	return nil
}

// applyEnvOverrides applies PATHSIM_* variables. Malformed numbers are
// INVALID_CONFIG errors.
func applyEnvOverrides(c *Config) error {
	strs := map[string]*string{
		"PATHSIM_MITHRIL_COMBINER":        &c.Mithril.Combiner,
		"PATHSIM_MITHRIL_ADJUSTER":        &c.Mithril.Adjuster,
		"PATHSIM_MITHRIL_WEIGHT_COMPUTER": &c.Mithril.WeightComputer,
		"PATHSIM_PHENSIM_DISTRIBUTION":    &c.Phensim.Distribution,
		"PATHSIM_PHENSIM_ESTIMATOR":       &c.Phensim.Estimator,
		"PATHSIM_PHENSIM_ADJUSTER":        &c.Phensim.Adjuster,
		"PATHSIM_PHENSIM_WEIGHT_COMPUTER": &c.Phensim.WeightComputer,
		"PATHSIM_CACHE_DIR":               &c.Cache.Dir,
		"PATHSIM_REDIS_ADDR":              &c.Cache.RedisAddr,
		"PATHSIM_REDIS_PASSWORD":          &c.Cache.RedisPassword,
		"PATHSIM_CACHE_PREFIX":            &c.Cache.Prefix,
		"PATHSIM_LOG_LEVEL":               &c.Logging.Level,
	}
	for k, p := range strs {
		if v := os.Getenv(k); v != "" {
			*p = v
		}
	}

	ints := map[string]*int{
		"PATHSIM_MITHRIL_REPETITIONS": &c.Mithril.Repetitions,
		"PATHSIM_PHENSIM_REPETITIONS": &c.Phensim.Repetitions,
		"PATHSIM_PHENSIM_SIMULATIONS": &c.Phensim.Simulations,
		"PATHSIM_PHENSIM_WORKERS":     &c.Phensim.Workers,
		"PATHSIM_REDIS_DB":            &c.Cache.RedisDB,
	}
	for k, p := range ints {
		if v := os.Getenv(k); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "%s", k)
			}
			*p = n
		}
	}

	if v := os.Getenv("PATHSIM_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "PATHSIM_SEED")
		}
		c.Mithril.Seed = seed
		c.Phensim.Seed = seed
	}
	if v := os.Getenv("PATHSIM_PHENSIM_EPSILON"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "PATHSIM_PHENSIM_EPSILON")
		}
		c.Phensim.Epsilon = f
	}
	if v := os.Getenv("PATHSIM_CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return perrors.Wrap(perrors.ErrCodeInvalidConfig, err, "PATHSIM_CACHE_TTL")
		}
		c.Cache.TTL = d
	}
	if v := os.Getenv("PATHSIM_CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = v == "true" || v == "1"
	}
	return nil
}

// String summarizes the config without the Redis password.
func (c *Config) String() string {
	pw := ""
	if c.Cache.RedisPassword != "" {
		pw = "(set)"
	}
	return fmt.Sprintf("Config{Mithril:%+v, Phensim:%+v, Cache:{Enabled:%t Dir:%s TTL:%v Redis:%s Password:%s}, Log:%s}",
		c.Mithril, c.Phensim, c.Cache.Enabled, c.Cache.Dir, c.Cache.TTL, c.Cache.RedisAddr, pw, c.Logging.Level)
}

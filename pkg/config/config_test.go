package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	perrors "github.com/pathwaylab/pathsim/pkg/errors"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	c := Default()
	if err := c.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if c.Mithril.Repetitions != 2001 || c.Phensim.Simulations != 1000 {
		t.Errorf("Default() = %+v", c)
	}
	if !c.Cache.Enabled || c.Cache.TTL != DefaultCacheTTL {
		t.Errorf("Default().Cache = %+v", c.Cache)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
[mithril]
repetitions = 501
adjuster = "bonferroni"
seed = 42

[phensim]
workers = 4
epsilon = 0.01

[cache]
ttl = "2h"
redis_addr = "localhost:6379"
`)
	c, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	if c.Mithril.Repetitions != 501 || c.Mithril.Adjuster != "bonferroni" || c.Mithril.Seed != 42 {
		t.Errorf("Mithril = %+v", c.Mithril)
	}
	if c.Mithril.Combiner != "stouffer" {
		t.Errorf("unset combiner = %q, want default", c.Mithril.Combiner)
	}
	if c.Phensim.Workers != 4 || c.Phensim.Epsilon != 0.01 || c.Phensim.Simulations != 1000 {
		t.Errorf("Phensim = %+v", c.Phensim)
	}
	if c.Cache.TTL != 2*time.Hour || c.Cache.RedisAddr != "localhost:6379" || !c.Cache.Enabled {
		t.Errorf("Cache = %+v", c.Cache)
	}
}

func TestLoadFromFile_UnknownKey(t *testing.T) {
	path := writeConfig(t, "[mithril]\nrepetitons = 5\n")
	_, err := LoadFromFile(path)
	if !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Fatalf("err = %v, want INVALID_CONFIG", err)
	}
	if !strings.Contains(err.Error(), "mithril.repetitons") {
		t.Errorf("error should name the key: %v", err)
	}
}

func TestLoadFromFile_Malformed(t *testing.T) {
	path := writeConfig(t, "[mithril\n")
	if _, err := LoadFromFile(path); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_MissingExplicit(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !perrors.Is(err, perrors.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "[phensim]\nsimulations = 10\n")
	t.Setenv("PATHSIM_PHENSIM_SIMULATIONS", "20")
	t.Setenv("PATHSIM_SEED", "7")
	t.Setenv("PATHSIM_CACHE_DIR", "/tmp/pathsim-test")
	t.Setenv("PATHSIM_CACHE_TTL", "30m")
	t.Setenv("PATHSIM_CACHE_ENABLED", "false")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Phensim.Simulations != 20 {
		t.Errorf("Simulations = %d, want 20", c.Phensim.Simulations)
	}
	if c.Mithril.Seed != 7 || c.Phensim.Seed != 7 {
		t.Errorf("seeds = %d, %d, want 7", c.Mithril.Seed, c.Phensim.Seed)
	}
	if c.Cache.Dir != "/tmp/pathsim-test" || c.Cache.TTL != 30*time.Minute || c.Cache.Enabled {
		t.Errorf("Cache = %+v", c.Cache)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	path := writeConfig(t, "")
	t.Setenv("PATHSIM_PHENSIM_WORKERS", "many")
	if _, err := Load(path); !perrors.Is(err, perrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v, want INVALID_CONFIG", err)
	}
}

func TestLoad_DefaultCacheDir(t *testing.T) {
	c, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if c.Cache.Dir == "" {
		t.Error("Cache.Dir should default to the user cache directory")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		code   perrors.Code
	}{
		{"repetitions", func(c *Config) { c.Mithril.Repetitions = 0 }, perrors.ErrCodeInvalidConfig},
		{"simulations", func(c *Config) { c.Phensim.Simulations = -1 }, perrors.ErrCodeInvalidConfig},
		{"workers", func(c *Config) { c.Phensim.Workers = -2 }, perrors.ErrCodeInvalidConfig},
		{"epsilon", func(c *Config) { c.Phensim.Epsilon = -1 }, perrors.ErrCodeInvalidConfig},
		{"smoothing", func(c *Config) { c.Phensim.Smoothing = 2 }, perrors.ErrCodeInvalidConfig},
		{"ttl", func(c *Config) { c.Cache.TTL = -time.Second }, perrors.ErrCodeInvalidConfig},
		{"combiner", func(c *Config) { c.Mithril.Combiner = "average" }, perrors.ErrCodeInvalidStrategy},
		{"distribution", func(c *Config) { c.Phensim.Distribution = "cauchy" }, perrors.ErrCodeInvalidStrategy},
		{"level", func(c *Config) { c.Logging.Level = "loud" }, perrors.ErrCodeInvalidStrategy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Default()
			tt.mutate(c)
			if err := c.Validate(); !perrors.Is(err, tt.code) {
				t.Errorf("Validate() = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestString_RedactsPassword(t *testing.T) {
	c := Default()
	c.Cache.RedisPassword = "hunter2"
	if s := c.String(); strings.Contains(s, "hunter2") {
		t.Errorf("String() leaks password: %s", s)
	}
}

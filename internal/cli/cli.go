// Package cli implements the pathsim command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/pathwaylab/pathsim/pkg/buildinfo"
	"github.com/pathwaylab/pathsim/pkg/cache"
	"github.com/pathwaylab/pathsim/pkg/config"
	"github.com/pathwaylab/pathsim/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configPath string
	noCache    bool
	redisAddr  string

	cfg *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Pathsim scores and simulates perturbations of biological pathways",
		Long: `Pathsim propagates expression changes through pathway graphs.

The mithril command scores how strongly each pathway is perturbed by a set of
measured log-fold-changes. The phensim command simulates the effect of
forcing a few nodes up or down and reports which nodes and pathways are
likely activated or inhibited.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default: "+config.DefaultPath()+")")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	flags.StringVar(&c.redisAddr, "redis", "", "cache results in Redis at host:port instead of on disk")

	root.AddCommand(c.mithrilCommand())
	root.AddCommand(c.phensimCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the config file and applies its log level.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg
	if lvl, err := log.ParseLevel(cfg.Logging.Level); err == nil {
		c.SetLogLevel(lvl)
	}
	if c.redisAddr != "" {
		c.cfg.Cache.RedisAddr = c.redisAddr
	}
	if c.noCache {
		c.cfg.Cache.Enabled = false
	}
	c.Logger.Debug("loaded config", "config", c.cfg)
	return nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx)
	if err != nil {
		return nil, err
	}
	var keyer cache.Keyer
	if c.cfg.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(nil, c.cfg.Cache.Prefix)
	}
	return pipeline.NewRunner(store, keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context) (cache.Cache, error) {
	cc := c.cfg.Cache
	switch {
	case !cc.Enabled:
		return cache.NewNullCache(), nil
	case cc.RedisAddr != "":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
	}
	fc, err := cache.NewFileCache(c.cacheDir())
	if err != nil {
		c.Logger.Warn("file cache unavailable, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the
// per-user cache location (~/.cache/pathsim/ on Linux).
func (c *CLI) cacheDir() string {
	if c.cfg != nil && c.cfg.Cache.Dir != "" {
		return c.cfg.Cache.Dir
	}
	return config.DefaultCacheDir()
}

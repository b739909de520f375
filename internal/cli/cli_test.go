package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pathwaylab/pathsim/pkg/cache"
	"github.com/pathwaylab/pathsim/pkg/config"
)

const testRepository = `
pathways:
  - id: p1
    name: Chain
    nodes:
      - {id: a, type: gene}
      - {id: b, type: gene}
      - {id: c, type: gene}
    edges:
      - {start: a, end: b, type: pprel, subtypes: [activation]}
      - {start: b, end: c, type: pprel, subtypes: [inhibition]}
`

type testEnv struct {
	dir      string
	cacheDir string
	config   string
	repo     string
	expr     string
	cons     string
}

// newTestEnv writes input files and a config pointing the cache at a
// temporary directory. User-level config and cache locations are
// redirected so the host environment cannot leak in.
func newTestEnv(t *testing.T) testEnv {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg-config"))
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "xdg-cache"))

	env := testEnv{
		dir:      dir,
		cacheDir: filepath.Join(dir, "cache"),
		config:   filepath.Join(dir, "config.toml"),
		repo:     filepath.Join(dir, "repo.yaml"),
		expr:     filepath.Join(dir, "expr.tsv"),
		cons:     filepath.Join(dir, "cons.tsv"),
	}
	files := map[string]string{
		env.config: "[cache]\ndir = '" + env.cacheDir + "'\n",
		env.repo:   testRepository,
		env.expr:   "a\t1.5\n",
		env.cons:   "a\tUP\n",
	}
	for path, body := range files {
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return env
}

// run executes the root command and returns what it wrote to stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func cacheLen(t *testing.T, dir string) (int, error) {
	t.Helper()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	return fc.Len()
}

func TestRootCommandSubcommands(t *testing.T) {
	root := New(io.Discard, LogInfo).RootCommand()
	for _, name := range []string{"mithril", "phensim", "cache", "completion"} {
		if cmd, _, err := root.Find([]string{name}); err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	for _, flag := range []string{"config", "no-cache", "redis"} {
		if root.PersistentFlags().Lookup(flag) == nil {
			t.Errorf("persistent flag --%s missing", flag)
		}
	}
}

func TestCacheDir(t *testing.T) {
	c := New(io.Discard, LogInfo)
	if got, want := c.cacheDir(), config.DefaultCacheDir(); got != want {
		t.Errorf("default cacheDir() = %q, want %q", got, want)
	}
	c.cfg.Cache.Dir = "/srv/pathsim"
	if got := c.cacheDir(); got != "/srv/pathsim" {
		t.Errorf("configured cacheDir() = %q", got)
	}
}

func TestCachePathCommand(t *testing.T) {
	env := newTestEnv(t)
	out, err := run(t, "--config", env.config, "cache", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != env.cacheDir {
		t.Errorf("cache path = %q, want %q", out, env.cacheDir)
	}
}

func TestMissingConfigFile(t *testing.T) {
	env := newTestEnv(t)
	if _, err := run(t, "--config", filepath.Join(env.dir, "absent.toml"), "cache", "path"); err == nil {
		t.Error("expected an error for a missing explicit config file")
	}
}

func TestAnalysisOptionsOverride(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg.Mithril.Repetitions = 99
	c.cfg.Mithril.Adjuster = "holm"

	cmd := c.mithrilCommand()
	if err := cmd.Flags().Set("adjuster", "bonferroni"); err != nil {
		t.Fatal(err)
	}
	opts := c.analysisOptions(cmd, mithrilFlags{adjuster: "bonferroni", repetitions: 7})

	if opts.Repetitions != 99 {
		t.Errorf("Repetitions = %d, want config value 99 when the flag is unset", opts.Repetitions)
	}
	if opts.Adjuster != "bonferroni" {
		t.Errorf("Adjuster = %q, want flag value", opts.Adjuster)
	}
}

func TestSimulationOptionsOverride(t *testing.T) {
	c := New(io.Discard, LogInfo)
	c.cfg.Phensim.Workers = 3
	c.cfg.Phensim.Simulations = 500

	cmd := c.phensimCommand()
	if err := cmd.Flags().Set("simulations", "20"); err != nil {
		t.Fatal(err)
	}
	opts := c.simulationOptions(cmd, phensimFlags{simulations: 20})

	if opts.Workers != 3 {
		t.Errorf("Workers = %d, want config value 3", opts.Workers)
	}
	if opts.Simulations != 20 {
		t.Errorf("Simulations = %d, want flag value 20", opts.Simulations)
	}
}

func TestMithrilStdout(t *testing.T) {
	env := newTestEnv(t)
	out, err := run(t, "--config", env.config, "--no-cache",
		"mithril", "-r", env.repo, "-e", env.expr, "--repetitions", "20", "--seed", "5")
	if err != nil {
		t.Fatal(err)
	}

	var res struct {
		RunID  string `json:"run_id"`
		Seed   uint64 `json:"seed"`
		Result struct {
			Pathways []struct {
				ID string `json:"id"`
			} `json:"pathways"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if res.Seed != 5 || res.RunID == "" {
		t.Errorf("seed = %d, run id = %q", res.Seed, res.RunID)
	}
	if len(res.Result.Pathways) != 1 || res.Result.Pathways[0].ID != "p1" {
		t.Errorf("pathways = %+v", res.Result.Pathways)
	}
	if _, err := os.Stat(env.cacheDir); !os.IsNotExist(err) {
		t.Error("--no-cache should not create the cache directory")
	}
}

func TestMithrilCachedOutputFile(t *testing.T) {
	env := newTestEnv(t)
	output := filepath.Join(env.dir, "result.json")
	args := []string{"--config", env.config,
		"mithril", "-r", env.repo, "-e", env.expr, "-o", output, "--repetitions", "20", "--seed", "5"}

	for range 2 {
		out, err := run(t, args...)
		if err != nil {
			t.Fatal(err)
		}
		if out != "" {
			t.Errorf("stdout should be empty when -o is given, got %q", out)
		}
	}

	if n, err := cacheLen(t, env.cacheDir); err != nil || n != 1 {
		t.Errorf("cache entries = %d (%v), want 1", n, err)
	}
	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatal(err)
	}
	if !json.Valid(data) {
		t.Errorf("output file is not valid JSON")
	}

	if _, err := run(t, "--config", env.config, "cache", "clear"); err != nil {
		t.Fatal(err)
	}
	if n, _ := cacheLen(t, env.cacheDir); n != 0 {
		t.Errorf("cache entries after clear = %d, want 0", n)
	}
}

func TestPhensimStdout(t *testing.T) {
	env := newTestEnv(t)
	out, err := run(t, "--config", env.config, "--no-cache",
		"phensim", "-r", env.repo, "-c", env.cons,
		"--repetitions", "3", "--simulations", "10", "-w", "2", "--seed", "9")
	if err != nil {
		t.Fatal(err)
	}

	var res struct {
		Result struct {
			Nodes []struct {
				ID string `json:"id"`
			} `json:"nodes"`
			Replicates int `json:"replicates"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(out), &res); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out)
	}
	if res.Result.Replicates != 3 {
		t.Errorf("replicates = %d, want 3", res.Result.Replicates)
	}
	if len(res.Result.Nodes) != 3 {
		t.Errorf("nodes = %+v, want a, b and c", res.Result.Nodes)
	}
}

func TestCommandErrors(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		args []string
	}{
		{"missing repository flag", []string{"mithril", "-e", env.expr}},
		{"missing constraints flag", []string{"phensim", "-r", env.repo}},
		{"missing expression file", []string{"mithril", "-r", env.repo, "-e", filepath.Join(env.dir, "none.tsv")}},
		{"unknown combiner", []string{"mithril", "-r", env.repo, "-e", env.expr, "--combiner", "median", "--seed", "1"}},
		{"unexpected argument", []string{"mithril", "-r", env.repo, "-e", env.expr, "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"--config", env.config, "--no-cache"}, tt.args...)
			if _, err := run(t, args...); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestProgressHooks(t *testing.T) {
	ctx := context.Background()
	h := &progressHooks{spinner: newSpinner(ctx, io.Discard, "start")}

	h.OnPermutationProgress(ctx, 4, 10)
	if got := h.spinner.Message(); got != "Permutation test 4/10" {
		t.Errorf("message = %q", got)
	}

	h.OnSimulationStart(ctx, 5, 2)
	h.OnReplicateComplete(ctx, 0, 0)
	h.OnReplicateFailed(ctx, 1, io.EOF)
	h.OnReplicateComplete(ctx, 2, 0)
	if got, want := h.spinner.Message(), "Replicate 2/5 (1 failed)"; got != want {
		t.Errorf("message = %q, want %q", got, want)
	}
}

func TestDescribeSeed(t *testing.T) {
	if got := describeSeed(42, false); got != "42" {
		t.Errorf("describeSeed(42, false) = %q", got)
	}
	if got := describeSeed(42, true); got != "42 (cached)" {
		t.Errorf("describeSeed(42, true) = %q", got)
	}
}

func TestCompletionCommand(t *testing.T) {
	env := newTestEnv(t)
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			out, err := run(t, "--config", env.config, "completion", shell)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(out, "pathsim") {
				t.Errorf("%s completion does not mention the program name", shell)
			}
		})
	}
	if _, err := run(t, "--config", env.config, "completion", "tcsh"); err == nil {
		t.Error("expected an error for an unsupported shell")
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pathwaylab/pathsim/pkg/observability"
)

// progressHooks forwards engine progress to a spinner. Replicate events
// arrive from worker goroutines, so counters are atomic.
type progressHooks struct {
	observability.NoopAnalysisHooks
	observability.NoopSimulationHooks

	spinner   *Spinner
	total     atomic.Int64
	completed atomic.Int64
	failed    atomic.Int64
}

func (h *progressHooks) OnPermutationProgress(_ context.Context, done, total int) {
	h.spinner.SetMessage(fmt.Sprintf("Permutation test %d/%d", done, total))
}

func (h *progressHooks) OnSimulationStart(_ context.Context, replicates, workers int) {
	h.total.Store(int64(replicates))
	h.spinner.SetMessage(fmt.Sprintf("Simulating %d replicates on %d workers", replicates, workers))
}

func (h *progressHooks) OnReplicateComplete(context.Context, int, time.Duration) {
	h.report(h.completed.Add(1))
}

func (h *progressHooks) OnReplicateFailed(context.Context, int, error) {
	h.failed.Add(1)
}

func (h *progressHooks) report(done int64) {
	msg := fmt.Sprintf("Replicate %d/%d", done, h.total.Load())
	if f := h.failed.Load(); f > 0 {
		msg += fmt.Sprintf(" (%d failed)", f)
	}
	h.spinner.SetMessage(msg)
}

// withProgress runs fn behind a spinner. Hooks registered by fn are reset
// when it returns.
func withProgress[T any](ctx context.Context, msg string, fn func(context.Context, *progressHooks) (T, error)) (T, error) {
	spinner := newSpinner(ctx, os.Stderr, msg)
	hooks := &progressHooks{spinner: spinner}
	spinner.Start()
	defer func() {
		spinner.Stop()
		observability.Reset()
	}()
	return fn(ctx, hooks)
}

// Package observability provides hooks for metrics, tracing, and logging.
//
// Engines and the pipeline emit events through small hook interfaces with
// no-op defaults. Consumers register their own implementations once at
// startup; libraries never depend on a particular metrics backend.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetSimulationHooks(&mySimulationHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Analysis().OnAnalysisStart(ctx, pathways, repetitions)
//	// ... run the analysis ...
//	observability.Analysis().OnAnalysisComplete(ctx, pathways, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Analysis Hooks
// =============================================================================

// AnalysisHooks receives events from a MITHrIL analysis.
type AnalysisHooks interface {
	OnAnalysisStart(ctx context.Context, pathways, repetitions int)
	OnAnalysisComplete(ctx context.Context, pathways int, duration time.Duration, err error)

	// OnPermutationProgress reports completed permutation repetitions.
	OnPermutationProgress(ctx context.Context, done, total int)
}

// =============================================================================
// Simulation Hooks
// =============================================================================

// SimulationHooks receives events from a PHENSIM simulation.
type SimulationHooks interface {
	OnSimulationStart(ctx context.Context, replicates, workers int)
	OnSimulationComplete(ctx context.Context, replicates, failed int, duration time.Duration, err error)

	// OnReplicateComplete records a replicate that finished all its inner simulations.
	OnReplicateComplete(ctx context.Context, index int, duration time.Duration)

	// OnReplicateFailed records a replicate that returned an error or panicked.
	OnReplicateFailed(ctx context.Context, index int, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopAnalysisHooks is a no-op implementation of AnalysisHooks.
type NoopAnalysisHooks struct{}

func (NoopAnalysisHooks) OnAnalysisStart(context.Context, int, int)                     {}
func (NoopAnalysisHooks) OnAnalysisComplete(context.Context, int, time.Duration, error) {}
func (NoopAnalysisHooks) OnPermutationProgress(context.Context, int, int)               {}

// NoopSimulationHooks is a no-op implementation of SimulationHooks.
type NoopSimulationHooks struct{}

func (NoopSimulationHooks) OnSimulationStart(context.Context, int, int) {}
func (NoopSimulationHooks) OnSimulationComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopSimulationHooks) OnReplicateComplete(context.Context, int, time.Duration) {}
func (NoopSimulationHooks) OnReplicateFailed(context.Context, int, error)           {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	analysisHooks   AnalysisHooks   = NoopAnalysisHooks{}
	simulationHooks SimulationHooks = NoopSimulationHooks{}
	cacheHooks      CacheHooks      = NoopCacheHooks{}
	hooksMu         sync.RWMutex
)

// SetAnalysisHooks registers custom analysis hooks.
// This should be called once at application startup before any analysis runs.
func SetAnalysisHooks(h AnalysisHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		analysisHooks = h
	}
}

// SetSimulationHooks registers custom simulation hooks.
// Implementations must be safe for concurrent use: replicate events are
// emitted from worker goroutines.
func SetSimulationHooks(h SimulationHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		simulationHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Analysis returns the registered analysis hooks.
func Analysis() AnalysisHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return analysisHooks
}

// Simulation returns the registered simulation hooks.
func Simulation() SimulationHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return simulationHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	analysisHooks = NoopAnalysisHooks{}
	simulationHooks = NoopSimulationHooks{}
	cacheHooks = NoopCacheHooks{}
}

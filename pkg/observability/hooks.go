// Package observability lets an application watch the pipeline, the
// caches, the HTTP API and live simulations without those packages
// depending on a metrics backend.
//
// Hooks are installed once at startup with [Register]. Instrumented code
// fetches the current set through the accessors and calls them around each
// operation:
//
//	observability.Pipeline().OnLayoutStart(ctx, "force", len(data.Nodes))
//	// ... compute layout ...
//	observability.Pipeline().OnLayoutComplete(ctx, "force", time.Since(start), err)
//
// Until something is registered every accessor returns [Noop]. [LogHooks]
// forwards every event to a charmbracelet logger at debug level.
package observability

import (
	"context"
	"sync/atomic"
	"time"
)

// PipelineHooks receives events from the build, layout and render stages.
type PipelineHooks interface {
	OnBuildStart(ctx context.Context, genres int)
	OnBuildComplete(ctx context.Context, nodes, edges int, duration time.Duration, err error)

	OnLayoutStart(ctx context.Context, algorithm string, nodeCount int)
	OnLayoutComplete(ctx context.Context, algorithm string, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives events from cache lookups. keyType is one of
// "graph", "layout" or "artifact".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives events from the API server.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)

	// OnSession fires when a simulation stream opens and again when it
	// closes.
	OnSession(ctx context.Context, id string, open bool)
}

// SimulationHooks receives focus changes from a running simulation.
// category is empty for the overview.
type SimulationHooks interface {
	OnFocus(ctx context.Context, category string, restored int)
	OnSnapshotSave(ctx context.Context, category string, nodes int, err error)
}

// Hooks groups one implementation per event family. Nil fields are
// filled with [Noop] by Register.
type Hooks struct {
	Pipeline   PipelineHooks
	Cache      CacheHooks
	HTTP       HTTPHooks
	Simulation SimulationHooks
}

// Noop implements every hook interface and does nothing.
type Noop struct{}

func (Noop) OnBuildStart(context.Context, int)                                {}
func (Noop) OnBuildComplete(context.Context, int, int, time.Duration, error)  {}
func (Noop) OnLayoutStart(context.Context, string, int)                       {}
func (Noop) OnLayoutComplete(context.Context, string, time.Duration, error)   {}
func (Noop) OnRenderStart(context.Context, []string)                          {}
func (Noop) OnRenderComplete(context.Context, []string, time.Duration, error) {}
func (Noop) OnCacheHit(context.Context, string)                               {}
func (Noop) OnCacheMiss(context.Context, string)                              {}
func (Noop) OnCacheSet(context.Context, string, int)                          {}
func (Noop) OnRequest(context.Context, string, string)                        {}
func (Noop) OnResponse(context.Context, string, string, int, time.Duration)   {}
func (Noop) OnSession(context.Context, string, bool)                          {}
func (Noop) OnFocus(context.Context, string, int)                             {}
func (Noop) OnSnapshotSave(context.Context, string, int, error)               {}

var current atomic.Pointer[Hooks]

func init() { Reset() }

// Register replaces the installed hooks.
func Register(h Hooks) {
	if h.Pipeline == nil {
		h.Pipeline = Noop{}
	}
	if h.Cache == nil {
		h.Cache = Noop{}
	}
	if h.HTTP == nil {
		h.HTTP = Noop{}
	}
	if h.Simulation == nil {
		h.Simulation = Noop{}
	}
	current.Store(&h)
}

// Reset restores the no-op defaults.
func Reset() { Register(Hooks{}) }

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current.Load().Pipeline }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current.Load().Cache }

// HTTP returns the installed HTTP hooks.
func HTTP() HTTPHooks { return current.Load().HTTP }

// Simulation returns the installed simulation hooks.
func Simulation() SimulationHooks { return current.Load().Simulation }

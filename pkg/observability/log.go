package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks implements every hook interface by logging at debug level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{Logger: logger}
}

// Register installs h for every event family.
func (h *LogHooks) Register() {
	Register(Hooks{Pipeline: h, Cache: h, HTTP: h, Simulation: h})
}

func (h *LogHooks) OnBuildStart(_ context.Context, genres int) {
	h.Logger.Debug("build started", "genres", genres)
}

func (h *LogHooks) OnBuildComplete(_ context.Context, nodes, edges int, d time.Duration, err error) {
	h.Logger.Debug("build finished", "nodes", nodes, "edges", edges, "duration", d, "err", err)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, algorithm string, nodeCount int) {
	h.Logger.Debug("layout started", "algorithm", algorithm, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, algorithm string, d time.Duration, err error) {
	h.Logger.Debug("layout finished", "algorithm", algorithm, "duration", d, "err", err)
}

func (h *LogHooks) OnRenderStart(_ context.Context, formats []string) {
	h.Logger.Debug("render started", "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, formats []string, d time.Duration, err error) {
	h.Logger.Debug("render finished", "formats", formats, "duration", d, "err", err)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnRequest(_ context.Context, method, path string) {
	h.Logger.Debug("request", "method", method, "path", path)
}

func (h *LogHooks) OnResponse(_ context.Context, method, path string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "path", path, "status", status, "duration", d)
}

func (h *LogHooks) OnSession(_ context.Context, id string, open bool) {
	if open {
		h.Logger.Debug("session opened", "id", id)
		return
	}
	h.Logger.Debug("session closed", "id", id)
}

func (h *LogHooks) OnFocus(_ context.Context, category string, restored int) {
	if category == "" {
		h.Logger.Debug("overview")
		return
	}
	h.Logger.Debug("focus", "category", category, "restored", restored)
}

func (h *LogHooks) OnSnapshotSave(_ context.Context, category string, nodes int, err error) {
	h.Logger.Debug("snapshot saved", "category", category, "nodes", nodes, "err", err)
}

var (
	_ SimulationHooks = (*LogHooks)(nil)
	_ PipelineHooks   = (*LogHooks)(nil)
	_ CacheHooks      = (*LogHooks)(nil)
	_ HTTPHooks       = (*LogHooks)(nil)
)

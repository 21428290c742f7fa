package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genregraph/pkg/cache"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/observability"
)

// Runner executes pipeline stages with caching. It holds no per-run state,
// so one Runner may serve concurrent requests.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer
// uses DefaultKeyer and a nil logger uses log.Default.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs build → layout → render.
func (r *Runner) Execute(ctx context.Context, in graph.Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	result := &Result{}

	start := time.Now()
	data, hit, err := r.Build(ctx, in, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = data
	result.Stats.BuildTime = time.Since(start)
	result.Stats.NodeCount = data.NodeCount()
	result.Stats.EdgeCount = data.EdgeCount()
	result.CacheInfo.BuildHit = hit
	if h, err := cache.HashJSON(data); err == nil {
		result.GraphHash = h
	}
	r.Logger.Info("built graph",
		"nodes", data.NodeCount(),
		"edges", data.EdgeCount(),
		"duration", result.Stats.BuildTime)

	start = time.Now()
	l, hit, err := r.Layout(ctx, data, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(start)
	result.CacheInfo.LayoutHit = hit
	r.Logger.Info("computed layout",
		"algorithm", l.Algorithm,
		"duration", result.Stats.LayoutTime)

	start = time.Now()
	artifacts, hit, err := r.Render(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(start)
	result.CacheInfo.RenderHit = hit
	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build constructs the graph, using the cache when possible. The bool
// reports a cache hit.
func (r *Runner) Build(ctx context.Context, in graph.Input, opts Options) (graph.Data, bool, error) {
	if err := opts.ValidateForBuild(); err != nil {
		return graph.Data{}, false, err
	}
	inputHash, err := cache.HashJSON(in)
	if err != nil {
		return graph.Data{}, false, err
	}
	key := r.Keyer.GraphKey(inputHash, opts.GraphKeyOpts())

	if !opts.Refresh {
		if raw, ok := r.lookup(ctx, "graph", key); ok {
			if d, err := graph.ReadData(bytes.NewReader(raw)); err == nil {
				return d, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(in.GenreStats))
	start := time.Now()
	data := BuildGraph(in, opts)
	hooks.OnBuildComplete(ctx, data.NodeCount(), data.EdgeCount(), time.Since(start), nil)

	if raw, err := graph.MarshalData(data); err == nil {
		r.store(ctx, "graph", key, raw, cache.GraphTTL)
	}
	return data, false, nil
}

// Layout computes positions for data with caching.
func (r *Runner) Layout(ctx context.Context, data graph.Data, opts Options) (graph.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, false, err
	}
	graphHash, err := cache.HashJSON(data)
	if err != nil {
		return graph.Layout{}, false, err
	}
	key := r.Keyer.LayoutKey(graphHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if raw, ok := r.lookup(ctx, "layout", key); ok {
			if l, err := graph.UnmarshalLayout(raw); err == nil && l.Graph != nil {
				return l, true, nil
			}
		}
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, opts.Algorithm, data.NodeCount())
	start := time.Now()
	l, err := GenerateLayout(data, opts)
	hooks.OnLayoutComplete(ctx, opts.Algorithm, time.Since(start), err)
	if err != nil {
		return graph.Layout{}, false, err
	}

	if raw, err := graph.MarshalLayout(l); err == nil {
		r.store(ctx, "layout", key, raw, cache.LayoutTTL)
	}
	return l, false, nil
}

// Render produces every requested format. The bool is true only when all
// formats came from the cache.
func (r *Runner) Render(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	raw, err := graph.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(raw)

	if !opts.Refresh {
		artifacts := make(map[string][]byte, len(opts.Formats))
		for _, format := range opts.Formats {
			data, ok := r.lookup(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)))
			if !ok {
				break
			}
			artifacts[format] = data
		}
		if len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil
		}
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	rendered, err := RenderLayout(ctx, l, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		r.store(ctx, "artifact", r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format)), data, cache.ArtifactTTL)
	}
	return rendered, false, nil
}

// Close releases the cache.
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, keyType, key string) ([]byte, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "type", keyType, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, keyType)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, keyType)
	return data, true
}

func (r *Runner) store(ctx context.Context, keyType, key string, data []byte, ttl time.Duration) {
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

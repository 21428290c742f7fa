// Package pipeline runs build → layout → render for the CLI and the
// server so both produce identical output for identical options.
//
// # Stages
//
//  1. Build: turn listening facts into a [graph.Data]
//  2. Layout: place every node with one of the layout algorithms
//  3. Render: draw the layout as PNG, SVG, Graphviz DOT/SVG or JSON
//
// Each stage can run on its own through a [Runner], which caches stage
// results keyed by the content hash of their input plus the options that
// affect them:
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, in, pipeline.Options{
//	    Algorithm: "force",
//	    Formats:   []string{"png", "svg"},
//	})
//	png := result.Artifacts["png"]
package pipeline

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/genregraph/pkg/builder"
	"github.com/matzehuels/genregraph/pkg/cache"
	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/layout"
)

// Defaults shared by the CLI and the server.
const (
	DefaultAlgorithm = graph.AlgorithmRadial
	DefaultWidth     = 1600.0
	DefaultHeight    = 1000.0
	DefaultZoom      = 1.0
	DefaultDPR       = 1.0
	DefaultPadding   = 40.0
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatPNG      = "png"
	FormatSVG      = "svg"
	FormatDOT      = "dot"
	FormatGraphviz = "graphviz"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON:     true,
	FormatPNG:      true,
	FormatSVG:      true,
	FormatDOT:      true,
	FormatGraphviz: true,
}

// Options configures every stage. The zero value is usable after the
// SetXDefaults methods run. It is JSON-serializable for API requests.
type Options struct {
	// Build options
	TopK       int              `json:"top_k,omitempty"`
	SizePolicy string           `json:"size_policy,omitempty"`
	SizeScale  float64          `json:"size_scale,omitempty"`
	MinSize    float64          `json:"min_size,omitempty"`
	MaxSize    float64          `json:"max_size,omitempty"`
	Categories *category.Lookup `json:"-"`

	// Layout options
	Algorithm    string  `json:"algorithm,omitempty"`
	Seed         uint32  `json:"seed,omitempty"`
	HasSeed      bool    `json:"has_seed,omitempty"`
	Radius       float64 `json:"radius,omitempty"`
	Iterations   int     `json:"iterations,omitempty"`
	LinkDistance float64 `json:"link_distance,omitempty"`
	LinkStrength float64 `json:"link_strength,omitempty"`
	Anchors      bool    `json:"anchors,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Width    float64  `json:"width,omitempty"`
	Height   float64  `json:"height,omitempty"`
	Zoom     float64  `json:"zoom,omitempty"`
	DPR      float64  `json:"dpr,omitempty"`
	Padding  float64  `json:"padding,omitempty"`
	Fit      bool     `json:"fit,omitempty"`
	Colored  bool     `json:"colored,omitempty"`
	NoLabels bool     `json:"no_labels,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Refresh bypasses cache reads. Results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	Graph     graph.Data
	GraphHash string
	Layout    graph.Layout
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	BuildTime  time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo records which stages were served from the cache.
type CacheInfo struct {
	BuildHit  bool
	LayoutHit bool
	RenderHit bool
}

// ParseFormats splits a comma-separated list, lower-cases and
// de-duplicates it, and validates every entry.
func ParseFormats(s string) ([]string, error) {
	var out []string
	for _, f := range strings.Split(s, ",") {
		f = strings.ToLower(strings.TrimSpace(f))
		if f == "" || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out, ValidateFormats(out)
}

// ValidateFormat checks that a format is supported.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: json, png, svg, dot, graphviz)", format)
	}
	return nil
}

// ValidateFormats checks every format.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAlgorithm checks that a layout algorithm is registered.
func ValidateAlgorithm(name string) error {
	_, err := layout.Lookup(name)
	return err
}

// ValidateSizePolicy checks the builder size policy.
func ValidateSizePolicy(policy string) error {
	if _, ok := builder.ParseSizePolicy(policy); !ok {
		return errors.New(errors.ErrCodeInvalidInput,
			"invalid size policy: %q (must be one of: degree, minutes)", policy)
	}
	return nil
}

func discard() *log.Logger { return log.NewWithOptions(io.Discard, log.Options{}) }

// SetBuildDefaults fills the logger; builder defaults apply inside Build.
func (o *Options) SetBuildDefaults() {
	if o.Logger == nil {
		o.Logger = discard()
	}
}

// ValidateForBuild validates the build options.
func (o *Options) ValidateForBuild() error {
	o.SetBuildDefaults()
	return ValidateSizePolicy(o.SizePolicy)
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = DefaultAlgorithm
	}
	o.Algorithm = strings.ToLower(strings.TrimSpace(o.Algorithm))
	if !o.HasSeed && o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = discard()
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return ValidateAlgorithm(o.Algorithm)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Zoom <= 0 {
		o.Zoom = DefaultZoom
	}
	if o.DPR <= 0 {
		o.DPR = DefaultDPR
	}
	if o.Padding <= 0 {
		o.Padding = DefaultPadding
	}
	if o.Logger == nil {
		o.Logger = discard()
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	return ValidateFormats(o.Formats)
}

// ValidateAndSetDefaults prepares options for a full run.
func (o *Options) ValidateAndSetDefaults() error {
	if err := o.ValidateForBuild(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	return o.ValidateForRender()
}

// BuilderOptions converts to builder options.
func (o *Options) BuilderOptions() *builder.Options {
	policy, _ := builder.ParseSizePolicy(o.SizePolicy)
	return &builder.Options{
		TopK:       o.TopK,
		SizeScale:  o.SizeScale,
		MinSize:    o.MinSize,
		MaxSize:    o.MaxSize,
		SizePolicy: policy,
		Categories: o.Categories,
	}
}

// LayoutOptions converts to layout options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Seed:         o.Seed,
		HasSeed:      o.HasSeed,
		Radius:       o.Radius,
		Iterations:   o.Iterations,
		LinkDistance: o.LinkDistance,
		LinkStrength: o.LinkStrength,
	}
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	k := cache.GraphKeyOpts{
		TopK:       o.TopK,
		SizePolicy: o.SizePolicy,
		SizeScale:  o.SizeScale,
		MinSize:    o.MinSize,
		MaxSize:    o.MaxSize,
	}
	if o.Categories != nil {
		k.Categories = strings.Join(o.Categories.Categories(), "|")
	}
	return k
}

// LayoutKeyOpts returns cache key options for the layout stage.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:    o.Algorithm,
		Seed:         o.Seed,
		Radius:       o.Radius,
		Iterations:   o.Iterations,
		LinkDistance: o.LinkDistance,
		LinkStrength: o.LinkStrength,
		Anchors:      o.Anchors,
	}
}

// ArtifactKeyOpts returns cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:   format,
		Width:    o.Width,
		Height:   o.Height,
		Zoom:     o.Zoom,
		DPR:      o.DPR,
		Padding:  o.Padding,
		Fit:      o.Fit,
		Colored:  o.Colored,
		Labels:   !o.NoLabels,
		Detailed: o.Detailed,
	}
}

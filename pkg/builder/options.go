package builder

import "github.com/matzehuels/genregraph/pkg/category"

// Defaults applied by Options.withDefaults.
const (
	DefaultTopK      = 3
	DefaultSizeScale = 1.0
	DefaultMinSize   = 6.0
	DefaultMaxSize   = 42.0

	// PopularityEpsilon weights totalMinutes in the diverse top-K score.
	// It only decides between candidates with equal connection weight.
	PopularityEpsilon = 0.001
)

// SizePolicy selects how node sizes are derived.
type SizePolicy string

// Size policies.
const (
	// SizeByDegree maps min–max normalized degree onto [MinSize, MaxSize].
	SizeByDegree SizePolicy = "degree"

	// SizeBySqrtMinutes uses sqrt(totalMinutes)·SizeScale clamped to the bounds.
	SizeBySqrtMinutes SizePolicy = "minutes"
)

// Options configures Build. Zero values are replaced by defaults.
type Options struct {
	TopK       int
	SizeScale  float64
	MinSize    float64
	MaxSize    float64
	SizePolicy SizePolicy

	// Categories, when set, fills Node.Category and supplies colors for
	// nodes without one.
	Categories *category.Lookup
}

// DefaultOptions returns the builder defaults.
func DefaultOptions() Options {
	return Options{
		TopK:       DefaultTopK,
		SizeScale:  DefaultSizeScale,
		MinSize:    DefaultMinSize,
		MaxSize:    DefaultMaxSize,
		SizePolicy: SizeByDegree,
	}
}

func (o *Options) withDefaults() Options {
	out := DefaultOptions()
	if o == nil {
		return out
	}
	if o.TopK != 0 {
		out.TopK = o.TopK
	}
	if o.SizeScale > 0 {
		out.SizeScale = o.SizeScale
	}
	if o.MinSize > 0 {
		out.MinSize = o.MinSize
	}
	if o.MaxSize > 0 {
		out.MaxSize = o.MaxSize
	}
	if out.MaxSize < out.MinSize {
		out.MaxSize = out.MinSize
	}
	if o.SizePolicy != "" {
		out.SizePolicy = o.SizePolicy
	}
	out.Categories = o.Categories
	return out
}

// ParseSizePolicy converts a flag value to a SizePolicy.
func ParseSizePolicy(s string) (SizePolicy, bool) {
	switch SizePolicy(s) {
	case SizeByDegree, SizeBySqrtMinutes:
		return SizePolicy(s), true
	case "":
		return SizeByDegree, true
	}
	return "", false
}

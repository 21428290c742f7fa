package cache

// GraphKeyOpts are the builder options that change a built graph.
type GraphKeyOpts struct {
	TopK       int     `json:"top_k"`
	SizePolicy string  `json:"size_policy"`
	SizeScale  float64 `json:"size_scale"`
	MinSize    float64 `json:"min_size"`
	MaxSize    float64 `json:"max_size"`
	Categories string  `json:"categories,omitempty"`
}

// LayoutKeyOpts are the layout options that change node positions.
type LayoutKeyOpts struct {
	Algorithm    string  `json:"algorithm"`
	Seed         uint32  `json:"seed"`
	Radius       float64 `json:"radius"`
	Iterations   int     `json:"iterations"`
	LinkDistance float64 `json:"link_distance"`
	LinkStrength float64 `json:"link_strength"`
	Anchors      bool    `json:"anchors"`
}

// ArtifactKeyOpts are the render options that change an output file.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Zoom     float64 `json:"zoom"`
	DPR      float64 `json:"dpr"`
	Padding  float64 `json:"padding"`
	Fit      bool    `json:"fit"`
	Colored  bool    `json:"colored"`
	Labels   bool    `json:"labels"`
	Detailed bool    `json:"detailed"`
}

// Keyer derives cache keys.
type Keyer interface {
	// GraphKey keys a graph built from the input with the given hash.
	GraphKey(inputHash string, opts GraphKeyOpts) string

	// LayoutKey keys a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered output of the layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the content hash together with the options.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) GraphKey(inputHash string, opts GraphKeyOpts) string {
	return hashKey("graph", inputHash, opts)
}

func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", graphHash, opts)
}

func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact:"+opts.Format, layoutHash, opts)
}

// ScopedKeyer prepends a fixed prefix to every key of another Keyer, so
// several deployments can share one Redis without colliding.
type ScopedKeyer struct {
	Keyer
	Prefix string
}

// NewScopedKeyer wraps inner, or DefaultKeyer when inner is nil.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = DefaultKeyer{}
	}
	return ScopedKeyer{Keyer: inner, Prefix: prefix}
}

func (k ScopedKeyer) GraphKey(h string, opts GraphKeyOpts) string {
	return k.Prefix + k.Keyer.GraphKey(h, opts)
}

func (k ScopedKeyer) LayoutKey(h string, opts LayoutKeyOpts) string {
	return k.Prefix + k.Keyer.LayoutKey(h, opts)
}

func (k ScopedKeyer) ArtifactKey(h string, opts ArtifactKeyOpts) string {
	return k.Prefix + k.Keyer.ArtifactKey(h, opts)
}

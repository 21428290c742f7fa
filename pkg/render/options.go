package render

// Option configures PNG and SVG output.
type Option func(*painter)

type painter struct {
	background string
	colored    bool
	labels     bool
}

func newPainter(opts ...Option) painter {
	p := painter{background: DefaultBackground, labels: true}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

// WithBackground sets the background color. An empty string leaves the
// background transparent.
func WithBackground(hex string) Option { return func(p *painter) { p.background = hex } }

// WithNodeColors fills every node with its category color instead of only
// the hovered one.
func WithNodeColors() Option { return func(p *painter) { p.colored = true } }

// WithoutLabels suppresses node labels.
func WithoutLabels() Option { return func(p *painter) { p.labels = false } }

// fill returns the fill color and alpha for d.
func (p painter) fill(d Disc) (string, float64) {
	if d.Hovered || p.colored {
		return d.Color, 1
	}
	return nodeColor, 1
}

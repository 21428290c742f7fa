package pipeline

import (
	"github.com/matzehuels/genregraph/pkg/builder"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/layout"
)

// BuildGraph runs the graph builder with the pipeline options.
func BuildGraph(in graph.Input, opts Options) graph.Data {
	return builder.Build(in, opts.BuilderOptions())
}

// GenerateLayout computes node positions for data and packages them with
// the graph into a self-contained layout. With opts.Anchors set, category
// anchors and centers are included for the physics stepper and camera.
func GenerateLayout(data graph.Data, opts Options) (graph.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return graph.Layout{}, err
	}
	res, err := layout.Compute(opts.Algorithm, data.Nodes, data.Edges, opts.LayoutOptions())
	if err != nil {
		return graph.Layout{}, err
	}

	l := graph.Layout{
		Algorithm: opts.Algorithm,
		Seed:      opts.Seed,
		Positions: res.Positions,
		Bounds:    layout.Bounds(res, opts.padding()),
		Graph:     &data,
	}
	if opts.Anchors {
		a := layout.CategoryAnchors(data.Nodes, layout.AnchorOptions{Seed: opts.Seed})
		l.Anchors = a.Nodes
		l.Categories = a.Centers
	}
	return l, nil
}

func (o *Options) padding() float64 {
	if o.Padding > 0 {
		return o.Padding
	}
	return DefaultPadding
}

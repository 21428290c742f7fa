package layout

import (
	"slices"
	"strings"

	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
)

var algorithms = map[string]Func{
	graph.AlgorithmRadial: Radial,
	graph.AlgorithmForce:  Force,
	graph.AlgorithmTree:   Tree,
}

// Names returns the registered algorithm names, sorted.
func Names() []string {
	names := make([]string, 0, len(algorithms))
	for name := range algorithms {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lookup returns the layout function registered as name. Matching is
// case-insensitive.
func Lookup(name string) (Func, error) {
	if fn, ok := algorithms[strings.ToLower(strings.TrimSpace(name))]; ok {
		return fn, nil
	}
	return nil, errors.New(errors.ErrCodeInvalidAlgorithm,
		"unknown layout algorithm %q (valid: %s)", name, strings.Join(Names(), ", "))
}

// Compute runs the named algorithm.
func Compute(name string, nodes []graph.Node, edges []graph.Edge, opts Options) (Result, error) {
	fn, err := Lookup(name)
	if err != nil {
		return Result{}, err
	}
	return fn(nodes, edges, opts), nil
}

// Bounds returns the bounding box of a result, grown by pad.
func Bounds(res Result, pad float64) graph.Rect {
	return res.Positions.Bounds().Expand(pad)
}

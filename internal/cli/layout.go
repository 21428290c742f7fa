package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/layout"
	"github.com/matzehuels/genregraph/pkg/pipeline"
)

type layoutFlags struct {
	output       string
	noCache      bool
	algorithm    string
	seed         uint32
	seedString   string
	radius       float64
	iterations   int
	linkDistance float64
	linkStrength float64
	anchors      bool
}

// layoutCommand creates the layout command for computing node positions.
func (c *CLI) layoutCommand() *cobra.Command {
	var f layoutFlags

	cmd := &cobra.Command{
		Use:   "layout [graph.json]",
		Short: "Compute node positions for a genre graph",
		Long: `Compute node positions for a genre graph.

Algorithms:
  radial  the top genre at the center, the others on a ring by popularity
  force   seeded force-directed simulation
  tree    breadth-first levels from the most listened genre

Layouts are deterministic: the same graph, algorithm and seed always give
the same positions. Results are cached locally.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&f.algorithm, "algorithm", "a", "", fmt.Sprintf("layout algorithm: %v", layout.Names()))
	cmd.Flags().Uint32Var(&f.seed, "seed", 0, "random seed (default from config)")
	cmd.Flags().StringVar(&f.seedString, "seed-string", "", "derive the seed from a string, e.g. a user id")
	cmd.Flags().Float64Var(&f.radius, "radius", 0, "layout radius")
	cmd.Flags().IntVar(&f.iterations, "iterations", 0, "force iterations")
	cmd.Flags().Float64Var(&f.linkDistance, "link-distance", 0, "force link distance")
	cmd.Flags().Float64Var(&f.linkStrength, "link-strength", 0, "force link strength")
	cmd.Flags().BoolVar(&f.anchors, "anchors", true, "compute category anchors")

	return cmd
}

func (c *CLI) applyLayoutFlags(cmd *cobra.Command, opts *pipeline.Options, f layoutFlags) {
	if f.algorithm != "" {
		opts.Algorithm = f.algorithm
	}
	if cmd.Flags().Changed("seed") {
		opts.Seed, opts.HasSeed = f.seed, true
	}
	if f.seedString != "" {
		opts.Seed, opts.HasSeed = layout.SeedFromString(f.seedString), true
	}
	if f.radius > 0 {
		opts.Radius = f.radius
	}
	if f.iterations > 0 {
		opts.Iterations = f.iterations
	}
	if f.linkDistance > 0 {
		opts.LinkDistance = f.linkDistance
	}
	if f.linkStrength > 0 {
		opts.LinkStrength = f.linkStrength
	}
	if cmd.Flags().Changed("anchors") {
		opts.Anchors = f.anchors
	}
}

func (c *CLI) runLayout(cmd *cobra.Command, input string, f layoutFlags) error {
	ctx := cmd.Context()
	data, err := graph.ReadDataFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	c.applyLayoutFlags(cmd, &opts, f)
	if err := opts.ValidateForLayout(); err != nil {
		return err
	}

	l, cacheHit, err := c.computeLayout(ctx, data, opts, f.noCache)
	if err != nil {
		return err
	}

	out := outputPath(f.output, input, ".layout.json")
	if err := graph.WriteLayoutFile(l, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	rep := newReport(cmd)
	rep.success("Layout complete")
	rep.file(out)
	rep.field("algorithm", fmt.Sprintf("%s (seed %d)", l.Algorithm, l.Seed))
	rep.stats(data.NodeCount(), data.EdgeCount(), cacheHit)
	rep.next(
		[2]string{"Render", appName + " render " + out},
		[2]string{"Explore", appName + " explore " + out},
	)
	return nil
}

func (c *CLI) computeLayout(ctx context.Context, data graph.Data, opts pipeline.Options, noCache bool) (graph.Layout, bool, error) {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return graph.Layout{}, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Computing %s layout...", opts.Algorithm))
	spin.Start()
	l, cacheHit, err := runner.Layout(ctx, data, opts)
	if err != nil {
		spin.StopWithError("Layout failed")
		return graph.Layout{}, false, fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()

	if ctx.Err() != nil {
		return graph.Layout{}, false, ctx.Err()
	}
	return l, cacheHit, nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/graph"
)

type buildFlags struct {
	output     string
	noCache    bool
	topK       int
	sizePolicy string
	sizeScale  float64
	minSize    float64
	maxSize    float64
	categories string
}

// buildCommand creates the build command turning listening data into a graph.
func (c *CLI) buildCommand() *cobra.Command {
	var f buildFlags

	cmd := &cobra.Command{
		Use:   "build [input.json]",
		Short: "Build a genre co-occurrence graph from listening data",
		Long: `Build a genre co-occurrence graph from listening data.

The input holds genreStats, artists and (optionally) collabTracks. Genres
shared by one artist, or by the artists of one collaboration track, are
linked; each shared occurrence adds one to the edge weight.

The output is a graph.json that the 'layout' command reads.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runBuild(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output file (default: <input>.graph.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().IntVarP(&f.topK, "top-k", "k", 0, "number of diverse top genres to select (default from config)")
	cmd.Flags().StringVar(&f.sizePolicy, "size-policy", "", "node size policy: degree (default), minutes")
	cmd.Flags().Float64Var(&f.sizeScale, "size-scale", 0, "scale for the minutes size policy")
	cmd.Flags().Float64Var(&f.minSize, "min-size", 0, "minimum node size")
	cmd.Flags().Float64Var(&f.maxSize, "max-size", 0, "maximum node size")
	cmd.Flags().StringVar(&f.categories, "categories", "", "TOML genre→category table (default: built-in)")

	return cmd
}

func (c *CLI) runBuild(cmd *cobra.Command, input string, f buildFlags) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	in, err := graph.ReadInputFile(input)
	if err != nil {
		return fmt.Errorf("load input %s: %w", input, err)
	}
	logger.Debug("loaded input", "genres", len(in.GenreStats), "artists", len(in.Artists), "tracks", len(in.CollabTracks))

	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	if f.categories != "" {
		if opts.Categories, err = category.LoadFile(f.categories); err != nil {
			return fmt.Errorf("load categories %s: %w", f.categories, err)
		}
	}
	if f.topK != 0 {
		opts.TopK = f.topK
	}
	if f.sizePolicy != "" {
		opts.SizePolicy = f.sizePolicy
	}
	if f.sizeScale > 0 {
		opts.SizeScale = f.sizeScale
	}
	if f.minSize > 0 {
		opts.MinSize = f.minSize
	}
	if f.maxSize > 0 {
		opts.MaxSize = f.maxSize
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(logger)
	data, cacheHit, err := runner.Build(ctx, in, opts)
	if err != nil {
		return fmt.Errorf("build graph: %w", err)
	}
	prog.done("Built graph", "nodes", data.NodeCount(), "edges", data.EdgeCount())

	out := outputPath(f.output, input, ".graph.json")
	if err := graph.WriteDataFile(data, out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	rep := newReport(cmd)
	rep.success("Graph built")
	rep.file(out)
	rep.stats(data.NodeCount(), data.EdgeCount(), cacheHit)
	if len(data.TopK) > 0 {
		rep.field("top genres", fmt.Sprint(data.TopK))
	}
	rep.next([2]string{"Lay out", appName + " layout " + out})
	return nil
}

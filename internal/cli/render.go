package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/pipeline"
)

type renderFlags struct {
	output   string
	noCache  bool
	formats  string
	width    float64
	height   float64
	zoom     float64
	dpr      float64
	padding  float64
	fit      bool
	colored  bool
	noLabels bool
	detailed bool
}

// renderCommand creates the render command writing image artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a layout to PNG, SVG, DOT or Graphviz SVG",
		Long: `Render a layout to one or more formats.

Formats:
  png       raster image of the network view
  svg       vector image of the network view
  dot       Graphviz source with pinned positions
  graphviz  the dot source rendered to SVG by Graphviz (neato)
  json      the layout itself

With several formats, files are written as <base>.<format>.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd, args[0], f)
		},
	}

	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output base path (default: input without .layout.json)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&f.formats, "format", "f", "", "output format(s), comma-separated (default from config)")
	cmd.Flags().Float64Var(&f.width, "width", 0, "image width in CSS pixels")
	cmd.Flags().Float64Var(&f.height, "height", 0, "image height in CSS pixels")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "camera zoom when not fitting")
	cmd.Flags().Float64Var(&f.dpr, "dpr", 0, "device pixel ratio")
	cmd.Flags().Float64Var(&f.padding, "padding", 0, "padding around the fitted layout")
	cmd.Flags().BoolVar(&f.fit, "fit", true, "fit the camera to the layout bounds")
	cmd.Flags().BoolVar(&f.colored, "colored", true, "fill nodes with their category color")
	cmd.Flags().BoolVar(&f.noLabels, "no-labels", false, "omit node labels")
	cmd.Flags().BoolVar(&f.detailed, "detailed", false, "add listening minutes to Graphviz labels")

	return cmd
}

func (c *CLI) applyRenderFlags(cmd *cobra.Command, opts *pipeline.Options, f renderFlags) error {
	if f.formats != "" {
		formats, err := pipeline.ParseFormats(f.formats)
		if err != nil {
			return err
		}
		opts.Formats = formats
	}
	for _, v := range []struct {
		dst *float64
		val float64
	}{
		{&opts.Width, f.width},
		{&opts.Height, f.height},
		{&opts.Zoom, f.zoom},
		{&opts.DPR, f.dpr},
		{&opts.Padding, f.padding},
	} {
		if v.val > 0 {
			*v.dst = v.val
		}
	}
	flags := cmd.Flags()
	if flags.Changed("fit") {
		opts.Fit = f.fit
	}
	if flags.Changed("colored") {
		opts.Colored = f.colored
	}
	if flags.Changed("no-labels") {
		opts.NoLabels = f.noLabels
	}
	opts.Detailed = f.detailed
	return nil
}

func (c *CLI) runRender(cmd *cobra.Command, input string, f renderFlags) error {
	ctx := cmd.Context()
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	if l.Graph == nil {
		return fmt.Errorf("layout %s has no embedded graph; rerun 'layout'", input)
	}

	opts, err := c.baseOptions()
	if err != nil {
		return err
	}
	if err := c.applyRenderFlags(cmd, &opts, f); err != nil {
		return err
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spin := newSpinner(ctx, os.Stderr, "Rendering...")
	spin.Start()
	artifacts, cacheHit, err := runner.Render(ctx, l, opts)
	if err != nil {
		spin.StopWithError("Render failed")
		return err
	}
	spin.Stop()

	paths, err := writeArtifacts(artifacts, opts.Formats, renderBase(f.output, input))
	if err != nil {
		return err
	}

	rep := newReport(cmd)
	rep.success("Rendered %d file(s)", len(paths))
	for _, p := range paths {
		rep.file(p)
	}
	rep.stats(l.Graph.NodeCount(), l.Graph.EdgeCount(), cacheHit)
	return nil
}

// renderBase derives the base path artifacts are written to. A known
// format extension on output is stripped.
func renderBase(output, input string) string {
	if output == "" {
		return outputPath("", input, "")
	}
	ext := strings.TrimPrefix(filepath.Ext(output), ".")
	if pipeline.ValidFormats[ext] {
		return strings.TrimSuffix(output, "."+ext)
	}
	return output
}

// writeArtifacts writes each artifact to base.<ext> in the order of formats.
func writeArtifacts(artifacts map[string][]byte, formats []string, base string) ([]string, error) {
	paths := make([]string, 0, len(formats))
	for _, format := range slices.Compact(slices.Clone(formats)) {
		data, ok := artifacts[format]
		if !ok {
			continue
		}
		path := base + "." + pipeline.Extension(format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return paths, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

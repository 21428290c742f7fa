package pipeline

import (
	"bytes"
	"context"
	"fmt"

	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/render"
)

// SceneFor builds the render scene for a layout. With opts.Fit the camera
// frames the layout bounds; otherwise it centers on the origin at
// opts.Zoom.
func SceneFor(l graph.Layout, opts Options) render.Scene {
	opts.SetRenderDefaults()
	vp := camera.Viewport{Width: opts.Width * opts.DPR, Height: opts.Height * opts.DPR}
	cam := camera.State{Zoom: opts.Zoom, DPR: opts.DPR}
	if opts.Fit && len(l.Positions) > 0 {
		cam = camera.Fit(l.Bounds, vp, opts.Padding*opts.DPR, opts.DPR)
	}
	return render.Scene{
		Data:      l.Graph,
		Positions: l.Positions,
		Camera:    cam,
		Viewport:  vp,
	}
}

// RenderLayout renders every requested format.
func RenderLayout(ctx context.Context, l graph.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if l.Graph == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "layout has no embedded graph")
	}

	scene := SceneFor(l, opts)
	var ropts []render.Option
	if opts.Colored {
		ropts = append(ropts, render.WithNodeColors())
	}
	if opts.NoLabels {
		ropts = append(ropts, render.WithoutLabels())
	}
	dotOpts := render.DOTOptions{Detailed: opts.Detailed}

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatPNG:
			var buf bytes.Buffer
			err = render.PNG(&buf, scene, ropts...)
			data = buf.Bytes()
		case FormatSVG:
			data = render.SVG(scene, ropts...)
		case FormatDOT:
			data = []byte(render.ToDOT(l.Graph, l.Positions, dotOpts))
		case FormatGraphviz:
			data, err = render.RenderDOT(ctx, render.ToDOT(l.Graph, l.Positions, dotOpts))
		case FormatJSON:
			data, err = graph.MarshalLayout(l)
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	if format == FormatGraphviz {
		return "graphviz.svg"
	}
	return format
}

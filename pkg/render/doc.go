// Package render draws a positioned genre graph.
//
// A [Scene] bundles the graph, its positions and the camera. [Compose]
// turns a scene into a [Frame]: screen-space primitives in paint order
// (edges first, then nodes from smallest to largest) with their styling
// already resolved. The output formats consume frames:
//
//   - [PNG] rasterizes with fogleman/gg
//   - [SVG] writes vector markup by hand
//
// [ToDOT] and [RenderDOT] take a different route: they pin every node at
// its layout position in a Graphviz neato graph and let Graphviz produce
// the SVG.
//
//	scene := render.Scene{Data: &data, Positions: pos, Camera: camera.Identity(),
//		Viewport: camera.Viewport{Width: 1600, Height: 1000}}
//	err := render.PNG(w, scene)
package render

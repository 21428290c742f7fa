package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/genregraph/pkg/buildinfo"
	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/graph"
	"github.com/matzehuels/genregraph/pkg/pipeline"
)

// graphRequest is the body of POST /v1/graph.
type graphRequest struct {
	Input   graph.Input      `json:"input"`
	Options pipeline.Options `json:"options"`
}

// layoutRequest is the body of POST /v1/layout/{algorithm}. Graph wins
// over Input when both are set.
type layoutRequest struct {
	Graph   *graph.Data      `json:"graph,omitempty"`
	Input   *graph.Input     `json:"input,omitempty"`
	Options pipeline.Options `json:"options"`
}

// renderRequest is the body of POST /v1/render/{format}.
type renderRequest struct {
	Layout  graph.Layout     `json:"layout"`
	Options pipeline.Options `json:"options"`
}

// hitRequest is the body of POST /v1/hit. Pointer is in device pixels.
type hitRequest struct {
	Layout   graph.Layout    `json:"layout"`
	Camera   camera.State    `json:"camera"`
	Viewport camera.Viewport `json:"viewport"`
	Pointer  graph.Position  `json:"pointer"`
	Slack    *float64        `json:"slack,omitempty"`
}

type hitResponse struct {
	Hit   bool           `json:"hit"`
	ID    string         `json:"id,omitempty"`
	World graph.Position `json:"world"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": buildinfo.Get().Version})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	type entry struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	cats := s.categories.Categories()
	out := make([]entry, len(cats))
	for i, c := range cats {
		out[i] = entry{Name: c, Color: s.categories.Color(c)}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) withCategories(opts *pipeline.Options) {
	if opts.Categories == nil {
		opts.Categories = s.categories
	}
	opts.Logger = s.logger
}

// validateInput rejects genre ids that could not form canonical edge ids.
func validateInput(in graph.Input) error {
	for _, gs := range in.GenreStats {
		if err := errors.ValidateGenreID(gs.ID); err != nil {
			return err
		}
	}
	return nil
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	var req graphRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := validateInput(req.Input); err != nil {
		s.writeError(w, err)
		return
	}
	s.withCategories(&req.Options)
	data, _, err := s.runner.Build(r.Context(), req.Input, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	req.Options.Algorithm = chi.URLParam(r, "algorithm")
	if err := pipeline.ValidateAlgorithm(req.Options.Algorithm); err != nil {
		s.writeError(w, err)
		return
	}
	s.withCategories(&req.Options)

	var data graph.Data
	switch {
	case req.Graph != nil:
		data = *req.Graph
	case req.Input != nil:
		if err := validateInput(*req.Input); err != nil {
			s.writeError(w, err)
			return
		}
		d, _, err := s.runner.Build(r.Context(), *req.Input, req.Options)
		if err != nil {
			s.writeError(w, err)
			return
		}
		data = d
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "graph or input is required"))
		return
	}

	l, _, err := s.runner.Layout(r.Context(), data, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, l)
}

var contentTypes = map[string]string{
	pipeline.FormatJSON:     "application/json",
	pipeline.FormatPNG:      "image/png",
	pipeline.FormatSVG:      "image/svg+xml",
	pipeline.FormatDOT:      "text/vnd.graphviz",
	pipeline.FormatGraphviz: "image/svg+xml",
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	format := chi.URLParam(r, "format")
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Layout.Graph == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "layout has no graph"))
		return
	}
	req.Options.Formats = []string{format}
	s.withCategories(&req.Options)

	artifacts, _, err := s.runner.Render(r.Context(), req.Layout, req.Options)
	if err != nil {
		s.writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[format])
}

func (s *Server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if req.Layout.Graph == nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "layout has no graph"))
		return
	}
	if req.Camera.Zoom == 0 {
		req.Camera.Zoom = 1
	}
	slack := camera.DefaultHitSlack
	if req.Slack != nil {
		slack = *req.Slack
	}

	targets := camera.Targets(req.Layout.Graph.Nodes, req.Layout.Positions)
	h, ok := camera.HitTest(req.Camera, req.Viewport, req.Pointer, targets, slack)
	writeJSON(w, http.StatusOK, hitResponse{
		Hit:   ok,
		ID:    h.ID,
		World: camera.Inverse(req.Camera, req.Viewport, req.Pointer),
	})
}

func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	cat := chi.URLParam(r, "category")
	snap, err := s.snapshots.Get(r.Context(), cat)
	if err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "load snapshot"))
		return
	}
	if snap == nil {
		s.writeError(w, errors.New(errors.ErrCodeSnapshotNotFound, "no snapshot for %q", cat))
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteSnapshot(w http.ResponseWriter, r *http.Request) {
	if err := s.snapshots.Delete(r.Context(), chi.URLParam(r, "category")); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeStorage, err, "delete snapshot"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

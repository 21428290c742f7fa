// Package server exposes the genre graph pipeline over HTTP.
//
// Stateless endpoints build graphs, compute layouts, render artifacts and
// hit-test a camera against a layout. GET /v1/simulate upgrades to a
// websocket that streams live physics frames of one [simulation.Simulation]
// per connection.
package server

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/gorilla/websocket"

	"github.com/matzehuels/genregraph/pkg/camera"
	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/observability"
	"github.com/matzehuels/genregraph/pkg/physics"
	"github.com/matzehuels/genregraph/pkg/pipeline"
	"github.com/matzehuels/genregraph/pkg/snapshot"
)

// Defaults.
const (
	DefaultAddr      = ":8080"
	DefaultFrameRate = 30

	requestTimeout = 60 * time.Second
	maxBodyBytes   = 32 << 20
)

// Config holds server configuration.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// FrameRate is the websocket frame rate per session.
	FrameRate int
	// Viewport is the simulation size when a client does not send one.
	Viewport camera.Viewport
	Physics  physics.Params
}

// Deps are the shared services handlers use. Nil fields get defaults.
type Deps struct {
	Runner     *pipeline.Runner
	Snapshots  snapshot.Store
	Categories *category.Lookup
	Logger     *log.Logger
}

// Server is the HTTP API.
type Server struct {
	cfg        Config
	runner     *pipeline.Runner
	snapshots  snapshot.Store
	categories *category.Lookup
	logger     *log.Logger
	router     chi.Router
	upgrader   *websocket.Upgrader
	httpServer *http.Server
}

// New creates a server with its routes registered.
func New(cfg Config, deps Deps) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.FrameRate <= 0 {
		cfg.FrameRate = DefaultFrameRate
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	if cfg.Physics == (physics.Params{}) {
		cfg.Physics = physics.DefaultParams()
	}
	if deps.Logger == nil {
		deps.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if deps.Runner == nil {
		deps.Runner = pipeline.NewRunner(nil, nil, deps.Logger)
	}
	if deps.Snapshots == nil {
		deps.Snapshots = snapshot.NewMemoryStore()
	}
	if deps.Categories == nil {
		deps.Categories = category.Default()
	}
	s := &Server{
		cfg:        cfg,
		runner:     deps.Runner,
		snapshots:  deps.Snapshots,
		categories: deps.Categories,
		logger:     deps.Logger,
	}
	s.upgrader = newUpgrader(cfg.AllowedOrigins)
	s.router = s.buildRouter()
	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		// The websocket outlives any request timeout.
		r.Get("/simulate", s.handleSimulate)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/categories", s.handleCategories)
			r.Post("/graph", s.handleGraph)
			r.Post("/layout/{algorithm}", s.handleLayout)
			r.Post("/render/{format}", s.handleRender)
			r.Post("/hit", s.handleHit)
			r.Get("/snapshots/{category}", s.handleGetSnapshot)
			r.Delete("/snapshots/{category}", s.handleDeleteSnapshot)
		})
	})
	return r
}

// logRequests logs every request with charmbracelet/log and reports it to
// the HTTP hooks.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		elapsed := time.Since(start)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed.Round(time.Microsecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens on the configured address until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("genregraph server listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

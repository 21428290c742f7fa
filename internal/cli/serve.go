package cli

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/internal/server"
	"github.com/matzehuels/genregraph/pkg/camera"
)

const shutdownTimeout = 10 * time.Second

type serveFlags struct {
	addr    string
	port    int
	origins []string
	noCache bool
}

// serveCommand creates the serve command for the HTTP and websocket API.
func (c *CLI) serveCommand() *cobra.Command {
	var f serveFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the pipeline over HTTP and live simulations over websockets",
		Long: `Serve the pipeline over HTTP and live simulations over websockets.

Endpoints:
  GET    /healthz
  GET    /v1/categories
  POST   /v1/graph
  POST   /v1/layout/{algorithm}
  POST   /v1/render/{format}
  POST   /v1/hit
  GET    /v1/snapshots/{category}
  DELETE /v1/snapshots/{category}
  GET    /v1/simulate   (websocket)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVarP(&f.port, "port", "p", 0, "listen port, overrides the port of --addr")
	cmd.Flags().StringSliceVar(&f.origins, "origins", nil, "allowed CORS origins")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")

	return cmd
}

// serverConfig merges the config file with the command flags.
func (c *CLI) serverConfig(f serveFlags) server.Config {
	cfg := c.settings()
	sc := server.Config{
		Addr:           cfg.Server.Addr,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		FrameRate:      cfg.Server.FrameRate,
		Viewport:       camera.Viewport{Width: cfg.Server.Width, Height: cfg.Server.Height},
		Physics:        cfg.Physics,
	}
	if f.addr != "" {
		sc.Addr = f.addr
	}
	if f.port > 0 {
		sc.Addr = ":" + strconv.Itoa(f.port)
	}
	if len(f.origins) > 0 {
		sc.AllowedOrigins = f.origins
	}
	return sc
}

func (c *CLI) runServe(cmd *cobra.Command, f serveFlags) error {
	ctx := cmd.Context()
	cfg := c.settings()

	runner, err := c.newRunner(ctx, f.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	snapshots, err := cfg.OpenSnapshots(ctx)
	if err != nil {
		return fmt.Errorf("open snapshots: %w", err)
	}
	defer snapshots.Close()

	cats, err := cfg.LoadCategories()
	if err != nil {
		return err
	}

	srv := server.New(c.serverConfig(f), server.Deps{
		Runner:     runner,
		Snapshots:  snapshots,
		Categories: cats,
		Logger:     c.Logger,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return ctx.Err()
}

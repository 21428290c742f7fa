// Package cli implements the genregraph command-line interface.
package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/internal/config"
	"github.com/matzehuels/genregraph/pkg/buildinfo"
	"github.com/matzehuels/genregraph/pkg/observability"
	"github.com/matzehuels/genregraph/pkg/pipeline"
)

const appName = "genregraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	// Config is loaded before any command runs. Tests may set it directly.
	Config *config.Config

	configPath string
}

// New creates a CLI with a logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level. At debug level pipeline, cache,
// server and simulation events are logged too.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level <= log.DebugLevel {
		observability.NewLogHooks(c.Logger).Register()
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "genregraph maps your listening history as a genre network",
		Long: `genregraph builds a weighted genre co-occurrence graph from listening data,
lays it out (radial, force or tree), renders it to PNG, SVG or Graphviz, and
explores it live in the terminal or over a websocket.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.buildCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	if c.Config != nil {
		return nil
	}
	path := c.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		c.Logger.Warn("ignoring malformed config", "path", path, "err", err)
	}
	c.Config = cfg
	return nil
}

// settings returns the loaded config, or defaults before PersistentPreRunE.
func (c *CLI) settings() *config.Config {
	if c.Config == nil {
		return config.Default()
	}
	return c.Config
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := c.settings()
	store, err := cfg.OpenCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, cfg.Keyer(), c.Logger), nil
}

// baseOptions returns pipeline options from the config with the CLI
// logger and category table attached.
func (c *CLI) baseOptions() (pipeline.Options, error) {
	cfg := c.settings()
	opts := cfg.PipelineOptions()
	cats, err := cfg.LoadCategories()
	if err != nil {
		return opts, err
	}
	opts.Categories = cats
	opts.Logger = c.Logger
	return opts, nil
}

// outputPath derives an output file from the input when output is empty,
// replacing a trailing ".json" or ".<stage>.json" with suffix.
func outputPath(output, input, suffix string) string {
	if output != "" {
		return output
	}
	base := strings.TrimSuffix(input, ".json")
	for _, stage := range []string{".graph", ".layout"} {
		base = strings.TrimSuffix(base, stage)
	}
	return base + suffix
}

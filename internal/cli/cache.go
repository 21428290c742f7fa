package cli

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/genregraph/internal/config"
	"github.com/matzehuels/genregraph/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the graph, layout and render cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePruneCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheDir is the file cache root from the config, or the default one.
func (c *CLI) cacheDir() string {
	if dir := c.settings().Cache.Dir; dir != "" {
		return dir
	}
	return config.CacheDir()
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear all cached graphs, layouts and renders",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := newReport(cmd)
			cfg := c.settings()
			switch cfg.Cache.Backend {
			case config.CacheRedis:
				rep.info("Redis cache entries expire on their own")
				rep.detail("Server: %s", cfg.Cache.RedisURL)
				return nil
			case config.CacheNone:
				rep.info("Caching is disabled")
				return nil
			}

			dir := c.cacheDir()
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				rep.info("Cache is empty")
				return nil
			}

			count := countFiles(dir)
			fc, err := cache.NewFileCache(dir)
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			if err := fc.Clear(); err != nil {
				return err
			}

			rep.success("Cleared %d cached entries", count)
			rep.detail("Directory: %s", fc.Dir())
			return nil
		},
	}
}

// cachePruneCommand creates the "cache prune" subcommand.
func (c *CLI) cachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired entries from the file cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			rep := newReport(cmd)
			if b := c.settings().Cache.Backend; b == config.CacheRedis || b == config.CacheNone {
				rep.info("Nothing to prune for the %s backend", b)
				return nil
			}
			fc, err := cache.NewFileCache(c.cacheDir())
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			n, err := fc.Prune(cmd.Context())
			if err != nil {
				return err
			}
			rep.success("Pruned %d expired entries", n)
			return nil
		},
	}
}

// countFiles counts regular files under dir, skipping unreadable entries.
func countFiles(dir string) int {
	count := 0
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err == nil && d.Type().IsRegular() {
			count++
		}
		return nil
	})
	return count
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.cacheDir())
			return nil
		},
	}
}

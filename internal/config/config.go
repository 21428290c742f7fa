// Package config loads the genregraph TOML configuration.
//
// The file lives at $XDG_CONFIG_HOME/genregraph/config.toml (falling back to
// ~/.config). A missing file yields Default. Command-line flags override
// whatever the file sets.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/genregraph/pkg/pipeline"
	"github.com/matzehuels/genregraph/pkg/physics"
)

const appName = "genregraph"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Snapshot backends.
const (
	SnapshotMemory = "memory"
	SnapshotFile   = "file"
	SnapshotMongo  = "mongo"
)

// Config holds every configurable section.
type Config struct {
	Layout     LayoutConfig     `toml:"layout"`
	Physics    physics.Params   `toml:"physics"`
	Render     RenderConfig     `toml:"render"`
	Cache      CacheConfig      `toml:"cache"`
	Server     ServerConfig     `toml:"server"`
	Snapshots  SnapshotConfig   `toml:"snapshots"`
	Categories CategoriesConfig `toml:"categories"`
}

// LayoutConfig holds the static layout defaults.
type LayoutConfig struct {
	Algorithm    string  `toml:"algorithm"`
	Seed         uint32  `toml:"seed"`
	Radius       float64 `toml:"radius"`
	Iterations   int     `toml:"iterations"`
	LinkDistance float64 `toml:"link_distance"`
	LinkStrength float64 `toml:"link_strength"`
	Anchors      bool    `toml:"anchors"`
	TopK         int     `toml:"top_k"`
	SizePolicy   string  `toml:"size_policy"`
}

// RenderConfig holds the static render defaults.
type RenderConfig struct {
	Formats []string `toml:"formats"`
	Width   float64  `toml:"width"`
	Height  float64  `toml:"height"`
	DPR     float64  `toml:"dpr"`
	Padding float64  `toml:"padding"`
	Fit     bool     `toml:"fit"`
	Colored bool     `toml:"colored"`
	Labels  bool     `toml:"labels"`
}

// CacheConfig selects the pipeline cache backend.
type CacheConfig struct {
	Backend  string `toml:"backend"` // "file", "redis", "none"
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
	// Scope namespaces every key, so several profiles can share a backend.
	Scope string `toml:"scope"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string   `toml:"addr"`
	AllowedOrigins []string `toml:"allowed_origins"`
	FrameRate      int      `toml:"frame_rate"`
	Width          float64  `toml:"width"`
	Height         float64  `toml:"height"`
}

// SnapshotConfig selects where category snapshots are kept.
type SnapshotConfig struct {
	Backend    string `toml:"backend"` // "memory", "file", "mongo"
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// CategoriesConfig points at an optional genre→category table.
type CategoriesConfig struct {
	File string `toml:"file"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			Algorithm: pipeline.DefaultAlgorithm,
			Seed:      1,
			Anchors:   true,
			TopK:      3,
		},
		Physics: physics.DefaultParams(),
		Render: RenderConfig{
			Formats: []string{pipeline.FormatPNG},
			Width:   pipeline.DefaultWidth,
			Height:  pipeline.DefaultHeight,
			DPR:     pipeline.DefaultDPR,
			Padding: pipeline.DefaultPadding,
			Fit:     true,
			Colored: true,
			Labels:  true,
		},
		Cache:     CacheConfig{Backend: CacheFile},
		Server:    ServerConfig{Addr: ":8080", AllowedOrigins: []string{"*"}, FrameRate: 30, Width: 1280, Height: 720},
		Snapshots: SnapshotConfig{Backend: SnapshotMemory},
	}
}

// Dir returns the genregraph config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// Path returns the config file path.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the default file cache directory (XDG cache home).
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, appName)
}

// Load reads the config file at Path.
func Load() (*Config, error) {
	return LoadFile(Path())
}

// LoadFile reads path on top of Default. A missing file is not an error;
// a malformed one is.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

func (c *Config) normalize() {
	c.Layout.Algorithm = strings.ToLower(strings.TrimSpace(c.Layout.Algorithm))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))
	c.Snapshots.Backend = strings.ToLower(strings.TrimSpace(c.Snapshots.Backend))
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Snapshots.Backend == "" {
		c.Snapshots.Backend = SnapshotMemory
	}
	if c.Server.FrameRate <= 0 {
		c.Server.FrameRate = 30
	}
}

// PipelineOptions converts the layout and render sections into pipeline
// options. HasSeed is set so an explicit seed 0 from the file survives.
func (c *Config) PipelineOptions() pipeline.Options {
	return pipeline.Options{
		TopK:         c.Layout.TopK,
		SizePolicy:   c.Layout.SizePolicy,
		Algorithm:    c.Layout.Algorithm,
		Seed:         c.Layout.Seed,
		HasSeed:      true,
		Radius:       c.Layout.Radius,
		Iterations:   c.Layout.Iterations,
		LinkDistance: c.Layout.LinkDistance,
		LinkStrength: c.Layout.LinkStrength,
		Anchors:      c.Layout.Anchors,
		Formats:      append([]string(nil), c.Render.Formats...),
		Width:        c.Render.Width,
		Height:       c.Render.Height,
		DPR:          c.Render.DPR,
		Padding:      c.Render.Padding,
		Fit:          c.Render.Fit,
		Colored:      c.Render.Colored,
		NoLabels:     !c.Render.Labels,
	}
}

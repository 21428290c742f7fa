package config

import (
	"context"
	"fmt"

	"github.com/matzehuels/genregraph/pkg/cache"
	"github.com/matzehuels/genregraph/pkg/category"
	"github.com/matzehuels/genregraph/pkg/errors"
	"github.com/matzehuels/genregraph/pkg/snapshot"
)

// OpenCache builds the configured pipeline cache. noCache forces the
// null cache regardless of the file.
func (c *Config) OpenCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch c.Cache.Backend {
	case CacheNone:
		return cache.NewNullCache(), nil
	case CacheRedis:
		if c.Cache.RedisURL != "" {
			if err := errors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
				return nil, err
			}
		}
		return cache.NewRedisCache(ctx, cache.RedisConfig{URL: c.Cache.RedisURL, Prefix: c.Cache.Prefix})
	case CacheFile, "":
		dir := c.Cache.Dir
		if dir == "" {
			dir = CacheDir()
		}
		return cache.NewFileCache(dir)
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
}

// Keyer returns the cache keyer for the configured scope, or nil for the
// default keyer.
func (c *Config) Keyer() cache.Keyer {
	if c.Cache.Scope == "" {
		return nil
	}
	return cache.NewScopedKeyer(nil, c.Cache.Scope+":")
}

// OpenSnapshots builds the configured snapshot store.
func (c *Config) OpenSnapshots(ctx context.Context) (snapshot.Store, error) {
	switch c.Snapshots.Backend {
	case SnapshotMemory, "":
		return snapshot.NewMemoryStore(), nil
	case SnapshotFile:
		return snapshot.NewFileStore(c.Snapshots.Dir)
	case SnapshotMongo:
		if c.Snapshots.MongoURI != "" {
			if err := errors.ValidateURL(c.Snapshots.MongoURI, "mongodb", "mongodb+srv"); err != nil {
				return nil, err
			}
		}
		return snapshot.NewMongoStore(ctx, snapshot.MongoConfig{
			URI:        c.Snapshots.MongoURI,
			Database:   c.Snapshots.Database,
			Collection: c.Snapshots.Collection,
		})
	}
	return nil, errors.New(errors.ErrCodeInvalidConfig, "unknown snapshot backend %q", c.Snapshots.Backend)
}

// LoadCategories returns the configured category table, or the built-in
// one when no file is set.
func (c *Config) LoadCategories() (*category.Lookup, error) {
	if c.Categories.File == "" {
		return category.Default(), nil
	}
	l, err := category.LoadFile(c.Categories.File)
	if err != nil {
		return nil, fmt.Errorf("load categories %s: %w", c.Categories.File, err)
	}
	return l, nil
}

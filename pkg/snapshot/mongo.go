package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultMongoDatabase   = "genregraph"
	DefaultMongoCollection = "snapshots"
	mongoConnectTimeout    = 10 * time.Second
)

// MongoConfig selects the server and collection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// MongoStore stores one document per category, using the category as _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects and pings the server.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = DefaultMongoDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultMongoCollection
	}

	ctx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

func (m *MongoStore) Save(ctx context.Context, s *Snapshot) error {
	if s == nil {
		return nil
	}
	opts := options.Replace().SetUpsert(true)
	if _, err := m.coll.ReplaceOne(ctx, bson.M{"_id": s.Category}, s, opts); err != nil {
		return fmt.Errorf("save snapshot %q: %w", s.Category, err)
	}
	return nil
}

func (m *MongoStore) Get(ctx context.Context, category string) (*Snapshot, error) {
	var s Snapshot
	err := m.coll.FindOne(ctx, bson.M{"_id": category}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %q: %w", category, err)
	}
	return &s, nil
}

func (m *MongoStore) Delete(ctx context.Context, category string) error {
	if _, err := m.coll.DeleteOne(ctx, bson.M{"_id": category}); err != nil {
		return fmt.Errorf("delete snapshot %q: %w", category, err)
	}
	return nil
}

func (m *MongoStore) Clear(ctx context.Context) error {
	if _, err := m.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return fmt.Errorf("clear snapshots: %w", err)
	}
	return nil
}

func (m *MongoStore) Close() error {
	return m.client.Disconnect(context.Background())
}

var _ Store = (*MongoStore)(nil)

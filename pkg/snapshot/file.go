package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileStore writes one JSON file per category into a directory.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates the store. If baseDir is empty it defaults to
// ~/.config/genregraph/snapshots/.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "genregraph", "snapshots")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, fmt.Errorf("create snapshot dir: %w", err)
	}
	return &FileStore{baseDir: baseDir}, nil
}

// snapshotPath hashes the category so names like "Hip-Hop & Rap" map to
// safe file names.
func (f *FileStore) snapshotPath(category string) string {
	sum := sha256.Sum256([]byte(category))
	return filepath.Join(f.baseDir, hex.EncodeToString(sum[:8])+".json")
}

func (f *FileStore) Save(_ context.Context, s *Snapshot) error {
	if s == nil {
		return nil
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(f.snapshotPath(s.Category), data, 0o600); err != nil {
		return fmt.Errorf("write snapshot file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(_ context.Context, category string) (*Snapshot, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := os.ReadFile(f.snapshotPath(category))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read snapshot file: %w", err)
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	return &s, nil
}

func (f *FileStore) Delete(_ context.Context, category string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.snapshotPath(category)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove snapshot file: %w", err)
	}
	return nil
}

func (f *FileStore) Clear(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.baseDir)
	if err != nil {
		return fmt.Errorf("read snapshot dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(f.baseDir, e.Name())); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove snapshot file: %w", err)
		}
	}
	return nil
}

func (f *FileStore) Close() error { return nil }

// Path returns the snapshot directory.
func (f *FileStore) Path() string { return f.baseDir }

var _ Store = (*FileStore)(nil)

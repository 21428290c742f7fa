// Package snapshot keeps per-category copies of node positions so a view
// can be restored when the user scrolls back to a category.
//
// Three backends implement [Store]:
//   - [MemoryStore]: process-local, used by the TUI and tests
//   - [FileStore]: one JSON file per category under a directory
//   - [MongoStore]: a MongoDB collection keyed by category
//
// Stores return (nil, nil) from Get when no snapshot exists for a category.
package snapshot

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/genregraph/pkg/graph"
)

// NodeState is the saved position and size of one node.
type NodeState struct {
	ID   string  `json:"id" bson:"id"`
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
	Size float64 `json:"size" bson:"size"`
}

// Snapshot is the saved state of every node for one category.
type Snapshot struct {
	ID        string      `json:"id" bson:"snapshot_id"`
	Category  string      `json:"category" bson:"_id"`
	Nodes     []NodeState `json:"nodes" bson:"nodes"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// New captures the positions of nodes under category. Nodes without a
// position are recorded at the origin, matching [graph.Positions.At].
func New(category string, nodes []graph.Node, positions graph.Positions) *Snapshot {
	states := make([]NodeState, len(nodes))
	for i, n := range nodes {
		p := positions.At(n.ID)
		states[i] = NodeState{ID: n.ID, X: p.X, Y: p.Y, Size: n.Size}
	}
	return &Snapshot{
		ID:        uuid.NewString(),
		Category:  category,
		Nodes:     states,
		CreatedAt: time.Now().UTC(),
	}
}

// Positions returns the saved positions keyed by node id.
func (s *Snapshot) Positions() graph.Positions {
	if s == nil {
		return graph.Positions{}
	}
	out := make(graph.Positions, len(s.Nodes))
	for _, n := range s.Nodes {
		out[n.ID] = graph.Position{X: n.X, Y: n.Y}
	}
	return out
}

// Restore copies the saved positions into dst, leaving nodes the
// snapshot does not know untouched. It returns the number restored.
func (s *Snapshot) Restore(dst graph.Positions) int {
	if s == nil || dst == nil {
		return 0
	}
	for _, n := range s.Nodes {
		dst[n.ID] = graph.Position{X: n.X, Y: n.Y}
	}
	return len(s.Nodes)
}

func (s *Snapshot) clone() *Snapshot {
	c := *s
	c.Nodes = slices.Clone(s.Nodes)
	return &c
}

// Store is the interface for snapshot backends.
type Store interface {
	// Save stores s, replacing any snapshot for the same category.
	Save(ctx context.Context, s *Snapshot) error

	// Get returns the snapshot for category, or nil, nil if none exists.
	Get(ctx context.Context, category string) (*Snapshot, error)

	// Delete removes the snapshot for category. Missing is not an error.
	Delete(ctx context.Context, category string) error

	// Clear removes every snapshot.
	Clear(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// Has reports whether store holds a snapshot for category.
func Has(ctx context.Context, store Store, category string) (bool, error) {
	s, err := store.Get(ctx, category)
	return s != nil, err
}

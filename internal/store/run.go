package store

import (
	"sync"

	"github.com/google/uuid"
)

// Run is one invocation of the prelude generator.
type Run struct {
	ID               string `json:"id"`
	Seq              int64  `json:"seq"`
	TableHash        string `json:"table_hash"`
	TypeCount        int    `json:"type_count"`
	GeneratorVersion string `json:"generator_version"`
	FormatVersion    string `json:"format_version"`
}

// ArtifactRecord is the stored identity of one generated artifact.
type ArtifactRecord struct {
	RunID       string `json:"run_id"`
	RunSeq      int64  `json:"run_seq,omitempty"` // filled on read
	Path        string `json:"path"`
	ContentHash string `json:"content_hash"`
	Size        int    `json:"size"`
	Written     bool   `json:"written"` // false when the write was skipped as unchanged
}

// RunIDGenerator produces run identifiers.
type RunIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 run IDs.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined run IDs for testing.
//
// Thread-safety: FixedGenerator is safe for concurrent use via internal mutex.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
// Panics if all ids have been consumed.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}

package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRun(id string) Run {
	return Run{
		ID:               id,
		TableHash:        "table-" + id,
		TypeCount:        3,
		GeneratorVersion: "0.1.0",
		FormatVersion:    "1",
	}
}

func TestWriteRunAssignsSeq(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	r1, err := s.WriteRun(ctx, testRun("run-a"))
	require.NoError(t, err)
	r2, err := s.WriteRun(ctx, testRun("run-b"))
	require.NoError(t, err)

	assert.Equal(t, int64(1), r1.Seq)
	assert.Equal(t, int64(2), r2.Seq)
}

func TestWriteRunIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	first, err := s.WriteRun(ctx, testRun("run-a"))
	require.NoError(t, err)

	again := testRun("run-a")
	again.TableHash = "different"
	second, err := s.WriteRun(ctx, again)
	require.NoError(t, err)

	assert.Equal(t, first, second)

	runs, err := s.ListRuns(ctx)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestWriteArtifactRequiresRun(t *testing.T) {
	s := openTestStore(t)

	err := s.WriteArtifact(context.Background(), ArtifactRecord{RunID: "ghost", Path: "a.ll", ContentHash: "h"})
	assert.Error(t, err, "foreign key must reject unknown run")
}

func TestWriteArtifactIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.WriteRun(ctx, testRun("run-a"))
	require.NoError(t, err)

	rec := ArtifactRecord{RunID: "run-a", Path: "a.ll", ContentHash: "h1", Size: 10, Written: true}
	require.NoError(t, s.WriteArtifact(ctx, rec))
	require.NoError(t, s.WriteArtifact(ctx, rec))

	records, err := s.ListArtifacts(ctx, "a.ll")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runSelect = `
	SELECT id, seq, table_hash, type_count, generator_version, format_version
	FROM generation_runs`

const artifactSelect = `
	SELECT a.run_id, r.seq, a.path, a.content_hash, a.size, a.written
	FROM artifacts a
	JOIN generation_runs r ON a.run_id = r.id`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var run Run
	err := row.Scan(&run.ID, &run.Seq, &run.TableHash, &run.TypeCount, &run.GeneratorVersion, &run.FormatVersion)
	return run, err
}

func scanArtifact(row rowScanner) (ArtifactRecord, error) {
	var rec ArtifactRecord
	err := row.Scan(&rec.RunID, &rec.RunSeq, &rec.Path, &rec.ContentHash, &rec.Size, &rec.Written)
	return rec, err
}

// ListRuns returns all runs ordered by seq ASC, id ASC COLLATE BINARY.
// Returns an empty slice (not nil) if no runs exist.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, runSelect+`
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ListArtifacts returns every record for an artifact path, oldest run first.
// Returns an empty slice (not nil) if the path was never generated.
func (s *Store) ListArtifacts(ctx context.Context, path string) ([]ArtifactRecord, error) {
	rows, err := s.db.QueryContext(ctx, artifactSelect+`
		WHERE a.path = ?
		ORDER BY r.seq ASC, a.run_id COLLATE BINARY ASC
	`, path)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	records := []ArtifactRecord{}
	for rows.Next() {
		rec, err := scanArtifact(rows)
		if err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return records, nil
}

// LatestArtifact returns the record for path from the most recent run.
// The bool is false if the path was never generated.
func (s *Store) LatestArtifact(ctx context.Context, path string) (ArtifactRecord, bool, error) {
	rec, err := scanArtifact(s.db.QueryRowContext(ctx, artifactSelect+`
		WHERE a.path = ?
		ORDER BY r.seq DESC, a.run_id COLLATE BINARY DESC
		LIMIT 1
	`, path))
	if errors.Is(err, sql.ErrNoRows) {
		return ArtifactRecord{}, false, nil
	}
	if err != nil {
		return ArtifactRecord{}, false, fmt.Errorf("latest artifact: %w", err)
	}
	return rec, true, nil
}

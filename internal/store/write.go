package store

import (
	"context"
	"fmt"
)

// WriteRun inserts a generation run and assigns it the next seq.
// Uses ON CONFLICT(id) DO NOTHING for idempotency; rewriting an existing run
// returns the stored record unchanged.
func (s *Store) WriteRun(ctx context.Context, run Run) (Run, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM generation_runs`).Scan(&seq); err != nil {
		return Run{}, fmt.Errorf("write run: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO generation_runs
		(id, seq, table_hash, type_count, generator_version, format_version)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		seq,
		run.TableHash,
		run.TypeCount,
		run.GeneratorVersion,
		run.FormatVersion,
	)
	if err != nil {
		return Run{}, fmt.Errorf("write run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return Run{}, fmt.Errorf("write run: rows affected: %w", err)
	}
	if rows == 0 {
		existing, err := scanRun(tx.QueryRowContext(ctx, runSelect+` WHERE id = ?`, run.ID))
		if err != nil {
			return Run{}, fmt.Errorf("write run: read existing: %w", err)
		}
		return existing, nil
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("write run: commit: %w", err)
	}

	run.Seq = seq
	return run, nil
}

// WriteArtifact records an artifact produced by a run.
// Uses ON CONFLICT(run_id, path) DO NOTHING for idempotency.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteArtifact(ctx context.Context, rec ArtifactRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO artifacts
		(run_id, path, content_hash, size, written)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(run_id, path) DO NOTHING
	`,
		rec.RunID,
		rec.Path,
		rec.ContentHash,
		rec.Size,
		rec.Written,
	)
	if err != nil {
		return fmt.Errorf("write artifact: %w", err)
	}
	return nil
}

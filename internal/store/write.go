package store

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/summarycmp/internal/summary"
)

// Meta keys recorded alongside the dataset.
const (
	metaCase       = "case"
	metaImportedAt = "imported_at"
	metaSource     = "source"
)

// WriteDataset replaces the store's contents with ds in a single transaction.
// The dataset is validated first; an invalid dataset leaves the store untouched.
//
// origin is recorded as import provenance (typically the fixture path) and may be empty.
func (s *Store) WriteDataset(ctx context.Context, ds *summary.Dataset, origin string) error {
	if err := ds.Validate(); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write dataset: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	for _, table := range []string{"samples", "keywords", "report_steps", "meta"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("write dataset: clear %s: %w", table, err)
		}
	}

	meta := map[string]string{
		metaCase:       ds.Case,
		metaImportedAt: time.Now().UTC().Format(time.RFC3339),
		metaSource:     origin,
	}
	for k, v := range meta {
		if _, err := tx.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES (?, ?)`, k, v); err != nil {
			return fmt.Errorf("write dataset: meta %s: %w", k, err)
		}
	}

	stepStmt, err := tx.PrepareContext(ctx, `INSERT INTO report_steps (step, sim_time) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("write dataset: prepare steps: %w", err)
	}
	defer stepStmt.Close()

	for step, t := range ds.Times {
		if _, err := stepStmt.ExecContext(ctx, step, t); err != nil {
			return fmt.Errorf("write dataset: step %d: %w", step, err)
		}
	}

	sampleStmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (keyword_id, step, value) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("write dataset: prepare samples: %w", err)
	}
	defer sampleStmt.Close()

	for _, keyword := range ds.Keywords() {
		result, err := tx.ExecContext(ctx, `INSERT INTO keywords (name) VALUES (?)`, keyword)
		if err != nil {
			return fmt.Errorf("write dataset: keyword %s: %w", keyword, err)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return fmt.Errorf("write dataset: keyword %s: last insert id: %w", keyword, err)
		}
		for step, v := range ds.Vectors[keyword] {
			if _, err := sampleStmt.ExecContext(ctx, id, step, v); err != nil {
				return fmt.Errorf("write dataset: sample %s[%d]: %w", keyword, step, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write dataset: commit: %w", err)
	}

	return nil
}

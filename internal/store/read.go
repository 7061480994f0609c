package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrKeywordNotFound is returned by Series for a keyword the store does not hold.
var ErrKeywordNotFound = errors.New("keyword not found")

// Meta returns the metadata value for key, or "" if it was never recorded.
func (s *Store) Meta(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read meta %s: %w", key, err)
	}
	return value, nil
}

// ListKeywords implements summary.Source.
// Results are ordered by name so listings are deterministic.
func (s *Store) ListKeywords(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM keywords
		ORDER BY name COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query keywords: %w", err)
	}
	defer rows.Close()

	keywords := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan keyword: %w", err)
		}
		keywords = append(keywords, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keywords: %w", err)
	}

	return keywords, nil
}

// TimeVector implements summary.Source.
func (s *Store) TimeVector(ctx context.Context) ([]float64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT sim_time FROM report_steps
		ORDER BY step ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query report steps: %w", err)
	}
	defer rows.Close()

	times := []float64{}
	for rows.Next() {
		var t float64
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("scan report step: %w", err)
		}
		times = append(times, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate report steps: %w", err)
	}

	return times, nil
}

// Series implements summary.Source.
// Values are aligned with TimeVector; a missing sample is an error.
func (s *Store) Series(ctx context.Context, keyword string) ([]float64, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `SELECT id FROM keywords WHERE name = ?`, keyword).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrKeywordNotFound, keyword)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup keyword %s: %w", keyword, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.step, s.value
		FROM report_steps r
		LEFT JOIN samples s ON s.step = r.step AND s.keyword_id = ?
		ORDER BY r.step ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("query samples %s: %w", keyword, err)
	}
	defer rows.Close()

	values := []float64{}
	for rows.Next() {
		var step int64
		var value sql.NullFloat64
		if err := rows.Scan(&step, &value); err != nil {
			return nil, fmt.Errorf("scan sample %s: %w", keyword, err)
		}
		if !value.Valid {
			return nil, fmt.Errorf("keyword %s has no sample at report step %d", keyword, step)
		}
		values = append(values, value.Float64)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate samples %s: %w", keyword, err)
	}

	return values, nil
}

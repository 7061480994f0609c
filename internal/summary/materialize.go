package summary

import (
	"context"
	"fmt"
)

// Materialize reads every keyword of src into memory and validates the result.
//
// Keywords are NFC-normalized here, at the store boundary, so the rest of the
// system can compare them with plain string equality. Two raw keywords that
// normalize to the same identifier are rejected.
func Materialize(ctx context.Context, src Source) (*Dataset, error) {
	times, err := src.TimeVector(ctx)
	if err != nil {
		return nil, fmt.Errorf("read time vector: %w", err)
	}

	keywords, err := src.ListKeywords(ctx)
	if err != nil {
		return nil, fmt.Errorf("list keywords: %w", err)
	}

	ds := &Dataset{
		Case:    src.Name(),
		Times:   times,
		Vectors: make(map[string][]float64, len(keywords)),
	}

	for _, raw := range keywords {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		keyword := NormalizeKeyword(raw)
		if _, dup := ds.Vectors[keyword]; dup {
			return nil, fmt.Errorf("duplicate keyword after normalization: %q", keyword)
		}
		values, err := src.Series(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("read series %s: %w", raw, err)
		}
		ds.Vectors[keyword] = values
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset %s: %w", ds.Case, err)
	}
	return ds, nil
}

// Package assignment loads the mapping from test display name to the markers
// that should be applied to it.
package assignment

import (
	"context"
	"fmt"

	"imprint/internal/domain"
)

// Source loads a marker assignment
type Source interface {
	Load(ctx context.Context) (domain.Assignment, error)
}

// Merge loads every source in order. Markers for the same test are
// concatenated in source order.
func Merge(ctx context.Context, sources ...Source) (domain.Assignment, error) {
	merged := make(domain.Assignment)
	for i, src := range sources {
		a, err := src.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("assignment source %d: %w", i+1, err)
		}
		for name, marks := range a {
			merged.Add(name, marks...)
		}
	}
	return merged, nil
}

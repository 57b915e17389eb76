package execution

import (
	"context"

	"imprint/internal/domain"
)

// ItemParser extracts test items from one file
type ItemParser interface {
	FindTestItems(ctx context.Context, filePath string) ([]domain.TestItem, error)
}

package db

import (
	"context"

	"github.com/spacesedan/sentify/internal/models"
)

// ResultStore keeps the history of completed analyses.
type ResultStore interface {
	Save(ctx context.Context, records ...models.AnalysisRecord) error
	// History returns the newest records for a product/brand pair first.
	History(ctx context.Context, product, brand string, limit int) ([]models.AnalysisRecord, error)
	Close() error
}

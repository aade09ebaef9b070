package repositories

import (
	"context"

	"github.com/chrisdamba/shelfsim/internal/models"
)

type RunRepository interface {
	Migrate(ctx context.Context) error
	Create(ctx context.Context, run models.RunSummary) error
	GetByID(ctx context.Context, runID string) (*models.RunSummary, error)
	Count(ctx context.Context) (int, error)
}

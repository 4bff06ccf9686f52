package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type ActivityRepository interface {
	Create(ctx context.Context, log models.ActivityLog) (models.ActivityLog, error)
	// ListRecent returns up to limit entries, newest first. limit <= 0 means 10.
	ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error)
	// Filter returns a page of entries, newest first, and the total number of matches.
	Filter(ctx context.Context, af ActivityFilter) ([]models.ActivityLog, int, error)
}

package repo

import (
	"context"
	"sort"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryActivityRepository struct {
	logs *table[models.ActivityLog]
	now  func() time.Time
}

func NewInMemoryActivityRepository() *InMemoryActivityRepository {
	return &InMemoryActivityRepository{logs: newTable[models.ActivityLog](), now: time.Now}
}

// Create appends an entry stamped with the current time.
func (r *InMemoryActivityRepository) Create(_ context.Context, log models.ActivityLog) (models.ActivityLog, error) {
	return r.logs.insert(nil, func(id int) models.ActivityLog {
		log.ID = id
		log.Timestamp = r.now()
		return log
	})
}

func (r *InMemoryActivityRepository) newestFirst(match func(models.ActivityLog) bool) []models.ActivityLog {
	logs := r.logs.list(match)
	sort.SliceStable(logs, func(i, j int) bool {
		if logs[i].Timestamp.Equal(logs[j].Timestamp) {
			return logs[i].ID > logs[j].ID
		}
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs
}

func (r *InMemoryActivityRepository) ListRecent(_ context.Context, limit int) ([]models.ActivityLog, error) {
	logs := r.newestFirst(nil)
	return logs[:min(recentLimit(limit), len(logs))], nil
}

// Filter returns entries matching af, optionally bounded by date range and paginated.
func (r *InMemoryActivityRepository) Filter(_ context.Context, af ActivityFilter) ([]models.ActivityLog, int, error) {
	filtered := r.newestFirst(func(l models.ActivityLog) bool {
		if af.EntityType != "" && l.EntityType != af.EntityType {
			return false
		}
		if af.Since != nil && l.Timestamp.Before(*af.Since) {
			return false
		}
		if af.Until != nil && l.Timestamp.After(*af.Until) {
			return false
		}
		return true
	})

	if af.Offset != nil && *af.Offset > len(filtered) {
		return []models.ActivityLog{}, len(filtered), nil
	}

	start := 0
	if af.Offset != nil {
		start = clamp(*af.Offset, 0, len(filtered))
	}

	limit := defaultLimit
	if af.Limit != nil && *af.Limit > 0 {
		limit = min(*af.Limit, defaultLimit)
	}
	end := clamp(start+limit, start, len(filtered))

	return filtered[start:end], len(filtered), nil
}

func (r *InMemoryActivityRepository) Clear() {
	r.logs.clear()
}

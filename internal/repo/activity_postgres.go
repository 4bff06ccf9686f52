package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

const activityColumns = `id, user_id, activity, entity_type, entity_id, timestamp`

func scanActivity(s rowScanner) (models.ActivityLog, error) {
	var l models.ActivityLog
	var userID, entityID sql.NullInt64
	err := s.Scan(&l.ID, &userID, &l.Activity, &l.EntityType, &entityID, &l.Timestamp)
	l.UserID = intPtr(userID)
	l.EntityID = intPtr(entityID)
	return l, err
}

// Create inserts a new activity entry
func (r *PostgresActivityRepository) Create(ctx context.Context, l models.ActivityLog) (models.ActivityLog, error) {
	l.Timestamp = time.Now().UTC()
	query := `INSERT INTO activity_logs (user_id, activity, entity_type, entity_id, timestamp) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if err := r.db.QueryRowContext(ctx, query, nullInt(l.UserID), l.Activity, l.EntityType, nullInt(l.EntityID), l.Timestamp).Scan(&l.ID); err != nil {
		return models.ActivityLog{}, fmt.Errorf("failed to insert activity: %w", err)
	}
	return l, nil
}

func (r *PostgresActivityRepository) ListRecent(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activity_logs ORDER BY timestamp DESC, id DESC LIMIT $1`, recentLimit(limit))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanActivity)
}

// Filter returns activity entries, optionally filtered by entity type and date range, and paginated
func (r *PostgresActivityRepository) Filter(ctx context.Context, af ActivityFilter) ([]models.ActivityLog, int, error) {
	if af.Offset != nil && *af.Offset < 0 {
		return nil, 0, fmt.Errorf("offset must be non-negative")
	}

	whereClause, args := buildActivityWhere(af)

	total, err := r.getTotal(ctx, whereClause, args)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get total count: %w", err)
	}

	// limit = 0 means count only
	if af.Limit != nil && *af.Limit == 0 {
		return []models.ActivityLog{}, total, nil
	}
	if af.Offset != nil && *af.Offset >= total {
		return []models.ActivityLog{}, total, nil
	}

	query, queryArgs := buildActivityQuery(whereClause, args, af)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to execute query: %w", err)
	}
	logs, err := collect(rows, scanActivity)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

func buildActivityWhere(af ActivityFilter) (string, []any) {
	whereClause := "WHERE 1=1"
	args := []any{}

	if af.EntityType != "" {
		args = append(args, af.EntityType)
		whereClause += fmt.Sprintf(" AND entity_type = $%d", len(args))
	}
	if af.Since != nil {
		args = append(args, *af.Since)
		whereClause += fmt.Sprintf(" AND timestamp >= $%d", len(args))
	}
	if af.Until != nil {
		args = append(args, *af.Until)
		whereClause += fmt.Sprintf(" AND timestamp <= $%d", len(args))
	}

	return whereClause, args
}

func buildActivityQuery(whereClause string, baseArgs []any, af ActivityFilter) (string, []any) {
	query := fmt.Sprintf("SELECT %s FROM activity_logs %s ORDER BY timestamp DESC, id DESC", activityColumns, whereClause)
	args := make([]any, len(baseArgs))
	copy(args, baseArgs)

	limit := defaultLimit
	if af.Limit != nil && *af.Limit > 0 {
		limit = min(*af.Limit, defaultLimit)
	}
	args = append(args, limit)
	query += fmt.Sprintf(" LIMIT $%d", len(args))

	if af.Offset != nil && *af.Offset > 0 {
		args = append(args, *af.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	return query, args
}

func (r *PostgresActivityRepository) getTotal(ctx context.Context, whereClause string, args []any) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var total int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM activity_logs "+whereClause, args...).Scan(&total)
	return total, err
}

package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresInventoryRepository struct {
	db *sql.DB
}

func NewPostgresInventoryRepository(db *sql.DB) *PostgresInventoryRepository {
	return &PostgresInventoryRepository{db: db}
}

const inventoryColumns = `id, product_id, branch_id, quantity, last_updated`

func scanInventory(s rowScanner) (models.Inventory, error) {
	var i models.Inventory
	err := s.Scan(&i.ID, &i.ProductID, &i.BranchID, &i.Quantity, &i.LastUpdated)
	return i, err
}

func (r *PostgresInventoryRepository) GetByID(ctx context.Context, id int) (models.Inventory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	i, err := scanInventory(r.db.QueryRowContext(ctx, `SELECT `+inventoryColumns+` FROM inventory WHERE id = $1`, id))
	return i, translate(err)
}

func (r *PostgresInventoryRepository) Create(ctx context.Context, i models.Inventory) (models.Inventory, error) {
	i.LastUpdated = time.Now().UTC()
	query := `INSERT INTO inventory (product_id, branch_id, quantity, last_updated) VALUES ($1, $2, $3, $4) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, i.ProductID, i.BranchID, i.Quantity, i.LastUpdated).Scan(&i.ID)
	return i, translate(err)
}

func (r *PostgresInventoryRepository) Update(ctx context.Context, i models.Inventory) (models.Inventory, error) {
	i.LastUpdated = time.Now().UTC()
	query := `UPDATE inventory SET product_id = $1, branch_id = $2, quantity = $3, last_updated = $4 WHERE id = $5`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, i.ProductID, i.BranchID, i.Quantity, i.LastUpdated, i.ID)
	if err := expectOne(res, err); err != nil {
		return models.Inventory{}, err
	}
	return i, nil
}

// AdjustQuantity applies delta atomically; the row is left untouched when the result would be negative.
func (r *PostgresInventoryRepository) AdjustQuantity(ctx context.Context, id int, delta int) (models.Inventory, error) {
	query := `
		UPDATE inventory
		SET quantity = quantity + $1, last_updated = $2
		WHERE id = $3 AND quantity + $1 >= 0
		RETURNING ` + inventoryColumns
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	i, err := scanInventory(r.db.QueryRowContext(ctx, query, delta, time.Now().UTC(), id))
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return models.Inventory{}, getErr
		}
		return models.Inventory{}, ErrInvalidQuantityChange
	}
	return i, err
}

func (r *PostgresInventoryRepository) list(ctx context.Context, where string, args ...any) ([]models.Inventory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+inventoryColumns+` FROM inventory `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanInventory)
}

func (r *PostgresInventoryRepository) List(ctx context.Context) ([]models.Inventory, error) {
	return r.list(ctx, "")
}

func (r *PostgresInventoryRepository) ListByBranch(ctx context.Context, branchID int) ([]models.Inventory, error) {
	return r.list(ctx, "WHERE branch_id = $1", branchID)
}

func (r *PostgresInventoryRepository) ListLowStock(ctx context.Context, threshold int) ([]models.Inventory, error) {
	return r.list(ctx, "WHERE quantity <= $1", threshold)
}

package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresOrderRepository struct {
	db *sql.DB
}

func NewPostgresOrderRepository(db *sql.DB) *PostgresOrderRepository {
	return &PostgresOrderRepository{db: db}
}

const orderColumns = `id, customer_id, branch_id, order_date, total, status, payment_status`

func scanOrder(s rowScanner) (models.Order, error) {
	var o models.Order
	err := s.Scan(&o.ID, &o.CustomerID, &o.BranchID, &o.OrderDate, &o.Total, &o.Status, &o.PaymentStatus)
	return o, err
}

func (r *PostgresOrderRepository) GetByID(ctx context.Context, id int) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id))
	return o, translate(err)
}

func (r *PostgresOrderRepository) Create(ctx context.Context, o models.Order) (models.Order, error) {
	o.Status = models.StatusPending
	o.PaymentStatus = false
	o.OrderDate = time.Now().UTC()
	query := `INSERT INTO orders (customer_id, branch_id, order_date, total, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, o.CustomerID, o.BranchID, o.OrderDate, o.Total, string(o.Status), o.PaymentStatus).Scan(&o.ID)
	return o, translate(err)
}

func (r *PostgresOrderRepository) CreateWithItems(ctx context.Context, o models.Order, items []models.OrderItem) (models.Order, []models.OrderItem, error) {
	o.Status = models.StatusPending
	o.PaymentStatus = false
	o.OrderDate = time.Now().UTC()
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Order{}, nil, err
	}
	defer tx.Rollback()

	err = tx.QueryRowContext(ctx, `INSERT INTO orders (customer_id, branch_id, order_date, total, status, payment_status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.CustomerID, o.BranchID, o.OrderDate, o.Total, string(o.Status), o.PaymentStatus).Scan(&o.ID)
	if err != nil {
		return models.Order{}, nil, translate(err)
	}

	stored := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = o.ID
		err := tx.QueryRowContext(ctx, `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`,
			item.OrderID, item.ProductID, item.Quantity, item.Price).Scan(&item.ID)
		if err != nil {
			return models.Order{}, nil, translate(err)
		}
		stored = append(stored, item)
	}

	if err := tx.Commit(); err != nil {
		return models.Order{}, nil, err
	}
	return o, stored, nil
}

func (r *PostgresOrderRepository) UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	o, err := scanOrder(r.db.QueryRowContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2 RETURNING `+orderColumns, string(status), id))
	return o, translate(err)
}

func (r *PostgresOrderRepository) ListByCustomer(ctx context.Context, customerID int) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id = $1 ORDER BY id`, customerID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

func (r *PostgresOrderRepository) ListRecent(ctx context.Context, limit int) ([]models.Order, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+orderColumns+` FROM orders ORDER BY order_date DESC, id DESC LIMIT $1`, recentLimit(limit))
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrder)
}

type PostgresOrderItemRepository struct {
	db *sql.DB
}

func NewPostgresOrderItemRepository(db *sql.DB) *PostgresOrderItemRepository {
	return &PostgresOrderItemRepository{db: db}
}

func scanOrderItem(s rowScanner) (models.OrderItem, error) {
	var i models.OrderItem
	err := s.Scan(&i.ID, &i.OrderID, &i.ProductID, &i.Quantity, &i.Price)
	return i, err
}

func (r *PostgresOrderItemRepository) GetByID(ctx context.Context, id int) (models.OrderItem, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	i, err := scanOrderItem(r.db.QueryRowContext(ctx, `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE id = $1`, id))
	return i, translate(err)
}

func (r *PostgresOrderItemRepository) Create(ctx context.Context, i models.OrderItem) (models.OrderItem, error) {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, i.OrderID, i.ProductID, i.Quantity, i.Price).Scan(&i.ID)
	return i, translate(err)
}

func (r *PostgresOrderItemRepository) ListByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, order_id, product_id, quantity, price FROM order_items WHERE order_id = $1 ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanOrderItem)
}

package repo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresProductGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM products WHERE id = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err = NewPostgresProductRepository(db).GetByID(context.Background(), 7)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductCreateDuplicateSKU(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value"})

	_, err = NewPostgresProductRepository(db).Create(context.Background(), models.Product{Name: "Pen", SKU: "P"})
	assert.ErrorIs(t, err, ErrDuplicatedValueUnique)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresProductFilterBuildsQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	minPrice := decimal.NewFromInt(5)
	limit := 2
	pf := ProductFilter{Name: "cof", MinPrice: &minPrice, Limit: &limit}

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM products WHERE 1=1 AND name ILIKE $1 AND price >= $2`)).
		WithArgs("%cof%", minPrice).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(regexp.QuoteMeta(`AND name ILIKE $1 AND price >= $2 ORDER BY id LIMIT $3`)).
		WithArgs("%cof%", minPrice, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "sku", "description", "price", "category_id", "in_stock", "min_stock_level"}).
			AddRow(1, "Coffee", "C1", "", "12.50", 1, true, 10).
			AddRow(2, "Coffee Mug", "C2", "", "8.00", 2, true, 10))

	got, total, err := NewPostgresProductRepository(db).Filter(context.Background(), pf)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, got, 2)
	assert.Equal(t, "12.5", got[0].Price.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresInventoryAdjustRejectsNegative(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	cols := []string{"id", "product_id", "branch_id", "quantity", "last_updated"}
	mock.ExpectQuery(`UPDATE inventory`).
		WithArgs(-5, sqlmock.AnyArg(), 1).
		WillReturnRows(sqlmock.NewRows(cols))
	mock.ExpectQuery(regexp.QuoteMeta(`FROM inventory WHERE id = $1`)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(1, 1, 1, 2, time.Now()))

	_, err = NewPostgresInventoryRepository(db).AdjustQuantity(context.Background(), 1, -5)
	assert.ErrorIs(t, err, ErrInvalidQuantityChange)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderCreateForcesPending(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(3, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))

	o, err := NewPostgresOrderRepository(db).Create(context.Background(), models.Order{
		CustomerID: 3, BranchID: 1, Status: models.StatusCompleted, PaymentStatus: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 11, o.ID)
	assert.Equal(t, models.StatusPending, o.Status)
	assert.False(t, o.PaymentStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderCreateWithItemsCommits(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WithArgs(3, 1, sqlmock.AnyArg(), sqlmock.AnyArg(), "pending", false).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(11))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WithArgs(11, 5, 2, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(40))
	mock.ExpectCommit()

	o, items, err := NewPostgresOrderRepository(db).CreateWithItems(context.Background(),
		models.Order{CustomerID: 3, BranchID: 1},
		[]models.OrderItem{{ProductID: 5, Quantity: 2, Price: decimal.NewFromInt(7)}})
	require.NoError(t, err)
	assert.Equal(t, 11, o.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 40, items[0].ID)
	assert.Equal(t, 11, items[0].OrderID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderCreateWithItemsRollsBack(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO orders`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(12))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(41))
	mock.ExpectQuery(`INSERT INTO order_items`).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	_, items, err := NewPostgresOrderRepository(db).CreateWithItems(context.Background(),
		models.Order{CustomerID: 3, BranchID: 1},
		[]models.OrderItem{
			{ProductID: 5, Quantity: 1, Price: decimal.NewFromInt(1)},
			{ProductID: 6, Quantity: 1, Price: decimal.NewFromInt(1)},
		})
	require.Error(t, err)
	assert.Nil(t, items)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresOrderListRecentDefaultsToTen(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY order_date DESC, id DESC LIMIT $1`)).
		WithArgs(10).
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "branch_id", "order_date", "total", "status", "payment_status"}).
			AddRow(2, 1, 1, time.Now(), "20.00", "completed", true))

	orders, err := NewPostgresOrderRepository(db).ListRecent(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, models.StatusCompleted, orders[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteMissingRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM customers WHERE id = $1`)).
		WithArgs(4).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewPostgresCustomerRepository(db).Delete(context.Background(), 4)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresActivityFilterPaginates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	limit, offset := 500, 2
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM activity_logs WHERE 1=1 AND entity_type = $1`)).
		WithArgs("order").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(regexp.QuoteMeta(`ORDER BY timestamp DESC, id DESC LIMIT $2 OFFSET $3`)).
		WithArgs("order", defaultLimit, 2).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "activity", "entity_type", "entity_id", "timestamp"}).
			AddRow(3, nil, "Order created", "order", 9, time.Now()))

	logs, total, err := NewPostgresActivityRepository(db).Filter(context.Background(), ActivityFilter{EntityType: "order", Limit: &limit, Offset: &offset})
	require.NoError(t, err)
	assert.Equal(t, 5, total)
	require.Len(t, logs, 1)
	assert.Nil(t, logs[0].UserID)
	require.NotNil(t, logs[0].EntityID)
	assert.Equal(t, 9, *logs[0].EntityID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresDashboardRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewPostgresDashboardRepository(db *sql.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{db: db, now: time.Now}
}

func (r *PostgresDashboardRepository) GetDashboard(ctx context.Context) (Dashboard, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var d Dashboard
	var err error

	if err = r.db.QueryRowContext(ctx, `
		SELECT
			COALESCE(SUM(total) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(total) FILTER (WHERE status = 'completed' AND payment_status), 0)
		FROM orders
	`).Scan(&d.Stats.TotalSales, &d.Stats.Revenue); err != nil {
		return d, fmt.Errorf("order totals: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers WHERE registered_date >= $1`,
		r.now().Add(-NewCustomerWindow)).Scan(&d.Stats.NewCustomers); err != nil {
		return d, fmt.Errorf("new customers: %w", err)
	}
	if err = r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(quantity), 0) FROM inventory`).Scan(&d.Stats.InventoryItems); err != nil {
		return d, fmt.Errorf("inventory units: %w", err)
	}

	if d.BranchPerformance, err = r.branchPerformance(ctx); err != nil {
		return d, err
	}
	if d.RecentOrders, err = r.recentOrders(ctx); err != nil {
		return d, err
	}
	if d.LowStockItems, err = r.lowStock(ctx); err != nil {
		return d, err
	}

	rows, err := r.db.QueryContext(ctx, `SELECT `+activityColumns+` FROM activity_logs ORDER BY timestamp DESC, id DESC LIMIT $1`, dashboardRecentActivities)
	if err != nil {
		return d, fmt.Errorf("recent activities: %w", err)
	}
	if d.RecentActivities, err = collect(rows, scanActivity); err != nil {
		return d, err
	}

	return d, nil
}

func (r *PostgresDashboardRepository) branchPerformance(ctx context.Context) ([]BranchPerformance, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT b.id, b.name, COALESCE(SUM(o.total), 0) AS revenue, COUNT(o.id)
		FROM branches b
		LEFT JOIN orders o ON o.branch_id = b.id AND o.status <> 'cancelled'
		GROUP BY b.id, b.name
		ORDER BY revenue DESC, b.id
	`)
	if err != nil {
		return nil, fmt.Errorf("branch performance: %w", err)
	}
	perf, err := collect(rows, func(s rowScanner) (BranchPerformance, error) {
		var p BranchPerformance
		err := s.Scan(&p.ID, &p.Name, &p.Revenue, &p.Orders)
		return p, err
	})
	if err != nil {
		return nil, err
	}
	if len(perf) > 0 {
		best := perf[0].Revenue
		for i := range perf {
			perf[i].Percentage = branchShare(perf[i].Revenue, best)
		}
	}
	return perf, nil
}

func (r *PostgresDashboardRepository) recentOrders(ctx context.Context) ([]RecentOrder, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT o.id, o.customer_id, COALESCE(c.name, 'Unknown Customer'), o.order_date, o.total, o.status
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		ORDER BY o.order_date DESC, o.id DESC
		LIMIT $1
	`, dashboardRecentOrders)
	if err != nil {
		return nil, fmt.Errorf("recent orders: %w", err)
	}
	return collect(rows, func(s rowScanner) (RecentOrder, error) {
		var o RecentOrder
		var date time.Time
		var status string
		err := s.Scan(&o.ID, &o.CustomerID, &o.CustomerName, &date, &o.Amount, &status)
		o.Date = date.Format(time.DateOnly)
		o.Status = models.OrderStatus(status)
		return o, err
	})
}

func (r *PostgresDashboardRepository) lowStock(ctx context.Context) ([]LowStockItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.sku, COALESCE(SUM(i.quantity), 0) AS qty, p.min_stock_level
		FROM products p
		LEFT JOIN inventory i ON i.product_id = p.id
		GROUP BY p.id, p.name, p.sku, p.min_stock_level
		HAVING COALESCE(SUM(i.quantity), 0) <= p.min_stock_level
		ORDER BY p.id
	`)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return collect(rows, func(s rowScanner) (LowStockItem, error) {
		var item LowStockItem
		err := s.Scan(&item.ID, &item.Name, &item.SKU, &item.Quantity, &item.MinStockLevel)
		return item, err
	})
}


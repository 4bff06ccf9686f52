package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/shopspring/decimal"
)

// NewCustomerWindow is how far back a registration counts as new.
const NewCustomerWindow = 30 * 24 * time.Hour

const (
	dashboardRecentOrders     = 4
	dashboardRecentActivities = 4
)

type DashboardStats struct {
	TotalSales     decimal.Decimal `json:"totalSales"`
	NewCustomers   int             `json:"newCustomers"`
	InventoryItems int             `json:"inventoryItems"`
	Revenue        decimal.Decimal `json:"revenue"`
}

type BranchPerformance struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Orders     int             `json:"orders"`
	Percentage float64         `json:"percentage"`
}

type RecentOrder struct {
	ID           int                `json:"id"`
	CustomerID   int                `json:"customerId"`
	CustomerName string             `json:"customerName"`
	Date         string             `json:"date"`
	Amount       decimal.Decimal    `json:"amount"`
	Status       models.OrderStatus `json:"status"`
}

type LowStockItem struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	SKU           string `json:"sku"`
	Quantity      int    `json:"quantity"`
	MinStockLevel int    `json:"minStockLevel"`
}

type Dashboard struct {
	Stats             DashboardStats       `json:"stats"`
	BranchPerformance []BranchPerformance  `json:"branchPerformance"`
	RecentOrders      []RecentOrder        `json:"recentOrders"`
	LowStockItems     []LowStockItem       `json:"lowStockItems"`
	RecentActivities  []models.ActivityLog `json:"recentActivities"`
}

// DashboardRepository computes the figures shown on the analytics dashboard.
//
// Total sales sums every order that is not cancelled. Revenue only counts
// orders that are completed and paid. A product is low on stock when the sum
// of its inventory rows is at or below its own minimum stock level.
type DashboardRepository interface {
	GetDashboard(ctx context.Context) (Dashboard, error)
}

// branchShare is revenue as a percentage of the best branch, rounded to one decimal.
func branchShare(revenue, best decimal.Decimal) float64 {
	if best.IsZero() {
		return 0
	}
	return revenue.Div(best).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

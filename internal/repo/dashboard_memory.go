package repo

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/shopspring/decimal"
)

type InMemoryDashboardRepository struct {
	branchRepo    BranchRepository
	productRepo   ProductRepository
	inventoryRepo InventoryRepository
	customerRepo  CustomerRepository
	orderRepo     OrderRepository
	activityRepo  ActivityRepository
	now           func() time.Time
}

func NewInMemoryDashboardRepository() *InMemoryDashboardRepository {
	return &InMemoryDashboardRepository{now: time.Now}
}

func (d *InMemoryDashboardRepository) SetRepositories(
	branchRepo BranchRepository,
	productRepo ProductRepository,
	inventoryRepo InventoryRepository,
	customerRepo CustomerRepository,
	orderRepo OrderRepository,
	activityRepo ActivityRepository,
) {
	d.branchRepo = branchRepo
	d.productRepo = productRepo
	d.inventoryRepo = inventoryRepo
	d.customerRepo = customerRepo
	d.orderRepo = orderRepo
	d.activityRepo = activityRepo
}

// GetDashboard implements DashboardRepository.
func (d *InMemoryDashboardRepository) GetDashboard(ctx context.Context) (Dashboard, error) {
	var dash Dashboard

	branches, err := d.branchRepo.List(ctx)
	if err != nil {
		return dash, err
	}
	products, err := d.productRepo.List(ctx)
	if err != nil {
		return dash, err
	}
	inventory, err := d.inventoryRepo.List(ctx)
	if err != nil {
		return dash, err
	}
	customers, err := d.customerRepo.List(ctx)
	if err != nil {
		return dash, err
	}
	// every order, newest first
	orders, err := d.orderRepo.ListRecent(ctx, math.MaxInt)
	if err != nil {
		return dash, err
	}
	activities, err := d.activityRepo.ListRecent(ctx, dashboardRecentActivities)
	if err != nil {
		return dash, err
	}

	since := d.now().Add(-NewCustomerWindow)
	customerNames := make(map[int]string, len(customers))
	for _, c := range customers {
		customerNames[c.ID] = c.Name
		if !c.RegisteredDate.Before(since) {
			dash.Stats.NewCustomers++
		}
	}

	stock := map[int]int{}
	for _, item := range inventory {
		dash.Stats.InventoryItems += item.Quantity
		stock[item.ProductID] += item.Quantity
	}

	branchRevenue := map[int]decimal.Decimal{}
	branchOrders := map[int]int{}
	for _, o := range orders {
		if o.Status != models.StatusCancelled {
			dash.Stats.TotalSales = dash.Stats.TotalSales.Add(o.Total)
			branchRevenue[o.BranchID] = branchRevenue[o.BranchID].Add(o.Total)
			branchOrders[o.BranchID]++
		}
		if o.Status == models.StatusCompleted && o.PaymentStatus {
			dash.Stats.Revenue = dash.Stats.Revenue.Add(o.Total)
		}
	}

	best := decimal.Zero
	for _, rev := range branchRevenue {
		if rev.GreaterThan(best) {
			best = rev
		}
	}
	dash.BranchPerformance = make([]BranchPerformance, 0, len(branches))
	for _, b := range branches {
		rev := branchRevenue[b.ID]
		dash.BranchPerformance = append(dash.BranchPerformance, BranchPerformance{
			ID:         b.ID,
			Name:       b.Name,
			Revenue:    rev,
			Orders:     branchOrders[b.ID],
			Percentage: branchShare(rev, best),
		})
	}
	sort.SliceStable(dash.BranchPerformance, func(i, j int) bool {
		return dash.BranchPerformance[i].Revenue.GreaterThan(dash.BranchPerformance[j].Revenue)
	})

	dash.RecentOrders = make([]RecentOrder, 0, dashboardRecentOrders)
	for _, o := range orders[:min(dashboardRecentOrders, len(orders))] {
		name, ok := customerNames[o.CustomerID]
		if !ok {
			name = "Unknown Customer"
		}
		dash.RecentOrders = append(dash.RecentOrders, RecentOrder{
			ID:           o.ID,
			CustomerID:   o.CustomerID,
			CustomerName: name,
			Date:         o.OrderDate.Format(time.DateOnly),
			Amount:       o.Total,
			Status:       o.Status,
		})
	}

	dash.LowStockItems = []LowStockItem{}
	for _, p := range products {
		if qty := stock[p.ID]; qty <= p.MinStockLevel {
			dash.LowStockItems = append(dash.LowStockItems, LowStockItem{
				ID:            p.ID,
				Name:          p.Name,
				SKU:           p.SKU,
				Quantity:      qty,
				MinStockLevel: p.MinStockLevel,
			})
		}
	}

	dash.RecentActivities = activities
	return dash, nil
}

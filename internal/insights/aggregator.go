package insights

import (
	"context"
	"fmt"
	"sort"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
	"github.com/shopspring/decimal"
)

const (
	// LowStockThreshold is the inventory quantity at or below which a row counts as at risk.
	LowStockThreshold = 5
	topN              = 5

	unknownProduct  = "Unknown Product"
	unknownBranch   = "Unknown Branch"
	unknownCustomer = "Unknown Customer"
)

type ProductSales struct {
	ProductID   int             `json:"productId"`
	ProductName string          `json:"productName"`
	Quantity    int             `json:"quantity"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type SalesSummary struct {
	TotalOrders           int             `json:"totalOrders"`
	TotalRevenue          decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue     decimal.Decimal `json:"averageOrderValue"`
	TopSellingProducts    []ProductSales  `json:"topSellingProducts"`
	CustomerRetentionRate float64         `json:"customerRetentionRate"`
}

type StockRisk struct {
	ProductID   int    `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	BranchID    int    `json:"branchId"`
	BranchName  string `json:"branchName"`
}

type InventorySummary struct {
	TotalProducts int         `json:"totalProducts"`
	LowStockItems int         `json:"lowStockItems"`
	StockOutRisk  []StockRisk `json:"stockOutRisk"`
}

type CustomerSpend struct {
	CustomerID   int             `json:"customerId"`
	CustomerName string          `json:"customerName"`
	TotalSpent   decimal.Decimal `json:"totalSpent"`
	OrderCount   int             `json:"orderCount"`
}

type CustomerSummary struct {
	TotalCustomers       int             `json:"totalCustomers"`
	ActiveCustomers      int             `json:"activeCustomers"`
	EngagementRate       float64         `json:"customerEngagementRate"`
	AverageCustomerSpend decimal.Decimal `json:"averageCustomerSpend"`
	TopCustomers         []CustomerSpend `json:"topCustomers"`
}

type OverallSummary struct {
	TotalOrders       int             `json:"totalOrders"`
	TotalRevenue      decimal.Decimal `json:"totalRevenue"`
	AverageOrderValue decimal.Decimal `json:"averageOrderValue"`
	TotalCustomers    int             `json:"totalCustomers"`
	TotalProducts     int             `json:"totalProducts"`
	LowStockItems     int             `json:"lowStockItems"`
	TotalSuppliers    int             `json:"totalSuppliers"`
	TotalBranches     int             `json:"totalBranches"`
}

// Summary carries exactly one domain block, selected by Domain.
type Summary struct {
	Domain    Domain
	Timespan  Timespan
	Sales     *SalesSummary
	Inventory *InventorySummary
	Customers *CustomerSummary
	Overall   *OverallSummary
}

// Aggregator reads the store and never writes to it.
type Aggregator struct {
	Orders     repo.OrderRepository
	OrderItems repo.OrderItemRepository
	Customers  repo.CustomerRepository
	Products   repo.ProductRepository
	Inventory  repo.InventoryRepository
	Branches   repo.BranchRepository
	Suppliers  repo.SupplierRepository
}

func (a *Aggregator) Summarize(ctx context.Context, domain Domain, timespan Timespan) (Summary, error) {
	s := Summary{Domain: domain, Timespan: timespan}
	var err error

	switch domain {
	case DomainSales:
		s.Sales, err = a.sales(ctx, timespan.Window())
	case DomainInventory:
		s.Inventory, err = a.inventory(ctx)
	case DomainCustomers:
		s.Customers, err = a.customers(ctx, timespan.Window())
	case DomainOverall:
		s.Overall, err = a.overall(ctx, timespan.Window())
	default:
		return s, fmt.Errorf("%w: unknown dataType %q", ErrInvalidRequest, domain)
	}
	if err != nil {
		return s, fmt.Errorf("aggregate %s: %w", domain, err)
	}
	return s, nil
}

func (a *Aggregator) sales(ctx context.Context, window int) (*SalesSummary, error) {
	orders, err := a.Orders.ListRecent(ctx, window)
	if err != nil {
		return nil, err
	}
	products, err := a.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	var items []models.OrderItem
	for _, o := range orders {
		oi, err := a.OrderItems.ListByOrder(ctx, o.ID)
		if err != nil {
			return nil, err
		}
		items = append(items, oi...)
	}

	total, avg := revenue(orders)
	return &SalesSummary{
		TotalOrders:           len(orders),
		TotalRevenue:          total,
		AverageOrderValue:     avg,
		TopSellingProducts:    TopSellingProducts(items, products),
		CustomerRetentionRate: RetentionRate(orders),
	}, nil
}

func (a *Aggregator) inventory(ctx context.Context) (*InventorySummary, error) {
	products, err := a.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	low, err := a.Inventory.ListLowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, err
	}
	branches, err := a.Branches.List(ctx)
	if err != nil {
		return nil, err
	}

	productNames := make(map[int]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}
	branchNames := make(map[int]string, len(branches))
	for _, b := range branches {
		branchNames[b.ID] = b.Name
	}

	risks := make([]StockRisk, 0, len(low))
	for _, item := range low {
		risks = append(risks, StockRisk{
			ProductID:   item.ProductID,
			ProductName: nameOr(productNames, item.ProductID, unknownProduct),
			Quantity:    item.Quantity,
			BranchID:    item.BranchID,
			BranchName:  nameOr(branchNames, item.BranchID, unknownBranch),
		})
	}

	return &InventorySummary{
		TotalProducts: len(products),
		LowStockItems: len(low),
		StockOutRisk:  risks,
	}, nil
}

func (a *Aggregator) customers(ctx context.Context, window int) (*CustomerSummary, error) {
	customers, err := a.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.Orders.ListRecent(ctx, window)
	if err != nil {
		return nil, err
	}
	return SummarizeCustomers(customers, orders), nil
}

func (a *Aggregator) overall(ctx context.Context, window int) (*OverallSummary, error) {
	products, err := a.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := a.Orders.ListRecent(ctx, window)
	if err != nil {
		return nil, err
	}
	customers, err := a.Customers.List(ctx)
	if err != nil {
		return nil, err
	}
	low, err := a.Inventory.ListLowStock(ctx, LowStockThreshold)
	if err != nil {
		return nil, err
	}
	suppliers, err := a.Suppliers.List(ctx)
	if err != nil {
		return nil, err
	}
	branches, err := a.Branches.List(ctx)
	if err != nil {
		return nil, err
	}

	total, avg := revenue(orders)
	return &OverallSummary{
		TotalOrders:       len(orders),
		TotalRevenue:      total,
		AverageOrderValue: avg,
		TotalCustomers:    len(customers),
		TotalProducts:     len(products),
		LowStockItems:     len(low),
		TotalSuppliers:    len(suppliers),
		TotalBranches:     len(branches),
	}, nil
}

// revenue returns the sum of order totals and their mean, which is zero for no orders.
func revenue(orders []models.Order) (total, average decimal.Decimal) {
	for _, o := range orders {
		total = total.Add(o.Total)
	}
	if len(orders) == 0 {
		return total, decimal.Zero
	}
	return total, total.Div(decimal.NewFromInt(int64(len(orders))))
}

// TopSellingProducts ranks products by summed item quantity. An item with no
// quantity counts as one unit. Ties keep the order in which products were first seen.
func TopSellingProducts(items []models.OrderItem, products []models.Product) []ProductSales {
	byID := make(map[int]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var order []int
	qty := map[int]int{}
	for _, item := range items {
		if item.ProductID == 0 {
			continue
		}
		if _, seen := qty[item.ProductID]; !seen {
			order = append(order, item.ProductID)
		}
		n := item.Quantity
		if n == 0 {
			n = 1
		}
		qty[item.ProductID] += n
	}

	ranked := make([]ProductSales, 0, len(order))
	for _, id := range order {
		ps := ProductSales{ProductID: id, ProductName: unknownProduct, Quantity: qty[id], Revenue: decimal.Zero}
		if p, ok := byID[id]; ok {
			ps.ProductName = p.Name
			ps.Revenue = p.Price.Mul(decimal.NewFromInt(int64(ps.Quantity)))
		}
		ranked = append(ranked, ps)
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].Quantity > ranked[j].Quantity })

	return ranked[:min(topN, len(ranked))]
}

// RetentionRate is the share of ordering customers with more than one order in the window.
func RetentionRate(orders []models.Order) float64 {
	counts := map[int]int{}
	for _, o := range orders {
		if o.CustomerID != 0 {
			counts[o.CustomerID]++
		}
	}
	if len(counts) == 0 {
		return 0
	}
	repeat := 0
	for _, n := range counts {
		if n > 1 {
			repeat++
		}
	}
	return float64(repeat) / float64(len(counts)) * 100
}

// SummarizeCustomers only counts known customers as active, so the engagement
// rate stays within 0..100. Orders from unknown customers still rank in TopCustomers.
func SummarizeCustomers(customers []models.Customer, orders []models.Order) *CustomerSummary {
	names := make(map[int]string, len(customers))
	for _, c := range customers {
		names[c.ID] = c.Name
	}

	var order []int
	counts := map[int]int{}
	spend := map[int]decimal.Decimal{}
	for _, o := range orders {
		if o.CustomerID == 0 {
			continue
		}
		if _, seen := counts[o.CustomerID]; !seen {
			order = append(order, o.CustomerID)
		}
		counts[o.CustomerID]++
		spend[o.CustomerID] = spend[o.CustomerID].Add(o.Total)
	}

	s := &CustomerSummary{
		TotalCustomers:       len(customers),
		AverageCustomerSpend: decimal.Zero,
		TopCustomers:         make([]CustomerSpend, 0, len(order)),
	}

	activeSpend := decimal.Zero
	for _, id := range order {
		if _, known := names[id]; known {
			s.ActiveCustomers++
			activeSpend = activeSpend.Add(spend[id])
		}
		s.TopCustomers = append(s.TopCustomers, CustomerSpend{
			CustomerID:   id,
			CustomerName: nameOr(names, id, unknownCustomer),
			TotalSpent:   spend[id],
			OrderCount:   counts[id],
		})
	}
	if s.TotalCustomers > 0 {
		s.EngagementRate = float64(s.ActiveCustomers) / float64(s.TotalCustomers) * 100
	}
	if s.ActiveCustomers > 0 {
		s.AverageCustomerSpend = activeSpend.Div(decimal.NewFromInt(int64(s.ActiveCustomers)))
	}

	sort.SliceStable(s.TopCustomers, func(i, j int) bool {
		return s.TopCustomers[i].TotalSpent.GreaterThan(s.TopCustomers[j].TotalSpent)
	})
	s.TopCustomers = s.TopCustomers[:min(topN, len(s.TopCustomers))]
	return s
}

func nameOr(names map[int]string, id int, placeholder string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return placeholder
}

package handlers_test_suite

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

func TestGetDashboardHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()
	ctx := context.Background()

	north := createBranch(t, r, "North")
	south := createBranch(t, r, "South")
	customer := createCustomer(t, r, "Acme")

	lamp := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")
	desk := mustCreateProduct(t, r, "Desk", "DSK-1", "200")
	invRepo.Create(ctx, models.Inventory{ProductID: lamp.ID, BranchID: north.ID, Quantity: 4})
	invRepo.Create(ctx, models.Inventory{ProductID: desk.ID, BranchID: north.ID, Quantity: 30})
	invRepo.Create(ctx, models.Inventory{ProductID: desk.ID, BranchID: south.ID, Quantity: 6})

	now := time.Now()
	seed := []models.Order{
		{BranchID: north.ID, Total: mustDecimal("100"), Status: models.StatusCompleted, PaymentStatus: true},
		{BranchID: north.ID, Total: mustDecimal("50"), Status: models.StatusPending},
		{BranchID: south.ID, Total: mustDecimal("75"), Status: models.StatusCompleted},
		{BranchID: south.ID, Total: mustDecimal("999"), Status: models.StatusCancelled},
	}
	for i, o := range seed {
		o.CustomerID = customer.ID
		o.OrderDate = now.Add(time.Duration(i-len(seed)) * time.Minute)
		orderRepo.Insert(o)
	}

	w := call(r, http.MethodGet, "/api/analytics/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	dash, err := decode[repo.Dashboard](w)
	if err != nil {
		t.Fatalf("error decoding dashboard: %v", err)
	}

	if !dash.Stats.TotalSales.Equal(mustDecimal("225")) {
		t.Errorf("expected total sales 225 excluding cancelled, got %v", dash.Stats.TotalSales)
	}
	if !dash.Stats.Revenue.Equal(mustDecimal("100")) {
		t.Errorf("expected revenue 100 from completed and paid orders, got %v", dash.Stats.Revenue)
	}
	if dash.Stats.NewCustomers != 1 {
		t.Errorf("expected 1 new customer, got %d", dash.Stats.NewCustomers)
	}
	if dash.Stats.InventoryItems != 40 {
		t.Errorf("expected 40 inventory units, got %d", dash.Stats.InventoryItems)
	}

	if len(dash.BranchPerformance) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(dash.BranchPerformance))
	}
	best := dash.BranchPerformance[0]
	if best.Name != "North" || best.Orders != 2 || best.Percentage != 100 {
		t.Errorf("unexpected best branch %+v", best)
	}
	if dash.BranchPerformance[1].Percentage != 50 {
		t.Errorf("expected South at 50%%, got %v", dash.BranchPerformance[1].Percentage)
	}

	if len(dash.RecentOrders) != 4 {
		t.Fatalf("expected 4 recent orders, got %d", len(dash.RecentOrders))
	}
	if dash.RecentOrders[0].Status != models.StatusCancelled || dash.RecentOrders[0].CustomerName != "Acme" {
		t.Errorf("expected newest order first with customer name, got %+v", dash.RecentOrders[0])
	}

	if len(dash.LowStockItems) != 1 || dash.LowStockItems[0].SKU != "LMP-1" {
		t.Errorf("expected only the lamp to be low on stock, got %+v", dash.LowStockItems)
	}
	if len(dash.RecentActivities) != 4 {
		t.Errorf("expected 4 recent activities, got %d", len(dash.RecentActivities))
	}
}

func TestHealthHandler(t *testing.T) {
	r := router.NewRouter()

	w := callAs(r, "", http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if got := w.Body.String(); got != `{"status":"ok"}` {
		t.Errorf("unexpected body %q", got)
	}
}

package handlers_test_suite

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

// failingItemsOrderRepo stores nothing and fails every order created with items.
type failingItemsOrderRepo struct {
	*repo.InMemoryOrderRepository
}

func (failingItemsOrderRepo) CreateWithItems(context.Context, models.Order, []models.OrderItem) (models.Order, []models.OrderItem, error) {
	return models.Order{}, nil, errors.New("item insert failed")
}

func createOrder(t *testing.T, r http.Handler, req handler.OrderRequest) handler.OrderResponse {
	t.Helper()
	w := call(r, http.MethodPost, "/api/orders", req)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	resp, err := decode[handler.OrderResponse](w)
	if err != nil {
		t.Fatalf("error decoding order: %v", err)
	}
	return resp
}

func TestCreateOrderHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	customer := createCustomer(t, r, "Acme")
	branch := createBranch(t, r, "Downtown")
	product := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")

	order := createOrder(t, r, handler.OrderRequest{
		CustomerID: customer.ID,
		BranchID:   branch.ID,
		Items: []handler.OrderItemRequest{
			{ProductID: product.ID, Quantity: 3, Price: mustDecimal("20")},
			{ProductID: product.ID, Quantity: 1, Price: mustDecimal("5.50")},
		},
	})

	if order.Status != models.StatusPending {
		t.Errorf("expected pending status, got %q", order.Status)
	}
	if order.PaymentStatus {
		t.Error("expected new order to be unpaid")
	}
	if !order.Total.Equal(mustDecimal("65.5")) {
		t.Errorf("expected total computed from items 65.5, got %v", order.Total)
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	for _, item := range order.Items {
		if item.OrderID != order.ID {
			t.Errorf("expected item bound to order %d, got %d", order.ID, item.OrderID)
		}
	}

	w := call(r, http.MethodGet, fmt.Sprintf("/api/orders/%d", order.ID), nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	got, err := decode[handler.OrderResponse](w)
	if err != nil {
		t.Fatalf("error decoding order: %v", err)
	}
	if len(got.Items) != 2 {
		t.Errorf("expected order with 2 items, got %d", len(got.Items))
	}
	if got.Customer == nil || got.Customer.Name != "Acme" {
		t.Errorf("expected order enriched with customer Acme, got %+v", got.Customer)
	}
}

func TestCreateOrderHandler_FailedItemsLeaveNoOrder(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	customer := createCustomer(t, r, "Acme")
	branch := createBranch(t, r, "Downtown")
	product := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")

	handler.SetOrderRepos(failingItemsOrderRepo{orderRepo}, itemRepo)
	t.Cleanup(func() { handler.SetOrderRepos(orderRepo, itemRepo) })

	w := call(r, http.MethodPost, "/api/orders", handler.OrderRequest{
		CustomerID: customer.ID,
		BranchID:   branch.ID,
		Items:      []handler.OrderItemRequest{{ProductID: product.ID, Quantity: 1, Price: mustDecimal("20")}},
	})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}

	orders, _ := orderRepo.ListRecent(context.Background(), 100)
	if len(orders) != 0 {
		t.Errorf("expected no stored order, got %d", len(orders))
	}
	items, _ := itemRepo.ListByOrder(context.Background(), 1)
	if len(items) != 0 {
		t.Errorf("expected no stored item, got %d", len(items))
	}
}

func TestCreateOrderHandler_ExplicitTotalWithoutItems(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	customer := createCustomer(t, r, "Acme")
	branch := createBranch(t, r, "Downtown")

	order := createOrder(t, r, handler.OrderRequest{CustomerID: customer.ID, BranchID: branch.ID, Total: ptr(mustDecimal("12.34"))})
	if !order.Total.Equal(mustDecimal("12.34")) {
		t.Errorf("expected total 12.34, got %v", order.Total)
	}

	empty := createOrder(t, r, handler.OrderRequest{CustomerID: customer.ID, BranchID: branch.ID})
	if !empty.Total.IsZero() {
		t.Errorf("expected zero total, got %v", empty.Total)
	}
}

func TestCreateOrderHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	branch := createBranch(t, r, "Downtown")

	tests := []struct {
		name   string
		req    handler.OrderRequest
		fields []string
	}{
		{"missing references", handler.OrderRequest{}, []string{"customerId", "branchId"}},
		{"unknown customer", handler.OrderRequest{CustomerID: 999, BranchID: branch.ID}, []string{"customerId"}},
		{"bad item", handler.OrderRequest{
			CustomerID: 999,
			BranchID:   branch.ID,
			Items:      []handler.OrderItemRequest{{ProductID: 0, Quantity: 0}},
		}, []string{"items.productId", "items.quantity"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, http.MethodPost, "/api/orders", tt.req)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp, err := decode[handler.ValidationErrors](w)
			if err != nil {
				t.Fatalf("error decoding response: %v", err)
			}
			for _, field := range tt.fields {
				if !hasFieldError(resp, field) {
					t.Errorf("expected error for %q, got %+v", field, resp.Errors)
				}
			}
		})
	}
}

func TestUpdateOrderStatusHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	customer := createCustomer(t, r, "Acme")
	branch := createBranch(t, r, "Downtown")
	order := createOrder(t, r, handler.OrderRequest{CustomerID: customer.ID, BranchID: branch.ID})
	path := fmt.Sprintf("/api/orders/%d/status", order.ID)

	for _, status := range []string{"processing", "completed", "cancelled", "pending"} {
		w := call(r, http.MethodPut, path, handler.OrderStatusRequest{Status: status})
		if w.Code != http.StatusOK {
			t.Fatalf("status %q: expected 200, got %d", status, w.Code)
		}
		updated, err := decode[models.Order](w)
		if err != nil {
			t.Fatalf("error decoding order: %v", err)
		}
		if string(updated.Status) != status {
			t.Errorf("expected status %q, got %q", status, updated.Status)
		}
	}

	activities, _ := actRepo.ListRecent(context.Background(), 1)
	if len(activities) != 1 || activities[0].Activity != "Order status updated to pending" {
		t.Errorf("expected status activity to be logged, got %+v", activities)
	}
	if activities[0].UserID == nil || *activities[0].UserID != adminID {
		t.Errorf("expected activity attributed to admin %d, got %v", adminID, activities[0].UserID)
	}
}

func TestUpdateOrderStatusHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	customer := createCustomer(t, r, "Acme")
	branch := createBranch(t, r, "Downtown")
	order := createOrder(t, r, handler.OrderRequest{CustomerID: customer.ID, BranchID: branch.ID})

	for _, status := range []string{"shipped", "", "Completed"} {
		w := call(r, http.MethodPut, fmt.Sprintf("/api/orders/%d/status", order.ID), handler.OrderStatusRequest{Status: status})
		if w.Code != http.StatusBadRequest {
			t.Errorf("status %q: expected 400, got %d", status, w.Code)
		}
		if w.Body.String() != "invalid status\n" {
			t.Errorf("status %q: unexpected body %q", status, w.Body.String())
		}
	}

	stored, _ := orderRepo.GetByID(context.Background(), order.ID)
	if stored.Status != models.StatusPending {
		t.Errorf("expected order to stay pending, got %q", stored.Status)
	}

	w := call(r, http.MethodPut, "/api/orders/9999/status", handler.OrderStatusRequest{Status: "completed"})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404 for unknown order, got %d", w.Code)
	}
}

func TestListOrdersHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	acme := createCustomer(t, r, "Acme")
	globex := createCustomer(t, r, "Globex")
	branch := createBranch(t, r, "Downtown")

	for i := 0; i < 12; i++ {
		customer := acme
		if i%3 == 0 {
			customer = globex
		}
		createOrder(t, r, handler.OrderRequest{CustomerID: customer.ID, BranchID: branch.ID})
	}

	w := call(r, http.MethodGet, "/api/orders", nil)
	recent, err := decode[[]handler.OrderResponse](w)
	if err != nil {
		t.Fatalf("error decoding orders: %v", err)
	}
	if len(recent) != 10 {
		t.Errorf("expected default limit of 10, got %d", len(recent))
	}
	for i := 1; i < len(recent); i++ {
		if recent[i].OrderDate.After(recent[i-1].OrderDate) {
			t.Errorf("expected newest first at index %d", i)
		}
	}
	for _, o := range recent {
		if o.Customer == nil {
			t.Errorf("order %d missing customer", o.ID)
		}
	}

	w = call(r, http.MethodGet, fmt.Sprintf("/api/orders?customerId=%d", globex.ID), nil)
	byCustomer, err := decode[[]handler.OrderResponse](w)
	if err != nil {
		t.Fatalf("error decoding orders: %v", err)
	}
	if len(byCustomer) != 4 {
		t.Errorf("expected 4 Globex orders, got %d", len(byCustomer))
	}

	w = call(r, http.MethodGet, "/api/orders?limit=-1", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for negative limit, got %d", w.Code)
	}
}

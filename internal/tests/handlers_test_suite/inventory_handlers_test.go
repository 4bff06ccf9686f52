package handlers_test_suite

import (
	"fmt"
	"net/http"
	"testing"

	handler "github.com/rogerio-castellano/bizmanage/internal/http/handlers"
	"github.com/rogerio-castellano/bizmanage/internal/http/router"
	"github.com/rogerio-castellano/bizmanage/internal/models"
)

func createInventory(t *testing.T, r http.Handler, productID, branchID, quantity int) models.Inventory {
	t.Helper()
	w := call(r, http.MethodPost, "/api/inventory", handler.InventoryRequest{
		ProductID: ptr(productID),
		BranchID:  ptr(branchID),
		Quantity:  ptr(quantity),
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201 Created, got %d: %s", w.Code, w.Body.String())
	}
	item, err := decode[models.Inventory](w)
	if err != nil {
		t.Fatalf("error decoding inventory: %v", err)
	}
	return item
}

func TestListInventoryHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	north := createBranch(t, r, "North")
	south := createBranch(t, r, "South")
	lamp := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")
	desk := mustCreateProduct(t, r, "Desk", "DSK-1", "200")

	createInventory(t, r, lamp.ID, north.ID, 3)
	createInventory(t, r, desk.ID, north.ID, 25)
	createInventory(t, r, lamp.ID, south.ID, 12)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"all rows", "", 3},
		{"by branch", fmt.Sprintf("?branchId=%d", north.ID), 2},
		{"low stock default threshold", "?lowStock=true", 1},
		{"low stock custom threshold", "?lowStock=true&threshold=12", 2},
		{"threshold without lowStock", "?threshold=12", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, http.MethodGet, "/api/inventory"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}
			items, err := decode[[]models.Inventory](w)
			if err != nil {
				t.Fatalf("error decoding inventory: %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("expected %d rows, got %d", tt.want, len(items))
			}
		})
	}

	w := call(r, http.MethodGet, "/api/inventory?branchId=north", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed branchId, got %d", w.Code)
	}
}

func TestCreateInventoryHandler_Invalid(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	branch := createBranch(t, r, "North")

	w := call(r, http.MethodPost, "/api/inventory", handler.InventoryRequest{
		ProductID: ptr(9999),
		BranchID:  ptr(branch.ID),
		Quantity:  ptr(-1),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	resp, err := decode[handler.ValidationErrors](w)
	if err != nil {
		t.Fatalf("error decoding response: %v", err)
	}
	for _, field := range []string{"productId", "quantity"} {
		if !hasFieldError(resp, field) {
			t.Errorf("expected error for %q, got %+v", field, resp.Errors)
		}
	}
}

func TestUpdateInventoryHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	branch := createBranch(t, r, "North")
	lamp := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")
	item := createInventory(t, r, lamp.ID, branch.ID, 3)

	w := call(r, http.MethodPut, fmt.Sprintf("/api/inventory/%d", item.ID), handler.InventoryRequest{Quantity: ptr(40)})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}
	updated, _ := decode[models.Inventory](w)
	if updated.Quantity != 40 || updated.ProductID != lamp.ID {
		t.Errorf("unexpected row after update %+v", updated)
	}
	if updated.LastUpdated.Before(item.LastUpdated) {
		t.Error("expected lastUpdated to move forward")
	}

	w = call(r, http.MethodPut, "/api/inventory/9999", handler.InventoryRequest{Quantity: ptr(1)})
	if w.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", w.Code)
	}
}

func TestAdjustQuantityHandler(t *testing.T) {
	t.Cleanup(clearAll)
	r := router.NewRouter()

	branch := createBranch(t, r, "North")
	lamp := mustCreateProduct(t, r, "Lamp", "LMP-1", "20")
	item := createInventory(t, r, lamp.ID, branch.ID, 5)
	path := fmt.Sprintf("/api/inventory/%d/adjust", item.ID)

	tests := []struct {
		name     string
		delta    int
		wantCode int
		wantQty  int
	}{
		{"increase", 10, http.StatusOK, 15},
		{"decrease", -7, http.StatusOK, 8},
		{"below zero", -9, http.StatusConflict, 8},
		{"zero delta", 0, http.StatusBadRequest, 8},
		{"down to zero", -8, http.StatusOK, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(r, http.MethodPost, path, handler.QuantityAdjustmentRequest{Delta: tt.delta})
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			stored, err := invRepo.GetByID(t.Context(), item.ID)
			if err != nil {
				t.Fatalf("error reading inventory: %v", err)
			}
			if stored.Quantity != tt.wantQty {
				t.Errorf("expected quantity %d, got %d", tt.wantQty, stored.Quantity)
			}
		})
	}
}

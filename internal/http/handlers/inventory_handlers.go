package handlers

import (
	"errors"
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
)

// defaultLowStockThreshold applies to ?lowStock=true without a threshold.
const defaultLowStockThreshold = 10

// ListInventoryHandler godoc
// @Summary List inventory rows
// @Tags inventory
// @Produce json
// @Security BearerAuth
// @Param branchId query int false "Only rows of this branch"
// @Param lowStock query bool false "Only rows at or below threshold"
// @Param threshold query int false "Low stock threshold (default 10)"
// @Success 200 {array} models.Inventory
// @Failure 400 {string} string "Invalid query"
// @Router /api/inventory [get]
func ListInventoryHandler(w http.ResponseWriter, r *http.Request) {
	branchID, ok := queryInt(r, "branchId")
	if !ok {
		http.Error(w, "invalid branchId", http.StatusBadRequest)
		return
	}
	threshold, ok := queryInt(r, "threshold")
	if !ok {
		http.Error(w, "invalid threshold", http.StatusBadRequest)
		return
	}

	var (
		items []models.Inventory
		err   error
	)
	switch {
	case branchID != nil:
		items, err = inventoryRepo.ListByBranch(r.Context(), *branchID)
	case r.URL.Query().Get("lowStock") == "true":
		limit := defaultLowStockThreshold
		if threshold != nil {
			limit = *threshold
		}
		items, err = inventoryRepo.ListLowStock(r.Context(), limit)
	default:
		items, err = inventoryRepo.List(r.Context())
	}
	if err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	respond(w, http.StatusOK, items)
}

// checkReferences adds validation errors for a product or branch that does not exist.
func checkReferences(r *http.Request, v *validator, productID, branchID *int) error {
	if productID != nil && *productID > 0 {
		if _, err := productRepo.GetByID(r.Context(), *productID); errors.Is(err, repo.ErrNotFound) {
			v.add("productId", "product does not exist")
		} else if err != nil {
			return err
		}
	}
	if branchID != nil && *branchID > 0 {
		if _, err := branchRepo.GetByID(r.Context(), *branchID); errors.Is(err, repo.ErrNotFound) {
			v.add("branchId", "branch does not exist")
		} else if err != nil {
			return err
		}
	}
	return nil
}

// CreateInventoryHandler godoc
// @Summary Create an inventory row
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param item body InventoryRequest true "Stock of a product at a branch"
// @Success 201 {object} models.Inventory
// @Failure 400 {object} ValidationErrors
// @Router /api/inventory [post]
func CreateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	var req InventoryRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	v := validateInventory(req, true)
	if err := checkReferences(r, v, req.ProductID, req.BranchID); err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	if v.failed(w) {
		return
	}

	created, err := inventoryRepo.Create(r.Context(), models.Inventory{
		ProductID: *req.ProductID,
		BranchID:  *req.BranchID,
		Quantity:  *req.Quantity,
	})
	if err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	recordActivity(r, "Inventory created", "inventory", created.ID)
	respond(w, http.StatusCreated, created)
}

// UpdateInventoryHandler godoc
// @Summary Update an inventory row
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inventory ID"
// @Param item body InventoryRequest true "Fields to change"
// @Success 200 {object} models.Inventory
// @Failure 400 {object} ValidationErrors
// @Failure 404 {string} string "Not found"
// @Router /api/inventory/{id} [put]
func UpdateInventoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid inventory ID", http.StatusBadRequest)
		return
	}
	var req InventoryRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	v := validateInventory(req, false)
	if err := checkReferences(r, v, req.ProductID, req.BranchID); err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	if v.failed(w) {
		return
	}

	item, err := inventoryRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	if req.ProductID != nil {
		item.ProductID = *req.ProductID
	}
	if req.BranchID != nil {
		item.BranchID = *req.BranchID
	}
	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	updated, err := inventoryRepo.Update(r.Context(), item)
	if err != nil {
		writeStoreError(w, err, "inventory")
		return
	}
	recordActivity(r, "Inventory updated", "inventory", updated.ID)
	respond(w, http.StatusOK, updated)
}

// AdjustQuantityHandler godoc
// @Summary Adjust the quantity of an inventory row
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Inventory ID"
// @Param adjustment body QuantityAdjustmentRequest true "Quantity change"
// @Success 200 {object} models.Inventory
// @Failure 400 {string} string "Invalid adjustment"
// @Failure 404 {string} string "Not found"
// @Failure 409 {string} string "Quantity cannot be negative"
// @Router /api/inventory/{id}/adjust [post]
func AdjustQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid inventory ID", http.StatusBadRequest)
		return
	}

	var req QuantityAdjustmentRequest
	if err := readJSON(w, r, &req); err != nil || req.Delta == 0 {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}

	item, err := inventoryRepo.AdjustQuantity(r.Context(), id, req.Delta)
	if err != nil {
		if errors.Is(err, repo.ErrInvalidQuantityChange) {
			http.Error(w, "quantity cannot be negative", http.StatusConflict)
			return
		}
		writeStoreError(w, err, "inventory")
		return
	}
	recordActivity(r, "Inventory adjusted", "inventory", item.ID)

	if product, err := productRepo.GetByID(r.Context(), item.ProductID); err == nil && item.Quantity <= product.MinStockLevel {
		logger.Warn().
			Int("product_id", product.ID).
			Str("product", product.Name).
			Int("branch_id", item.BranchID).
			Int("quantity", item.Quantity).
			Int("min_stock_level", product.MinStockLevel).
			Msg("product at or below minimum stock level")
	}

	respond(w, http.StatusOK, item)
}

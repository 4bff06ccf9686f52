package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/rogerio-castellano/bizmanage/internal/repo"
	"github.com/shopspring/decimal"
)

// ListOrdersHandler godoc
// @Summary List orders
// @Description Orders of one customer, or the most recent orders. Each order carries its customer.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param customerId query int false "Only orders of this customer"
// @Param limit query int false "Number of recent orders (default 10)"
// @Success 200 {array} OrderResponse
// @Failure 400 {string} string "Invalid query"
// @Router /api/orders [get]
func ListOrdersHandler(w http.ResponseWriter, r *http.Request) {
	customerID, ok := queryInt(r, "customerId")
	if !ok {
		http.Error(w, "invalid customerId", http.StatusBadRequest)
		return
	}
	limit, ok := queryInt(r, "limit")
	if !ok || (limit != nil && *limit <= 0) {
		http.Error(w, "limit must be greater than zero", http.StatusBadRequest)
		return
	}

	var (
		orders []models.Order
		err    error
	)
	if customerID != nil {
		orders, err = orderRepo.ListByCustomer(r.Context(), *customerID)
	} else {
		n := 0
		if limit != nil {
			n = *limit
		}
		orders, err = orderRepo.ListRecent(r.Context(), n)
	}
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}

	customers, err := customerRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	byID := make(map[int]models.Customer, len(customers))
	for _, c := range customers {
		byID[c.ID] = c
	}

	resp := make([]OrderResponse, len(orders))
	for i, o := range orders {
		resp[i] = OrderResponse{Order: o}
		if c, ok := byID[o.CustomerID]; ok {
			resp[i].Customer = &c
		}
	}
	respond(w, http.StatusOK, resp)
}

// GetOrderHandler godoc
// @Summary Get order by ID with its items
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Success 200 {object} OrderResponse
// @Failure 404 {string} string "Not found"
// @Router /api/orders/{id} [get]
func GetOrderHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid order ID", http.StatusBadRequest)
		return
	}
	order, err := orderRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	items, err := orderItemRepo.ListByOrder(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "order item")
		return
	}

	resp := OrderResponse{Order: order, Items: items}
	if c, err := customerRepo.GetByID(r.Context(), order.CustomerID); err == nil {
		resp.Customer = &c
	}
	respond(w, http.StatusOK, resp)
}

// orderTotal is the given total, or the sum of the items when none was sent.
func orderTotal(req OrderRequest) decimal.Decimal {
	if req.Total != nil {
		return *req.Total
	}
	total := decimal.Zero
	for _, item := range req.Items {
		total = total.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// CreateOrderHandler godoc
// @Summary Create an order
// @Description New orders are pending and unpaid. Items, when given, are stored with the order.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param order body OrderRequest true "Order to place"
// @Success 201 {object} OrderResponse
// @Failure 400 {object} ValidationErrors
// @Router /api/orders [post]
func CreateOrderHandler(w http.ResponseWriter, r *http.Request) {
	var req OrderRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	v := validateOrder(req)
	if req.CustomerID > 0 {
		if _, err := customerRepo.GetByID(r.Context(), req.CustomerID); errors.Is(err, repo.ErrNotFound) {
			v.add("customerId", "customer does not exist")
		} else if err != nil {
			writeStoreError(w, err, "customer")
			return
		}
	}
	if err := checkReferences(r, v, nil, &req.BranchID); err != nil {
		writeStoreError(w, err, "branch")
		return
	}
	if v.failed(w) {
		return
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, models.OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price,
		})
	}
	order, stored, err := orderRepo.CreateWithItems(r.Context(), models.Order{
		CustomerID: req.CustomerID,
		BranchID:   req.BranchID,
		Total:      orderTotal(req),
	}, items)
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}

	resp := OrderResponse{Order: order}
	if len(stored) > 0 {
		resp.Items = stored
	}

	recordActivity(r, "Order created", "order", order.ID)
	respond(w, http.StatusCreated, resp)
}

// UpdateOrderStatusHandler godoc
// @Summary Change the status of an order
// @Description Status must be one of pending, processing, completed, cancelled.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Order ID"
// @Param status body OrderStatusRequest true "New status"
// @Success 200 {object} models.Order
// @Failure 400 {string} string "Invalid status"
// @Failure 404 {string} string "Not found"
// @Router /api/orders/{id}/status [put]
func UpdateOrderStatusHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid order ID", http.StatusBadRequest)
		return
	}
	var req OrderStatusRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	status, ok := models.ParseOrderStatus(req.Status)
	if !ok {
		http.Error(w, "invalid status", http.StatusBadRequest)
		return
	}

	order, err := orderRepo.UpdateStatus(r.Context(), id, status)
	if err != nil {
		writeStoreError(w, err, "order")
		return
	}
	recordActivity(r, fmt.Sprintf("Order status updated to %s", status), "order", order.ID)
	respond(w, http.StatusOK, order)
}

package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

func applyCustomer(c *models.Customer, req CustomerRequest) {
	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Email != nil {
		c.Email = *req.Email
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Address != nil {
		c.Address = *req.Address
	}
	if req.LoyaltyPoints != nil {
		c.LoyaltyPoints = *req.LoyaltyPoints
	}
}

// ListCustomersHandler godoc
// @Summary List customers
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Customer
// @Router /api/customers [get]
func ListCustomersHandler(w http.ResponseWriter, r *http.Request) {
	customers, err := customerRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	respond(w, http.StatusOK, customers)
}

// GetCustomerHandler godoc
// @Summary Get customer by ID
// @Tags customers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 200 {object} models.Customer
// @Failure 404 {string} string "Not found"
// @Router /api/customers/{id} [get]
func GetCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	customer, err := customerRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	respond(w, http.StatusOK, customer)
}

// CreateCustomerHandler godoc
// @Summary Create a customer
// @Description Loyalty points start at zero and the registration date is set by the server.
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param customer body CustomerRequest true "Customer to add"
// @Success 201 {object} models.Customer
// @Failure 400 {object} ValidationErrors
// @Router /api/customers [post]
func CreateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateCustomer(req, true).failed(w) {
		return
	}

	var customer models.Customer
	applyCustomer(&customer, req)
	created, err := customerRepo.Create(r.Context(), customer)
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	recordActivity(r, "Customer created", "customer", created.ID)
	respond(w, http.StatusCreated, created)
}

// UpdateCustomerHandler godoc
// @Summary Update a customer
// @Tags customers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Param customer body CustomerRequest true "Fields to change"
// @Success 200 {object} models.Customer
// @Failure 400 {object} ValidationErrors
// @Failure 404 {string} string "Not found"
// @Router /api/customers/{id} [put]
func UpdateCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	var req CustomerRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateCustomer(req, false).failed(w) {
		return
	}

	customer, err := customerRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	applyCustomer(&customer, req)
	updated, err := customerRepo.Update(r.Context(), customer)
	if err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	recordActivity(r, "Customer updated", "customer", updated.ID)
	respond(w, http.StatusOK, updated)
}

// DeleteCustomerHandler godoc
// @Summary Delete a customer
// @Tags customers
// @Security BearerAuth
// @Param id path int true "Customer ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {string} string "Not found"
// @Router /api/customers/{id} [delete]
func DeleteCustomerHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid customer ID", http.StatusBadRequest)
		return
	}
	if err := customerRepo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "customer")
		return
	}
	recordActivity(r, "Customer deleted", "customer", id)
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

func applySupplier(s *models.Supplier, req SupplierRequest) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&s.Name, req.Name)
	set(&s.ContactName, req.ContactName)
	set(&s.Email, req.Email)
	set(&s.PhoneNumber, req.PhoneNumber)
	set(&s.Address, req.Address)
	set(&s.TaxID, req.TaxID)
	set(&s.Notes, req.Notes)
	if req.Active != nil {
		s.Active = *req.Active
	}
}

// ListSuppliersHandler godoc
// @Summary List suppliers
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Supplier
// @Router /api/suppliers [get]
func ListSuppliersHandler(w http.ResponseWriter, r *http.Request) {
	suppliers, err := supplierRepo.List(r.Context())
	if err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	respond(w, http.StatusOK, suppliers)
}

// GetSupplierHandler godoc
// @Summary Get supplier by ID
// @Tags suppliers
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 200 {object} models.Supplier
// @Failure 404 {string} string "Not found"
// @Router /api/suppliers/{id} [get]
func GetSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	supplier, err := supplierRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	respond(w, http.StatusOK, supplier)
}

// CreateSupplierHandler godoc
// @Summary Create a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supplier body SupplierRequest true "Supplier to add"
// @Success 201 {object} models.Supplier
// @Failure 400 {object} ValidationErrors
// @Failure 409 {string} string "Name taken"
// @Router /api/suppliers [post]
func CreateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateSupplier(req, true).failed(w) {
		return
	}

	supplier := models.Supplier{Active: true}
	applySupplier(&supplier, req)
	created, err := supplierRepo.Create(r.Context(), supplier)
	if err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	recordActivity(r, "Supplier created", "supplier", created.ID)
	respond(w, http.StatusCreated, created)
}

// UpdateSupplierHandler godoc
// @Summary Update a supplier
// @Tags suppliers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Param supplier body SupplierRequest true "Fields to change"
// @Success 200 {object} models.Supplier
// @Failure 400 {object} ValidationErrors
// @Failure 404 {string} string "Not found"
// @Router /api/suppliers/{id} [put]
func UpdateSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	var req SupplierRequest
	if err := readJSON(w, r, &req); err != nil {
		http.Error(w, "invalid input", http.StatusBadRequest)
		return
	}
	if validateSupplier(req, false).failed(w) {
		return
	}

	supplier, err := supplierRepo.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	applySupplier(&supplier, req)
	updated, err := supplierRepo.Update(r.Context(), supplier)
	if err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	recordActivity(r, "Supplier updated", "supplier", updated.ID)
	respond(w, http.StatusOK, updated)
}

// DeleteSupplierHandler godoc
// @Summary Delete a supplier
// @Tags suppliers
// @Security BearerAuth
// @Param id path int true "Supplier ID"
// @Success 204 "Deleted successfully"
// @Failure 404 {string} string "Not found"
// @Router /api/suppliers/{id} [delete]
func DeleteSupplierHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		http.Error(w, "invalid supplier ID", http.StatusBadRequest)
		return
	}
	if err := supplierRepo.Delete(r.Context(), id); err != nil {
		writeStoreError(w, err, "supplier")
		return
	}
	recordActivity(r, "Supplier deleted", "supplier", id)
	w.WriteHeader(http.StatusNoContent)
}

package handlers

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

type validator struct {
	errs []ValidationError
}

func (v *validator) add(field, description string) {
	v.errs = append(v.errs, ValidationError{Field: field, Description: description})
}

// required checks a field that must be present on create and non-blank whenever given.
func (v *validator) required(field string, value *string, creating bool) {
	if value == nil {
		if creating {
			v.add(field, field+" is required")
		}
		return
	}
	if strings.TrimSpace(*value) == "" {
		v.add(field, field+" is required")
	}
}

func (v *validator) email(field string, value *string) {
	if value == nil || *value == "" {
		return
	}
	if _, err := mail.ParseAddress(*value); err != nil {
		v.add(field, field+" must be a valid email address")
	}
}

func (v *validator) positiveID(field string, value *int, creating bool) {
	if value == nil {
		if creating {
			v.add(field, field+" is required")
		}
		return
	}
	if *value <= 0 {
		v.add(field, field+" must be a positive id")
	}
}

func (v *validator) nonNegative(field string, value *int) {
	if value != nil && *value < 0 {
		v.add(field, field+" cannot be negative")
	}
}

// failed writes a 400 with the collected errors and reports whether there were any.
func (v *validator) failed(w http.ResponseWriter) bool {
	if len(v.errs) == 0 {
		return false
	}
	respond(w, http.StatusBadRequest, ValidationErrors{Errors: v.errs})
	return true
}

func validateRegister(req RegisterRequest) *validator {
	v := &validator{}
	if len(strings.TrimSpace(req.Username)) < 3 {
		v.add("username", "username must be at least 3 characters")
	}
	if len(req.Password) < 6 {
		v.add("password", "password must be at least 6 characters")
	}
	v.required("fullName", &req.FullName, true)
	v.required("email", &req.Email, true)
	v.email("email", &req.Email)
	return v
}

func validateProfile(req ProfileRequest) *validator {
	v := &validator{}
	v.required("fullName", req.FullName, false)
	v.email("email", req.Email)
	if req.Password != nil && len(*req.Password) < 6 {
		v.add("password", "password must be at least 6 characters")
	}
	return v
}

func validateUserUpdate(req UserUpdateRequest) *validator {
	v := &validator{}
	v.required("fullName", req.FullName, false)
	v.email("email", req.Email)
	if req.Role != nil && !models.ValidRole(*req.Role) {
		v.add("role", "role must be one of user, manager, admin")
	}
	return v
}

func validateBranch(req BranchRequest, creating bool) *validator {
	v := &validator{}
	v.required("name", req.Name, creating)
	v.required("address", req.Address, creating)
	return v
}

func validateCategory(req CategoryRequest) *validator {
	v := &validator{}
	v.required("name", &req.Name, true)
	return v
}

func validateProduct(req ProductRequest, creating bool) *validator {
	v := &validator{}
	v.required("name", req.Name, creating)
	v.required("sku", req.SKU, creating)
	if req.Price == nil {
		if creating {
			v.add("price", "price is required")
		}
	} else if !req.Price.IsPositive() {
		v.add("price", "price must be greater than zero")
	}
	v.positiveID("categoryId", req.CategoryID, creating)
	v.nonNegative("minStockLevel", req.MinStockLevel)
	return v
}

func validateInventory(req InventoryRequest, creating bool) *validator {
	v := &validator{}
	v.positiveID("productId", req.ProductID, creating)
	v.positiveID("branchId", req.BranchID, creating)
	if req.Quantity == nil && creating {
		v.add("quantity", "quantity is required")
	}
	v.nonNegative("quantity", req.Quantity)
	return v
}

func validateCustomer(req CustomerRequest, creating bool) *validator {
	v := &validator{}
	v.required("name", req.Name, creating)
	v.email("email", req.Email)
	v.nonNegative("loyaltyPoints", req.LoyaltyPoints)
	return v
}

func validateSupplier(req SupplierRequest, creating bool) *validator {
	v := &validator{}
	v.required("name", req.Name, creating)
	v.email("email", req.Email)
	return v
}

func validateOrder(req OrderRequest) *validator {
	v := &validator{}
	if req.CustomerID <= 0 {
		v.add("customerId", "customerId must be a positive id")
	}
	if req.BranchID <= 0 {
		v.add("branchId", "branchId must be a positive id")
	}
	if req.Total != nil && req.Total.IsNegative() {
		v.add("total", "total cannot be negative")
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 {
			v.add("items.productId", "productId must be a positive id")
		}
		if item.Quantity <= 0 {
			v.add("items.quantity", "quantity must be greater than zero")
		}
		if item.Price.IsNegative() {
			v.add("items.price", "price cannot be negative")
		}
	}
	return v
}

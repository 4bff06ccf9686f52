package handlers

import (
	"github.com/rogerio-castellano/bizmanage/internal/models"
	"github.com/shopspring/decimal"
)

type CredentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	BranchID *int   `json:"branchId,omitempty"`
}

type LoginResult struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

type RegisterResult struct {
	Message      string      `json:"message"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         models.User `json:"user"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type ProfileRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

type UserUpdateRequest struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *string `json:"role,omitempty"`
	BranchID *int    `json:"branchId,omitempty"`
	Active   *bool   `json:"active,omitempty"`
}

type BranchRequest struct {
	Name        *string `json:"name,omitempty"`
	Address     *string `json:"address,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Manager     *string `json:"manager,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type ProductRequest struct {
	Name          *string          `json:"name,omitempty"`
	SKU           *string          `json:"sku,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	CategoryID    *int             `json:"categoryId,omitempty"`
	InStock       *bool            `json:"inStock,omitempty"`
	MinStockLevel *int             `json:"minStockLevel,omitempty"`
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []models.Product `json:"data"`
	Meta Meta             `json:"meta,omitempty"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}

type InventoryRequest struct {
	ProductID *int `json:"productId,omitempty"`
	BranchID  *int `json:"branchId,omitempty"`
	Quantity  *int `json:"quantity,omitempty"`
}

type QuantityAdjustmentRequest struct {
	Delta int `json:"delta"` // can be positive or negative
}

type CustomerRequest struct {
	Name          *string `json:"name,omitempty"`
	Email         *string `json:"email,omitempty"`
	PhoneNumber   *string `json:"phoneNumber,omitempty"`
	Address       *string `json:"address,omitempty"`
	LoyaltyPoints *int    `json:"loyaltyPoints,omitempty"`
}

type SupplierRequest struct {
	Name        *string `json:"name,omitempty"`
	ContactName *string `json:"contactName,omitempty"`
	Email       *string `json:"email,omitempty"`
	PhoneNumber *string `json:"phoneNumber,omitempty"`
	Address     *string `json:"address,omitempty"`
	TaxID       *string `json:"taxId,omitempty"`
	Notes       *string `json:"notes,omitempty"`
	Active      *bool   `json:"active,omitempty"`
}

type OrderItemRequest struct {
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

type OrderRequest struct {
	CustomerID int                `json:"customerId"`
	BranchID   int                `json:"branchId"`
	Total      *decimal.Decimal   `json:"total,omitempty"`
	Items      []OrderItemRequest `json:"items,omitempty"`
}

type OrderStatusRequest struct {
	Status string `json:"status"`
}

type OrderResponse struct {
	models.Order
	Customer *models.Customer  `json:"customer,omitempty"`
	Items    []models.OrderItem `json:"items,omitempty"`
}

type ActivityResponse struct {
	models.ActivityLog
	User *models.User `json:"user"`
}

type ActivitiesSearchResult struct {
	Data []ActivityResponse `json:"data"`
	Meta Meta               `json:"meta,omitempty"`
}

type HealthResult struct {
	Status string `json:"status"`
}

package models

import "github.com/shopspring/decimal"

func init() {
	// Money travels as JSON numbers, matching what API clients send.
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultMinStockLevel is applied to products created without an explicit minimum.
const DefaultMinStockLevel = 10

// Product represents a catalog entry. Stock counts live in Inventory rows, one per branch.
type Product struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	SKU           string          `json:"sku"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    int             `json:"categoryId"`
	InStock       bool            `json:"inStock"`
	MinStockLevel int             `json:"minStockLevel"`
}

type ProductCategory struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

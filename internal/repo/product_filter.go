package repo

import "github.com/shopspring/decimal"

type ProductFilter struct {
	Name       string
	CategoryID *int
	MinPrice   *decimal.Decimal
	MaxPrice   *decimal.Decimal
	Offset     *int
	Limit      *int
}

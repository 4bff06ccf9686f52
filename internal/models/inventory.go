package models

import "time"

// Inventory is the stock count of one product at one branch.
type Inventory struct {
	ID          int       `json:"id"`
	ProductID   int       `json:"productId"`
	BranchID    int       `json:"branchId"`
	Quantity    int       `json:"quantity"`
	LastUpdated time.Time `json:"lastUpdated"`
}

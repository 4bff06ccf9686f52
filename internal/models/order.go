package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of an order. Transitions are not enforced:
// any of the four values may replace any other.
type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusCancelled  OrderStatus = "cancelled"
)

// ParseOrderStatus accepts exactly the four known literals.
func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch st := OrderStatus(s); st {
	case StatusPending, StatusProcessing, StatusCompleted, StatusCancelled:
		return st, true
	}
	return "", false
}

// Terminal reports whether no further transition is expected from s.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type Order struct {
	ID            int             `json:"id"`
	CustomerID    int             `json:"customerId"`
	BranchID      int             `json:"branchId"`
	OrderDate     time.Time       `json:"orderDate"`
	Total         decimal.Decimal `json:"total"`
	Status        OrderStatus     `json:"status"`
	PaymentStatus bool            `json:"paymentStatus"`
}

// OrderItem is a line of an order; Price is the unit price at the time of sale.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"orderId"`
	ProductID int             `json:"productId"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

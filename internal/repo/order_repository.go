package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type OrderRepository interface {
	GetByID(ctx context.Context, id int) (models.Order, error)
	// Create stores a new order as pending and unpaid, dated now.
	Create(ctx context.Context, o models.Order) (models.Order, error)
	// CreateWithItems stores o like Create together with its items. Either all
	// rows are stored or none are.
	CreateWithItems(ctx context.Context, o models.Order, items []models.OrderItem) (models.Order, []models.OrderItem, error)
	UpdateStatus(ctx context.Context, id int, status models.OrderStatus) (models.Order, error)
	ListByCustomer(ctx context.Context, customerID int) ([]models.Order, error)
	// ListRecent returns up to limit orders, newest first. limit <= 0 means 10.
	ListRecent(ctx context.Context, limit int) ([]models.Order, error)
}

type OrderItemRepository interface {
	GetByID(ctx context.Context, id int) (models.OrderItem, error)
	Create(ctx context.Context, item models.OrderItem) (models.OrderItem, error)
	ListByOrder(ctx context.Context, orderID int) ([]models.OrderItem, error)
}

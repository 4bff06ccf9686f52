package repo

import (
	"context"
	"sort"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryOrderRepository struct {
	orders *table[models.Order]
	items  *InMemoryOrderItemRepository
	now    func() time.Time
}

func NewInMemoryOrderRepository() *InMemoryOrderRepository {
	return &InMemoryOrderRepository{
		orders: newTable[models.Order](),
		items:  NewInMemoryOrderItemRepository(),
		now:    time.Now,
	}
}

// Items is the item repository CreateWithItems writes to.
func (r *InMemoryOrderRepository) Items() *InMemoryOrderItemRepository {
	return r.items
}

func (r *InMemoryOrderRepository) GetByID(_ context.Context, id int) (models.Order, error) {
	return r.orders.get(id)
}

func (r *InMemoryOrderRepository) Create(_ context.Context, o models.Order) (models.Order, error) {
	return r.orders.insert(nil, func(id int) models.Order {
		o.ID = id
		o.Status = models.StatusPending
		o.PaymentStatus = false
		o.OrderDate = r.now()
		return o
	})
}

func (r *InMemoryOrderRepository) CreateWithItems(ctx context.Context, o models.Order, items []models.OrderItem) (models.Order, []models.OrderItem, error) {
	order, err := r.Create(ctx, o)
	if err != nil {
		return models.Order{}, nil, err
	}
	stored := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		item.OrderID = order.ID
		created, err := r.items.Create(ctx, item)
		if err != nil {
			_ = r.orders.delete(order.ID)
			for _, c := range stored {
				_ = r.items.items.delete(c.ID)
			}
			return models.Order{}, nil, err
		}
		stored = append(stored, created)
	}
	return order, stored, nil
}

// Insert stores o as given, keeping its date, status and payment flag.
// It is used to seed fixtures.
func (r *InMemoryOrderRepository) Insert(o models.Order) models.Order {
	stored, _ := r.orders.insert(nil, func(id int) models.Order {
		o.ID = id
		return o
	})
	return stored
}

func (r *InMemoryOrderRepository) UpdateStatus(_ context.Context, id int, status models.OrderStatus) (models.Order, error) {
	return r.orders.modify(id, func(o models.Order) (models.Order, error) {
		o.Status = status
		return o, nil
	})
}

func (r *InMemoryOrderRepository) ListByCustomer(_ context.Context, customerID int) ([]models.Order, error) {
	return r.orders.list(func(o models.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *InMemoryOrderRepository) ListRecent(_ context.Context, limit int) ([]models.Order, error) {
	orders := r.orders.list(nil)
	sort.SliceStable(orders, func(i, j int) bool {
		if orders[i].OrderDate.Equal(orders[j].OrderDate) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].OrderDate.After(orders[j].OrderDate)
	})
	return orders[:min(recentLimit(limit), len(orders))], nil
}

func (r *InMemoryOrderRepository) Clear() {
	r.orders.clear()
}

type InMemoryOrderItemRepository struct {
	items *table[models.OrderItem]
}

func NewInMemoryOrderItemRepository() *InMemoryOrderItemRepository {
	return &InMemoryOrderItemRepository{items: newTable[models.OrderItem]()}
}

func (r *InMemoryOrderItemRepository) GetByID(_ context.Context, id int) (models.OrderItem, error) {
	return r.items.get(id)
}

func (r *InMemoryOrderItemRepository) Create(_ context.Context, item models.OrderItem) (models.OrderItem, error) {
	return r.items.insert(nil, func(id int) models.OrderItem {
		item.ID = id
		return item
	})
}

func (r *InMemoryOrderItemRepository) ListByOrder(_ context.Context, orderID int) ([]models.OrderItem, error) {
	return r.items.list(func(i models.OrderItem) bool { return i.OrderID == orderID }), nil
}

func (r *InMemoryOrderItemRepository) Clear() {
	r.items.clear()
}

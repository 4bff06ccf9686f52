package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryInventoryRepository struct {
	items *table[models.Inventory]
	now   func() time.Time
}

func NewInMemoryInventoryRepository() *InMemoryInventoryRepository {
	return &InMemoryInventoryRepository{items: newTable[models.Inventory](), now: time.Now}
}

func (r *InMemoryInventoryRepository) GetByID(_ context.Context, id int) (models.Inventory, error) {
	return r.items.get(id)
}

func (r *InMemoryInventoryRepository) Create(_ context.Context, item models.Inventory) (models.Inventory, error) {
	return r.items.insert(nil, func(id int) models.Inventory {
		item.ID = id
		item.LastUpdated = r.now()
		return item
	})
}

func (r *InMemoryInventoryRepository) Update(_ context.Context, item models.Inventory) (models.Inventory, error) {
	item.LastUpdated = r.now()
	return r.items.replace(item.ID, item, nil)
}

func (r *InMemoryInventoryRepository) AdjustQuantity(_ context.Context, id int, delta int) (models.Inventory, error) {
	return r.items.modify(id, func(item models.Inventory) (models.Inventory, error) {
		if item.Quantity+delta < 0 {
			return item, ErrInvalidQuantityChange
		}
		item.Quantity += delta
		item.LastUpdated = r.now()
		return item, nil
	})
}

func (r *InMemoryInventoryRepository) List(_ context.Context) ([]models.Inventory, error) {
	return r.items.list(nil), nil
}

func (r *InMemoryInventoryRepository) ListByBranch(_ context.Context, branchID int) ([]models.Inventory, error) {
	return r.items.list(func(i models.Inventory) bool { return i.BranchID == branchID }), nil
}

func (r *InMemoryInventoryRepository) ListLowStock(_ context.Context, threshold int) ([]models.Inventory, error) {
	return r.items.list(func(i models.Inventory) bool { return i.Quantity <= threshold }), nil
}

func (r *InMemoryInventoryRepository) Clear() {
	r.items.clear()
}

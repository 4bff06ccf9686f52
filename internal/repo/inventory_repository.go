package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InventoryRepository interface {
	GetByID(ctx context.Context, id int) (models.Inventory, error)
	Create(ctx context.Context, item models.Inventory) (models.Inventory, error)
	Update(ctx context.Context, item models.Inventory) (models.Inventory, error)
	// AdjustQuantity adds delta to the stored quantity, refusing to go below zero.
	AdjustQuantity(ctx context.Context, id int, delta int) (models.Inventory, error)
	List(ctx context.Context) ([]models.Inventory, error)
	ListByBranch(ctx context.Context, branchID int) ([]models.Inventory, error)
	// ListLowStock returns rows whose quantity is at or below threshold.
	ListLowStock(ctx context.Context, threshold int) ([]models.Inventory, error)
}

package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type SupplierRepository interface {
	GetByID(ctx context.Context, id int) (models.Supplier, error)
	GetByName(ctx context.Context, name string) (models.Supplier, error)
	Create(ctx context.Context, s models.Supplier) (models.Supplier, error)
	Update(ctx context.Context, s models.Supplier) (models.Supplier, error)
	List(ctx context.Context) ([]models.Supplier, error)
	Delete(ctx context.Context, id int) error
}

package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

// ProductRepository defines the interface for product data operations.
type ProductRepository interface {
	Create(ctx context.Context, product models.Product) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
	GetByID(ctx context.Context, id int) (models.Product, error)
	GetBySKU(ctx context.Context, sku string) (models.Product, error)
	Update(ctx context.Context, product models.Product) (models.Product, error)
	Delete(ctx context.Context, id int) error
	Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error)
}

package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type CategoryRepository interface {
	GetByID(ctx context.Context, id int) (models.ProductCategory, error)
	Create(ctx context.Context, c models.ProductCategory) (models.ProductCategory, error)
	List(ctx context.Context) ([]models.ProductCategory, error)
}

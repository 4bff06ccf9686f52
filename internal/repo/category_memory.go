package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryCategoryRepository struct {
	categories *table[models.ProductCategory]
}

func NewInMemoryCategoryRepository() *InMemoryCategoryRepository {
	return &InMemoryCategoryRepository{categories: newTable[models.ProductCategory]()}
}

func (r *InMemoryCategoryRepository) GetByID(_ context.Context, id int) (models.ProductCategory, error) {
	return r.categories.get(id)
}

func (r *InMemoryCategoryRepository) Create(_ context.Context, c models.ProductCategory) (models.ProductCategory, error) {
	conflict := func(other models.ProductCategory) bool { return other.Name == c.Name }
	return r.categories.insert(conflict, func(id int) models.ProductCategory {
		c.ID = id
		return c
	})
}

func (r *InMemoryCategoryRepository) List(_ context.Context) ([]models.ProductCategory, error) {
	return r.categories.list(nil), nil
}

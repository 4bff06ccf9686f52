package repo

import (
	"context"
	"strings"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	products *table[models.Product]
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{products: newTable[models.Product]()}
}

func sameSKU(sku string) func(models.Product) bool {
	return func(p models.Product) bool { return p.SKU == sku }
}

func matchesFilter(p models.Product, pf ProductFilter) bool {
	if pf.Name != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(pf.Name)) {
		return false
	}
	if pf.CategoryID != nil && p.CategoryID != *pf.CategoryID {
		return false
	}
	if pf.MinPrice != nil && p.Price.LessThan(*pf.MinPrice) {
		return false
	}
	if pf.MaxPrice != nil && p.Price.GreaterThan(*pf.MaxPrice) {
		return false
	}
	return true
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	filtered := r.products.list(func(p models.Product) bool { return matchesFilter(p, pf) })

	// If offset is greater than the number of filtered products, return empty slice
	if pf.Offset != nil && *pf.Offset > len(filtered) {
		return []models.Product{}, len(filtered), nil
	}

	start := 0
	if pf.Offset != nil {
		start = clamp(*pf.Offset, 0, len(filtered))
	}

	end := len(filtered)
	if pf.Limit != nil && *pf.Limit > 0 {
		end = clamp(start+*pf.Limit, start, len(filtered))
	}

	return filtered[start:end], len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	return r.products.insert(sameSKU(product.SKU), func(id int) models.Product {
		product.ID = id
		product.InStock = true
		return product
	})
}

// List retrieves all products from the repository.
func (r *InMemoryProductRepository) List(_ context.Context) ([]models.Product, error) {
	return r.products.list(nil), nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	return r.products.get(id)
}

func (r *InMemoryProductRepository) GetBySKU(_ context.Context, sku string) (models.Product, error) {
	return r.products.find(sameSKU(sku))
}

// Update modifies an existing product in the repository.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	return r.products.replace(product.ID, product, sameSKU(product.SKU))
}

// Delete removes a product from the repository by its ID.
func (r *InMemoryProductRepository) Delete(_ context.Context, id int) error {
	return r.products.delete(id)
}

func (r *InMemoryProductRepository) Clear() {
	r.products.clear()
}

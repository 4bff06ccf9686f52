package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemorySupplierRepository struct {
	suppliers *table[models.Supplier]
}

func NewInMemorySupplierRepository() *InMemorySupplierRepository {
	return &InMemorySupplierRepository{suppliers: newTable[models.Supplier]()}
}

func sameSupplierName(name string) func(models.Supplier) bool {
	return func(s models.Supplier) bool { return s.Name == name }
}

func (r *InMemorySupplierRepository) GetByID(_ context.Context, id int) (models.Supplier, error) {
	return r.suppliers.get(id)
}

func (r *InMemorySupplierRepository) GetByName(_ context.Context, name string) (models.Supplier, error) {
	return r.suppliers.find(sameSupplierName(name))
}

func (r *InMemorySupplierRepository) Create(_ context.Context, s models.Supplier) (models.Supplier, error) {
	return r.suppliers.insert(sameSupplierName(s.Name), func(id int) models.Supplier {
		s.ID = id
		s.Active = true
		return s
	})
}

func (r *InMemorySupplierRepository) Update(_ context.Context, s models.Supplier) (models.Supplier, error) {
	return r.suppliers.replace(s.ID, s, sameSupplierName(s.Name))
}

func (r *InMemorySupplierRepository) List(_ context.Context) ([]models.Supplier, error) {
	return r.suppliers.list(nil), nil
}

func (r *InMemorySupplierRepository) Delete(_ context.Context, id int) error {
	return r.suppliers.delete(id)
}

func (r *InMemorySupplierRepository) Clear() {
	r.suppliers.clear()
}

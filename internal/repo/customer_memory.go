package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryCustomerRepository struct {
	customers *table[models.Customer]
}

func NewInMemoryCustomerRepository() *InMemoryCustomerRepository {
	return &InMemoryCustomerRepository{customers: newTable[models.Customer]()}
}

func sameCustomerEmail(email string) func(models.Customer) bool {
	if email == "" {
		return nil
	}
	return func(c models.Customer) bool { return c.Email == email }
}

func (r *InMemoryCustomerRepository) GetByID(_ context.Context, id int) (models.Customer, error) {
	return r.customers.get(id)
}

func (r *InMemoryCustomerRepository) Create(_ context.Context, c models.Customer) (models.Customer, error) {
	return r.customers.insert(sameCustomerEmail(c.Email), func(id int) models.Customer {
		c.ID = id
		c.LoyaltyPoints = 0
		c.RegisteredDate = time.Now()
		return c
	})
}

func (r *InMemoryCustomerRepository) Update(_ context.Context, c models.Customer) (models.Customer, error) {
	return r.customers.replace(c.ID, c, sameCustomerEmail(c.Email))
}

func (r *InMemoryCustomerRepository) List(_ context.Context) ([]models.Customer, error) {
	return r.customers.list(nil), nil
}

func (r *InMemoryCustomerRepository) Delete(_ context.Context, id int) error {
	return r.customers.delete(id)
}

func (r *InMemoryCustomerRepository) Clear() {
	r.customers.clear()
}

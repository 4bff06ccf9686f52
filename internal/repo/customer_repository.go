package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type CustomerRepository interface {
	GetByID(ctx context.Context, id int) (models.Customer, error)
	Create(ctx context.Context, c models.Customer) (models.Customer, error)
	Update(ctx context.Context, c models.Customer) (models.Customer, error)
	List(ctx context.Context) ([]models.Customer, error)
	Delete(ctx context.Context, id int) error
}

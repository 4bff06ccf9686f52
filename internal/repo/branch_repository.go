package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type BranchRepository interface {
	GetByID(ctx context.Context, id int) (models.Branch, error)
	GetByName(ctx context.Context, name string) (models.Branch, error)
	Create(ctx context.Context, b models.Branch) (models.Branch, error)
	Update(ctx context.Context, b models.Branch) (models.Branch, error)
	List(ctx context.Context) ([]models.Branch, error)
	Delete(ctx context.Context, id int) error
}

package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type UserRepository interface {
	GetByID(ctx context.Context, id int) (models.User, error)
	GetByUsername(ctx context.Context, username string) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
	Update(ctx context.Context, u models.User) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Delete(ctx context.Context, id int) error
}

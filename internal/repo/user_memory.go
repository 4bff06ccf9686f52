package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryUserRepository struct {
	users *table[models.User]
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{users: newTable[models.User]()}
}

func sameUserIdentity(u models.User) func(models.User) bool {
	return func(other models.User) bool {
		return other.Username == u.Username || (u.Email != "" && other.Email == u.Email)
	}
}

func (r *InMemoryUserRepository) GetByID(_ context.Context, id int) (models.User, error) {
	return r.users.get(id)
}

func (r *InMemoryUserRepository) GetByUsername(_ context.Context, username string) (models.User, error) {
	return r.users.find(func(u models.User) bool { return u.Username == username })
}

func (r *InMemoryUserRepository) CreateUser(_ context.Context, u models.User) (models.User, error) {
	return r.users.insert(sameUserIdentity(u), func(id int) models.User {
		u.ID = id
		u.Active = true
		if u.Role == "" {
			u.Role = models.RoleUser
		}
		return u
	})
}

func (r *InMemoryUserRepository) Update(_ context.Context, u models.User) (models.User, error) {
	return r.users.replace(u.ID, u, sameUserIdentity(u))
}

func (r *InMemoryUserRepository) List(_ context.Context) ([]models.User, error) {
	return r.users.list(nil), nil
}

func (r *InMemoryUserRepository) Delete(_ context.Context, id int) error {
	return r.users.delete(id)
}

package repo

import (
	"context"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type InMemoryBranchRepository struct {
	branches *table[models.Branch]
}

func NewInMemoryBranchRepository() *InMemoryBranchRepository {
	return &InMemoryBranchRepository{branches: newTable[models.Branch]()}
}

func sameBranchName(name string) func(models.Branch) bool {
	return func(b models.Branch) bool { return b.Name == name }
}

func (r *InMemoryBranchRepository) GetByID(_ context.Context, id int) (models.Branch, error) {
	return r.branches.get(id)
}

func (r *InMemoryBranchRepository) GetByName(_ context.Context, name string) (models.Branch, error) {
	return r.branches.find(sameBranchName(name))
}

func (r *InMemoryBranchRepository) Create(_ context.Context, b models.Branch) (models.Branch, error) {
	return r.branches.insert(sameBranchName(b.Name), func(id int) models.Branch {
		b.ID = id
		b.Active = true
		return b
	})
}

func (r *InMemoryBranchRepository) Update(_ context.Context, b models.Branch) (models.Branch, error) {
	return r.branches.replace(b.ID, b, sameBranchName(b.Name))
}

func (r *InMemoryBranchRepository) List(_ context.Context) ([]models.Branch, error) {
	return r.branches.list(nil), nil
}

func (r *InMemoryBranchRepository) Delete(_ context.Context, id int) error {
	return r.branches.delete(id)
}

func (r *InMemoryBranchRepository) Clear() {
	r.branches.clear()
}

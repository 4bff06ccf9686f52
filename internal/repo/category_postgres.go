package repo

import (
	"context"
	"database/sql"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresCategoryRepository struct {
	db *sql.DB
}

func NewPostgresCategoryRepository(db *sql.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func scanCategory(s rowScanner) (models.ProductCategory, error) {
	var c models.ProductCategory
	err := s.Scan(&c.ID, &c.Name, &c.Description)
	return c, err
}

func (r *PostgresCategoryRepository) GetByID(ctx context.Context, id int) (models.ProductCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c, err := scanCategory(r.db.QueryRowContext(ctx, `SELECT id, name, description FROM product_categories WHERE id = $1`, id))
	return c, translate(err)
}

func (r *PostgresCategoryRepository) Create(ctx context.Context, c models.ProductCategory) (models.ProductCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, `INSERT INTO product_categories (name, description) VALUES ($1, $2) RETURNING id`,
		c.Name, c.Description).Scan(&c.ID)
	return c, translate(err)
}

func (r *PostgresCategoryRepository) List(ctx context.Context) ([]models.ProductCategory, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT id, name, description FROM product_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCategory)
}

package repo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresProductRepository struct {
	db *sql.DB
}

func NewPostgresProductRepository(db *sql.DB) *PostgresProductRepository {
	return &PostgresProductRepository{db: db}
}

const productColumns = `id, name, sku, description, price, category_id, in_stock, min_stock_level`

func scanProduct(s rowScanner) (models.Product, error) {
	var p models.Product
	err := s.Scan(&p.ID, &p.Name, &p.SKU, &p.Description, &p.Price, &p.CategoryID, &p.InStock, &p.MinStockLevel)
	return p, err
}

func (r *PostgresProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	p.InStock = true
	query := `INSERT INTO products (name, sku, description, price, category_id, in_stock, min_stock_level)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, p.Name, p.SKU, p.Description, p.Price, p.CategoryID, p.InStock, p.MinStockLevel).Scan(&p.ID)
	return p, translate(err)
}

func (r *PostgresProductRepository) List(ctx context.Context) ([]models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanProduct)
}

func (r *PostgresProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	return p, translate(err)
}

func (r *PostgresProductRepository) GetBySKU(ctx context.Context, sku string) (models.Product, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p, err := scanProduct(r.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE sku = $1`, sku))
	return p, translate(err)
}

func (r *PostgresProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	query := `UPDATE products SET name = $1, sku = $2, description = $3, price = $4, category_id = $5, in_stock = $6, min_stock_level = $7
		WHERE id = $8`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, p.Name, p.SKU, p.Description, p.Price, p.CategoryID, p.InStock, p.MinStockLevel, p.ID)
	if err := expectOne(res, err); err != nil {
		return models.Product{}, err
	}
	return p, nil
}

func (r *PostgresProductRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	return expectOne(res, err)
}

func (r *PostgresProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args, argIdx := filterConditions(pf)

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var totalCount int
	countQuery := "SELECT COUNT(*) FROM products WHERE 1=1" + conditions
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + " ORDER BY id"

	if pf.Limit != nil && *pf.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argIdx)
		args = append(args, *pf.Limit)
		argIdx++
	}
	if pf.Offset != nil && *pf.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argIdx)
		args = append(args, *pf.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	products, err := collect(rows, scanProduct)
	return products, totalCount, err
}

func filterConditions(pf ProductFilter) (string, []any, int) {
	query := ""
	argIdx := 1
	args := []any{}

	if pf.Name != "" {
		query += fmt.Sprintf(" AND name ILIKE $%d", argIdx)
		args = append(args, "%"+pf.Name+"%")
		argIdx++
	}
	if pf.CategoryID != nil {
		query += fmt.Sprintf(" AND category_id = $%d", argIdx)
		args = append(args, *pf.CategoryID)
		argIdx++
	}
	if pf.MinPrice != nil {
		query += fmt.Sprintf(" AND price >= $%d", argIdx)
		args = append(args, *pf.MinPrice)
		argIdx++
	}
	if pf.MaxPrice != nil {
		query += fmt.Sprintf(" AND price <= $%d", argIdx)
		args = append(args, *pf.MaxPrice)
		argIdx++
	}

	return query, args, argIdx
}

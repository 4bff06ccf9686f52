package repo

import (
	"context"
	"database/sql"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresBranchRepository struct {
	db *sql.DB
}

func NewPostgresBranchRepository(db *sql.DB) *PostgresBranchRepository {
	return &PostgresBranchRepository{db: db}
}

const branchColumns = `id, name, address, phone_number, manager, active`

func scanBranch(s rowScanner) (models.Branch, error) {
	var b models.Branch
	err := s.Scan(&b.ID, &b.Name, &b.Address, &b.PhoneNumber, &b.Manager, &b.Active)
	return b, err
}

func (r *PostgresBranchRepository) GetByID(ctx context.Context, id int) (models.Branch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	b, err := scanBranch(r.db.QueryRowContext(ctx, `SELECT `+branchColumns+` FROM branches WHERE id = $1`, id))
	return b, translate(err)
}

func (r *PostgresBranchRepository) GetByName(ctx context.Context, name string) (models.Branch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	b, err := scanBranch(r.db.QueryRowContext(ctx, `SELECT `+branchColumns+` FROM branches WHERE name = $1`, name))
	return b, translate(err)
}

func (r *PostgresBranchRepository) Create(ctx context.Context, b models.Branch) (models.Branch, error) {
	b.Active = true
	query := `INSERT INTO branches (name, address, phone_number, manager, active) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, b.Name, b.Address, b.PhoneNumber, b.Manager, b.Active).Scan(&b.ID)
	return b, translate(err)
}

func (r *PostgresBranchRepository) Update(ctx context.Context, b models.Branch) (models.Branch, error) {
	query := `UPDATE branches SET name = $1, address = $2, phone_number = $3, manager = $4, active = $5 WHERE id = $6`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, b.Name, b.Address, b.PhoneNumber, b.Manager, b.Active, b.ID)
	if err := expectOne(res, err); err != nil {
		return models.Branch{}, err
	}
	return b, nil
}

func (r *PostgresBranchRepository) List(ctx context.Context) ([]models.Branch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+branchColumns+` FROM branches ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanBranch)
}

func (r *PostgresBranchRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM branches WHERE id = $1`, id)
	return expectOne(res, err)
}

package repo

import (
	"context"
	"database/sql"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresSupplierRepository struct {
	db *sql.DB
}

func NewPostgresSupplierRepository(db *sql.DB) *PostgresSupplierRepository {
	return &PostgresSupplierRepository{db: db}
}

const supplierColumns = `id, name, contact_name, email, phone_number, address, tax_id, notes, active`

func scanSupplier(s rowScanner) (models.Supplier, error) {
	var sp models.Supplier
	err := s.Scan(&sp.ID, &sp.Name, &sp.ContactName, &sp.Email, &sp.PhoneNumber, &sp.Address, &sp.TaxID, &sp.Notes, &sp.Active)
	return sp, err
}

func (r *PostgresSupplierRepository) GetByID(ctx context.Context, id int) (models.Supplier, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	s, err := scanSupplier(r.db.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE id = $1`, id))
	return s, translate(err)
}

func (r *PostgresSupplierRepository) GetByName(ctx context.Context, name string) (models.Supplier, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	s, err := scanSupplier(r.db.QueryRowContext(ctx, `SELECT `+supplierColumns+` FROM suppliers WHERE name = $1`, name))
	return s, translate(err)
}

func (r *PostgresSupplierRepository) Create(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	s.Active = true
	query := `INSERT INTO suppliers (name, contact_name, email, phone_number, address, tax_id, notes, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, s.Name, s.ContactName, s.Email, s.PhoneNumber, s.Address, s.TaxID, s.Notes, s.Active).Scan(&s.ID)
	return s, translate(err)
}

func (r *PostgresSupplierRepository) Update(ctx context.Context, s models.Supplier) (models.Supplier, error) {
	query := `UPDATE suppliers SET name = $1, contact_name = $2, email = $3, phone_number = $4, address = $5, tax_id = $6, notes = $7, active = $8
		WHERE id = $9`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, s.Name, s.ContactName, s.Email, s.PhoneNumber, s.Address, s.TaxID, s.Notes, s.Active, s.ID)
	if err := expectOne(res, err); err != nil {
		return models.Supplier{}, err
	}
	return s, nil
}

func (r *PostgresSupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanSupplier)
}

func (r *PostgresSupplierRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM suppliers WHERE id = $1`, id)
	return expectOne(res, err)
}

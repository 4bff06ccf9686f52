package repo

import (
	"context"
	"database/sql"
	"time"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresCustomerRepository struct {
	db *sql.DB
}

func NewPostgresCustomerRepository(db *sql.DB) *PostgresCustomerRepository {
	return &PostgresCustomerRepository{db: db}
}

const customerColumns = `id, name, email, phone_number, address, loyalty_points, registered_date`

func scanCustomer(s rowScanner) (models.Customer, error) {
	var c models.Customer
	err := s.Scan(&c.ID, &c.Name, &c.Email, &c.PhoneNumber, &c.Address, &c.LoyaltyPoints, &c.RegisteredDate)
	return c, err
}

func (r *PostgresCustomerRepository) GetByID(ctx context.Context, id int) (models.Customer, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c, err := scanCustomer(r.db.QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	return c, translate(err)
}

func (r *PostgresCustomerRepository) Create(ctx context.Context, c models.Customer) (models.Customer, error) {
	c.LoyaltyPoints = 0
	c.RegisteredDate = time.Now().UTC()
	query := `INSERT INTO customers (name, email, phone_number, address, loyalty_points, registered_date)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.PhoneNumber, c.Address, c.LoyaltyPoints, c.RegisteredDate).Scan(&c.ID)
	return c, translate(err)
}

func (r *PostgresCustomerRepository) Update(ctx context.Context, c models.Customer) (models.Customer, error) {
	query := `UPDATE customers SET name = $1, email = $2, phone_number = $3, address = $4, loyalty_points = $5 WHERE id = $6
		RETURNING registered_date`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, c.Name, c.Email, c.PhoneNumber, c.Address, c.LoyaltyPoints, c.ID).Scan(&c.RegisteredDate)
	if err != nil {
		return models.Customer{}, translate(err)
	}
	return c, nil
}

func (r *PostgresCustomerRepository) List(ctx context.Context) ([]models.Customer, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+customerColumns+` FROM customers ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanCustomer)
}

func (r *PostgresCustomerRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	return expectOne(res, err)
}

package repo

import (
	"context"
	"database/sql"

	"github.com/rogerio-castellano/bizmanage/internal/models"
)

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, username, password_hash, full_name, email, role, branch_id, active`

func scanUser(s rowScanner) (models.User, error) {
	var u models.User
	var branchID sql.NullInt64
	err := s.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FullName, &u.Email, &u.Role, &branchID, &u.Active)
	u.BranchID = intPtr(branchID)
	return u, err
}

func (r *PostgresUserRepository) GetByID(ctx context.Context, id int) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	return u, translate(err)
}

func (r *PostgresUserRepository) GetByUsername(ctx context.Context, username string) (models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	return u, translate(err)
}

func (r *PostgresUserRepository) CreateUser(ctx context.Context, u models.User) (models.User, error) {
	if u.Role == "" {
		u.Role = models.RoleUser
	}
	u.Active = true
	query := `INSERT INTO users (username, password_hash, full_name, email, role, branch_id, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := r.db.QueryRowContext(ctx, query, u.Username, u.PasswordHash, u.FullName, u.Email, u.Role, nullInt(u.BranchID), u.Active).Scan(&u.ID)
	return u, translate(err)
}

func (r *PostgresUserRepository) Update(ctx context.Context, u models.User) (models.User, error) {
	query := `UPDATE users SET username = $1, password_hash = $2, full_name = $3, email = $4, role = $5, branch_id = $6, active = $7
		WHERE id = $8`
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, u.Username, u.PasswordHash, u.FullName, u.Email, u.Role, nullInt(u.BranchID), u.Active, u.ID)
	if err := expectOne(res, err); err != nil {
		return models.User{}, err
	}
	return u, nil
}

func (r *PostgresUserRepository) List(ctx context.Context) ([]models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanUser)
}

func (r *PostgresUserRepository) Delete(ctx context.Context, id int) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	return expectOne(res, err)
}

package postgres

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
	"github.com/aussiebroadwan/nominate/internal/nominate/store"
)

type adminsRepo struct {
	db *sql.DB
}

func (r *adminsRepo) CreateAdmin(ctx context.Context, a domain.Admin) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admins (username, password_hash, created_at) VALUES ($1, $2, $3)`,
		a.Username, a.PasswordHash, a.CreatedAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var a domain.Admin
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM admins WHERE username = $1`, username,
	).Scan(&a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	return a, nil
}

func (r *adminsRepo) UpdateAdminPasswordHash(ctx context.Context, username, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = $1 WHERE username = $2`, hash, username,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err != nil {
		return err
	} else if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

package sqlite

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
		`INSERT INTO admins (username, password_hash, created_at) VALUES (?, ?, ?)`,
		a.Username, a.PasswordHash, toMillis(a.CreatedAt),
	)
	return mapConstraint(err)
}

func (r *adminsRepo) GetAdminByUsername(ctx context.Context, username string) (domain.Admin, error) {
	var (
		a         domain.Admin
		createdAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT username, password_hash, created_at FROM admins WHERE username = ?`, username,
	).Scan(&a.Username, &a.PasswordHash, &createdAt)
	if err != nil {
		return domain.Admin{}, mapNotFound(err)
	}
	a.CreatedAt = fromMillis(createdAt)
	return a, nil
}

func (r *adminsRepo) UpdateAdminPasswordHash(ctx context.Context, username, hash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE admins SET password_hash = ? WHERE username = ?`, hash, username,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

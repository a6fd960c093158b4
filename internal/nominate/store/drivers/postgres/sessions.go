package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/aussiebroadwan/nominate/internal/nominate/domain"
)

type sessionsRepo struct {
	db *sql.DB
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.AdminSession) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admin_sessions (id, token_hash, username, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		s.ID, s.TokenHash, s.Username, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.AdminSession, error) {
	var s domain.AdminSession
	err := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, username, created_at, expires_at
		FROM admin_sessions WHERE token_hash = $1`, hash,
	).Scan(&s.ID, &s.TokenHash, &s.Username, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return domain.AdminSession{}, mapNotFound(err)
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.ExpiresAt = s.ExpiresAt.UTC()
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = $1`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

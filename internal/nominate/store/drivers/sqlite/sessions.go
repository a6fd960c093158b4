package sqlite

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
		VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.TokenHash, s.Username, toMillis(s.CreatedAt), toMillis(s.ExpiresAt),
	)
	return mapConstraint(err)
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.AdminSession, error) {
	var (
		s                    domain.AdminSession
		createdAt, expiresAt int64
	)
	err := r.db.QueryRowContext(ctx, `
		SELECT id, token_hash, username, created_at, expires_at
		FROM admin_sessions WHERE token_hash = ?`, hash,
	).Scan(&s.ID, &s.TokenHash, &s.Username, &createdAt, &expiresAt)
	if err != nil {
		return domain.AdminSession{}, mapNotFound(err)
	}
	s.CreatedAt = fromMillis(createdAt)
	s.ExpiresAt = fromMillis(expiresAt)
	return s, nil
}

func (r *sessionsRepo) DeleteSession(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE id = ?`, id)
	return err
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM admin_sessions WHERE expires_at <= ?`, toMillis(now))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

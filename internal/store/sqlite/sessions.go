package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/store"
)

// sessionColumns must match the scan order in scanSession.
const sessionColumns = `id, user_id, refresh_token_hash, expires_at, created_at, last_seen_at,
	ip_address, user_agent`

func scanSession(scanner interface{ Scan(dest ...any) error }) (*domain.Session, error) {
	var (
		s          domain.Session
		expiresAt  string
		createdAt  string
		lastSeenAt string
		ipAddress  sql.NullString
		userAgent  sql.NullString
	)

	err := scanner.Scan(
		&s.ID,
		&s.UserID,
		&s.RefreshTokenHash,
		&expiresAt,
		&createdAt,
		&lastSeenAt,
		&ipAddress,
		&userAgent,
	)
	if err != nil {
		return nil, err
	}

	if s.ExpiresAt, err = parseTime(expiresAt); err != nil {
		return nil, err
	}
	if s.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if s.LastSeenAt, err = parseTime(lastSeenAt); err != nil {
		return nil, err
	}
	s.IPAddress = ipAddress.String
	s.UserAgent = userAgent.String

	return &s, nil
}

// CreateSession inserts a new session.
func (q *queries) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO sessions (`+sessionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.UserID,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.CreatedAt),
		formatTime(session.LastSeenAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists.WithMessage("session already exists").WithCause(err)
	}
	if isForeignKeyViolation(err) {
		return store.ErrUserNotFound.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (q *queries) GetSession(ctx context.Context, id string) (*domain.Session, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)

	s, err := scanSession(row)
	if isNoRows(err) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	return s, nil
}

// GetSessionByRefreshToken retrieves a session by its hashed refresh token.
func (q *queries) GetSessionByRefreshToken(ctx context.Context, tokenHash string) (*domain.Session, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE refresh_token_hash = ?`, tokenHash)

	s, err := scanSession(row)
	if isNoRows(err) {
		return nil, store.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session by token: %w", err)
	}
	return s, nil
}

// UpdateSession stores a rotated token, new expiry, and last-seen data.
func (q *queries) UpdateSession(ctx context.Context, session *domain.Session) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE sessions SET
			refresh_token_hash = ?,
			expires_at = ?,
			last_seen_at = ?,
			ip_address = ?,
			user_agent = ?
		WHERE id = ?`,
		session.RefreshTokenHash,
		formatTime(session.ExpiresAt),
		formatTime(session.LastSeenAt),
		nullString(session.IPAddress),
		nullString(session.UserAgent),
		session.ID,
	)
	if err != nil {
		return fmt.Errorf("update session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

// DeleteSession removes a session.
func (q *queries) DeleteSession(ctx context.Context, id string) error {
	result, err := q.q.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrSessionNotFound
	}
	return nil
}

// DeleteUserSessions removes every session of a user.
func (q *queries) DeleteUserSessions(ctx context.Context, userID string) error {
	if _, err := q.q.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes sessions that expired before now.
func (q *queries) DeleteExpiredSessions(ctx context.Context, now time.Time) (int, error) {
	result, err := q.q.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at < ?`, formatTime(now))
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

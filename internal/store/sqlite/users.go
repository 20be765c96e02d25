package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopfront/shopfront-server/internal/domain"
	"github.com/shopfront/shopfront-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, created_at, updated_at, deleted_at, email,
	password_hash, display_name, role, last_login_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u           domain.User
		createdAt   string
		updatedAt   string
		deletedAt   sql.NullString
		role        string
		lastLoginAt sql.NullString
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&updatedAt,
		&deletedAt,
		&u.Email,
		&u.PasswordHash,
		&u.DisplayName,
		&role,
		&lastLoginAt,
	)
	if err != nil {
		return nil, err
	}

	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if u.DeletedAt, err = parseNullableTime(deletedAt); err != nil {
		return nil, err
	}
	if u.LastLoginAt, err = parseNullableTime(lastLoginAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)

	return &u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CreateUser inserts a new user.
// Returns store.ErrEmailExists if an active account already uses the email.
func (q *queries) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := q.q.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, updated_at, deleted_at, email, email_lower,
			password_hash, display_name, role, last_login_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		nullTimeString(user.DeletedAt),
		user.Email,
		normalizeEmail(user.Email),
		user.PasswordHash,
		user.DisplayName,
		string(user.Role),
		nullTimeString(user.LastLoginAt),
	)
	if isUniqueViolation(err) {
		return store.ErrEmailExists.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetUser retrieves an active user by ID.
func (q *queries) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND deleted_at IS NULL`, id)

	u, err := scanUser(row)
	if isNoRows(err) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// GetUserByEmail retrieves an active user by case-insensitive email.
func (q *queries) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := q.q.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ? AND deleted_at IS NULL`,
		normalizeEmail(email))

	u, err := scanUser(row)
	if isNoRows(err) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return u, nil
}

// UpdateUser overwrites the mutable fields of an active user.
func (q *queries) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := q.q.ExecContext(ctx, `
		UPDATE users SET
			updated_at = ?,
			email = ?,
			email_lower = ?,
			password_hash = ?,
			display_name = ?,
			role = ?,
			last_login_at = ?
		WHERE id = ? AND deleted_at IS NULL`,
		formatTime(user.UpdatedAt),
		user.Email,
		normalizeEmail(user.Email),
		user.PasswordHash,
		user.DisplayName,
		string(user.Role),
		nullTimeString(user.LastLoginAt),
		user.ID,
	)
	if isUniqueViolation(err) {
		return store.ErrEmailExists.WithCause(err)
	}
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

// DeleteUser soft-deletes a user. The email becomes free for a new account.
func (q *queries) DeleteUser(ctx context.Context, id string) error {
	now := formatTime(time.Now())
	result, err := q.q.ExecContext(ctx,
		`UPDATE users SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		now, now, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrUserNotFound
	}
	return nil
}

package domain

import "time"

// Role represents the user's permission level.
type Role string

const (
	// RoleAdmin may manage the catalog.
	RoleAdmin Role = "admin"
	// RoleCustomer may browse and shop.
	RoleCustomer Role = "customer"
)

// User is a registered account. Every cart belongs to exactly one user.
type User struct {
	Entity
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	DisplayName  string     `json:"display_name"`
	Role         Role       `json:"role"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	DeletedAt    *time.Time `json:"deleted_at,omitempty"`
}

// IsAdmin reports whether the user may manage the catalog.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsDeleted reports whether the account has been closed.
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// Name returns the display name, falling back to the email address.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Email
}

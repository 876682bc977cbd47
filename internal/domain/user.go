// Package domain contains the core business entities and domain logic for the ReadStack catalog server.
package domain

import "time"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants full administrative access.
	RoleAdmin Role = "admin"
	// RoleLibrarian grants library management access.
	RoleLibrarian Role = "librarian"
	// RoleMember grants standard user access.
	RoleMember Role = "member"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleLibrarian, RoleMember:
		return true
	}
	return false
}

// Capabilities defines action-level permissions for bookshelf resources.
// These are capability strings granted per user, independent of resource
// ownership: absence of a capability yields a denial, never a silent filter.
type Capabilities struct {
	CanView   bool `json:"can_view"`
	CanCreate bool `json:"can_create"`
	CanEdit   bool `json:"can_edit"`
	CanDelete bool `json:"can_delete"`
}

// DefaultCapabilities returns the capabilities granted to new members.
// Members can browse the shelf; mutation capabilities are granted by an admin.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		CanView: true,
	}
}

// AllCapabilities returns the full capability set, used for admins and seeds.
func AllCapabilities() Capabilities {
	return Capabilities{
		CanView:   true,
		CanCreate: true,
		CanEdit:   true,
		CanDelete: true,
	}
}

// User represents an authenticated user account in the system.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	DisplayName  string       `json:"display_name"`
	Bio          string       `json:"bio,omitempty"`
	Role         Role         `json:"role"`
	IsRoot       bool         `json:"is_root"`
	Capabilities Capabilities `json:"capabilities"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin returns true if the user has administrative privileges.
// Root users are automatically admins, regardless of their role field.
func (u *User) IsAdmin() bool {
	return u.IsRoot || u.Role == RoleAdmin
}

// HasRole reports whether the user's role exactly matches the required role.
// Role-gated pages require an exact match; an admin is not a librarian.
func (u *User) HasRole(role Role) bool {
	return u.Role == role
}

// Session represents a refresh-token session for a user.
type Session struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	RefreshTokenHash string    `json:"-"`
	ExpiresAt        time.Time `json:"expires_at"`
	CreatedAt        time.Time `json:"created_at"`
	LastUsedAt       time.Time `json:"last_used_at"`
}

// Expired reports whether the session's refresh token has expired.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}

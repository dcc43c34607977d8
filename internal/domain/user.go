package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the access level of an admin-panel user.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

func (r Role) String() string { return string(r) }

// User is an admin-panel account. PasswordHash is a bcrypt hash and never
// leaves the service layer.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin reports whether the user may manage other users and destructive
// admin operations.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

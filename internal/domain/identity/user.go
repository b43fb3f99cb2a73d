package identity

import (
	"github.com/lodge/backend/internal/domain/shared"
)

// UserRole represents the access level of a staff account
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleStaff UserRole = "staff"
)

// IsValid checks if the role is a valid UserRole
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of UserRole
func (r UserRole) String() string {
	return string(r)
}

// User is a staff account that can sign in to the system
type User struct {
	shared.BaseEntity
	Username     string
	PasswordHash string
	Role         UserRole
	IsActive     bool
}

// NewUser creates a new active user. passwordHash must already be a bcrypt
// hash; the domain never sees plaintext passwords.
func NewUser(username, passwordHash string, role UserRole) (*User, error) {
	if username == "" {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username cannot be empty")
	}
	if passwordHash == "" {
		return nil, shared.NewDomainError("INVALID_PASSWORD", "Password hash cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Role must be admin or staff")
	}
	return &User{
		BaseEntity:   shared.NewBaseEntity(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
	}, nil
}

// Deactivate disables sign-in for the account
func (u *User) Deactivate() {
	u.IsActive = false
	u.Touch()
}

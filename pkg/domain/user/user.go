// Package user defines user identity, the closed role set, and the actor
// descriptor that every ledger operation authenticates against.
package user

import (
	"strings"
	"time"

	"github.com/amirasaad/banking/pkg/domain/common"
	"github.com/amirasaad/banking/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrUserNotFound is returned when a user cannot be found in the
	// repository.
	ErrUserNotFound = common.NewError(common.KindNotFound, "user not found")
	// ErrUserExists is returned when a username or email is already taken.
	ErrUserExists = common.NewError(common.KindConflict, "user already exists")
	// ErrInvalidRole is returned when a role string is not CUSTOMER or ADMIN.
	ErrInvalidRole = common.NewError(common.KindValidation, "invalid role")
	// ErrUserUnauthorized is returned when an actor accesses a resource
	// they neither own nor administer.
	ErrUserUnauthorized = common.NewError(common.KindAuthorization, "user unauthorized")
	// ErrInvalidCredentials is returned on a failed login. It does not
	// reveal whether the identity or the password was wrong.
	ErrInvalidCredentials = common.NewError(common.KindAuthorization, "invalid credentials")
	// ErrAdminSelfDealing is returned when an admin deposits to, withdraws
	// from, or transfers through their own account.
	ErrAdminSelfDealing = common.NewError(common.KindAuthorization, "admins cannot move money on their own accounts")
	// ErrAdminSelfProvisioning is returned when an account would be created
	// for an admin user.
	ErrAdminSelfProvisioning = common.NewError(common.KindAuthorization, "admins cannot have accounts created for them")
)

// Role is the closed capability tag carried on every actor.
type Role string

const (
	// RoleCustomer is a non-privileged actor.
	RoleCustomer Role = "CUSTOMER"
	// RoleAdmin is a privileged actor.
	RoleAdmin Role = "ADMIN"
)

// ParseRole converts a string into a Role, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleCustomer:
		return RoleCustomer, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", ErrInvalidRole
	}
}

// User represents a registered user in the system.
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Role      Role      `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created"`
}

// New creates a User with a hashed password and the given role.
func New(username, email, password string, role Role) (*User, error) {
	if username == "" {
		return nil, common.NewError(common.KindValidation, "username cannot be empty")
	}
	if !utils.IsEmail(email) {
		return nil, common.NewError(common.KindValidation, "invalid email address")
	}
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:        uuid.New(),
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		Role:      role,
		Active:    true,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Actor is the authenticated-actor descriptor threaded explicitly through
// every core call. It is supplied by the transport layer after token
// verification; the core never consults ambient authentication state.
type Actor struct {
	ID     uuid.UUID
	Role   Role
	Active bool
}

// Actor returns the actor descriptor for the user.
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role, Active: u.Active}
}

// IsPrivileged reports whether the actor carries the admin capability.
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAdmin
}

// Package authz contains pure access-decision functions. It performs no
// I/O; callers load the resources and pass them in.
package authz

import (
	"github.com/amirasaad/banking/pkg/domain/account"
	"github.com/amirasaad/banking/pkg/domain/user"
	"github.com/google/uuid"
)

// IsOwnerOrAdmin reports whether the actor owns the resource or carries the
// admin capability.
func IsOwnerOrAdmin(resourceOwnerID uuid.UUID, actor user.Actor) bool {
	return actor.IsPrivileged() || resourceOwnerID == actor.ID
}

// CanAccessAccount reports whether the actor may read the account: admins
// always, owners only while the account is active.
func CanAccessAccount(a *account.Account, actor user.Actor) bool {
	if a == nil {
		return false
	}
	if actor.IsPrivileged() {
		return true
	}
	return a.OwnerID == actor.ID && a.Active
}

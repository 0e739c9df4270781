// Package userstore persists user accounts. Implementations return the
// shared sentinel errors; the service layer translates them to domain
// errors.
package userstore

import (
	"context"

	"resgate/internal/accounts/models"
	id "resgate/pkg/domain"
)

// Store is the persistence boundary for user accounts.
//
// CreateIfAvailable must be atomic with respect to the email and CPF
// uniqueness checks: two concurrent registrations with the same email must
// resolve to exactly one sentinel.ErrConflict.
type Store interface {
	// CreateIfAvailable inserts the user iff neither the email nor the
	// CPF is taken. Returns sentinel.ErrConflict otherwise.
	CreateIfAvailable(ctx context.Context, user *models.User) error

	// FindByID returns sentinel.ErrNotFound when the user does not exist.
	FindByID(ctx context.Context, userID id.UserID) (*models.User, error)

	// FindByEmail looks a user up by normalized (lowercase) login email.
	// Returns sentinel.ErrNotFound when no account uses it.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// ListByOrganization returns the staff accounts bound to an
	// organization, oldest first.
	ListByOrganization(ctx context.Context, orgID id.OrgID) ([]*models.User, error)
}

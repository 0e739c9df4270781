package orgstore

import (
	"context"

	"resgate/internal/orgs/models"
	id "resgate/pkg/domain"
)

// Store persists organization registrations.
//
// Error contract:
//   - CreateIfCNPJAvailable returns sentinel.ErrConflict when another
//     organization already registered the CNPJ or email
//   - FindByID / FindByCNPJ / FindByEmail return sentinel.ErrNotFound when
//     no organization matches
//   - Execute loads the organization, runs validate and then mutate under
//     the store's lock, persists the result, and returns the updated record;
//     validation errors pass through unchanged
type Store interface {
	CreateIfCNPJAvailable(ctx context.Context, org *models.Organization) error
	FindByID(ctx context.Context, orgID id.OrgID) (*models.Organization, error)
	FindByCNPJ(ctx context.Context, cnpj string) (*models.Organization, error)
	FindByEmail(ctx context.Context, email string) (*models.Organization, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Organization, error)
	Execute(ctx context.Context, orgID id.OrgID,
		validate func(*models.Organization) error,
		mutate func(*models.Organization)) (*models.Organization, error)
}

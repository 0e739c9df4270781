// Package casestore persists Case records. Both implementations guarantee
// the claim invariants atomically: the check that a case is unclaimed and
// the check that the organization is not attending elsewhere happen under
// the same lock (memory) or inside a single conditional statement plus a
// partial unique index (Postgres). Callers never do read-then-write for
// claim state.
package casestore

import (
	"context"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
)

// Store is the persistence contract consumed by the cases service.
// Implementations return pkg/platform/sentinel errors:
//
//	Claim:   ErrNotFound (no such case), ErrInvalidState (case resolved),
//	         ErrConflict (case already claimed), ErrAlreadyUsed
//	         (organization already attending another case)
//	Resolve: ErrNotFound, ErrInvalidState (already resolved by this
//	         claimant), ErrConflict (caller is not the claimant)
type Store interface {
	Insert(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ListOpen(ctx context.Context) ([]*models.Case, error)
	ListByReporter(ctx context.Context, reporterID id.UserID) ([]*models.Case, error)
	ListByClaimant(ctx context.Context, orgID id.OrgID) ([]*models.Case, error)

	// ActiveClaim returns the case the organization is currently attending.
	ActiveClaim(ctx context.Context, orgID id.OrgID) (id.CaseID, bool, error)

	// Claim atomically marks the case as attended by org iff it is open and
	// org holds no other active claim.
	Claim(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error

	// Resolve atomically ends org's claim and marks the case resolved,
	// retaining the claimant for history.
	Resolve(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error
}

package models

import (
	"strings"
	"time"

	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
)

// AgeCategory classifies the reported animal's age.
type AgeCategory string

const (
	AgeFilhote AgeCategory = "Filhote"
	AgeJovem   AgeCategory = "Jovem"
	AgeAdulto  AgeCategory = "Adulto"
	AgeUnknown AgeCategory = "Desconhecida"
)

// ParseAgeCategory validates an age category tag. The empty string maps to
// AgeUnknown because reporters often cannot tell.
func ParseAgeCategory(raw string) (AgeCategory, error) {
	switch AgeCategory(raw) {
	case AgeFilhote, AgeJovem, AgeAdulto, AgeUnknown:
		return AgeCategory(raw), nil
	case "":
		return AgeUnknown, nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown age category %q", raw)
	}
}

// Case is a reported animal incident.
//
// Invariants:
//   - Resolved implies not Claimed (a resolved case is no longer attended)
//   - ClaimantID is non-nil if and only if Claimed is true, except that a
//     resolved case keeps its last ClaimantID for audit history
//   - An organization holds at most one active claim across all cases;
//     stores enforce this atomically (mutex in memory, partial unique index
//     in Postgres)
//
// Lifecycle: reported (unclaimed, unresolved) -> claimed by exactly one
// organization -> resolved by that claimant. Resolved is terminal. There is
// no transition back from claimed to unclaimed; abandoning a case is not a
// supported operation.
type Case struct {
	ID          id.CaseID   `json:"id"`
	Species     string      `json:"species"`
	AgeCategory AgeCategory `json:"age_category"`
	Injured     bool        `json:"injured"`
	Description string      `json:"description,omitempty"`
	Address     string      `json:"address"`
	ReportedAt  time.Time   `json:"reported_at"`
	ReporterID  id.UserID   `json:"reporter_id"`

	Claimed    bool      `json:"claimed"`
	ClaimantID *id.OrgID `json:"claimant_id,omitempty"`
	Resolved   bool      `json:"resolved"`
}

// NewCase constructs an unclaimed, unresolved case from a citizen report.
func NewCase(caseID id.CaseID, reporterID id.UserID, species string, age AgeCategory, injured bool, description, address string, now time.Time) (*Case, error) {
	species = strings.TrimSpace(species)
	address = strings.TrimSpace(address)
	if species == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "species is required")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if reporterID.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "reporter id is required")
	}
	return &Case{
		ID:          caseID,
		Species:     species,
		AgeCategory: age,
		Injured:     injured,
		Description: strings.TrimSpace(description),
		Address:     address,
		ReportedAt:  now,
		ReporterID:  reporterID,
	}, nil
}

// IsOpen reports whether the case can still be claimed.
func (c *Case) IsOpen() bool {
	return !c.Claimed && !c.Resolved
}

// CanClaim checks whether the case accepts a new claim.
func (c *Case) CanClaim() error {
	if c.Resolved {
		return dErrors.New(dErrors.CodeInvariantViolation, "case is already resolved")
	}
	if c.Claimed {
		return dErrors.New(dErrors.CodeInvariantViolation, "case is already being attended")
	}
	return nil
}

// ApplyClaim marks the case as attended by org. Call CanClaim first; stores
// run both under their write lock.
func (c *Case) ApplyClaim(org id.OrgID) {
	c.Claimed = true
	c.ClaimantID = &org
}

// CanResolve checks whether org may resolve the case.
func (c *Case) CanResolve(org id.OrgID) error {
	if c.ClaimantID == nil || *c.ClaimantID != org {
		return dErrors.New(dErrors.CodeForbidden, "only the attending organization can resolve the case")
	}
	if c.Resolved {
		return dErrors.New(dErrors.CodeConflict, "case is already resolved")
	}
	return nil
}

// ApplyResolve ends the claim and marks the case resolved. ClaimantID is
// kept for history.
func (c *Case) ApplyResolve() {
	c.Claimed = false
	c.Resolved = true
}

// IsParticipant reports whether the given actor may read the case
// conversation: the reporting citizen or the claiming organization
// (active or historical).
func (c *Case) IsParticipant(userID id.UserID, orgID id.OrgID) bool {
	if !userID.IsZero() && c.ReporterID == userID {
		return true
	}
	if !orgID.IsZero() && c.ClaimantID != nil && *c.ClaimantID == orgID {
		return true
	}
	return false
}

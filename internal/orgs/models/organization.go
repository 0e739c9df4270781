package models

import (
	"strings"
	"time"

	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/taxid"
)

// ApprovalStatus is the registration review state of an organization.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "pending"
	StatusApproved ApprovalStatus = "approved"
	StatusRejected ApprovalStatus = "rejected"
)

// ParseApprovalStatus validates a status tag.
func ParseApprovalStatus(raw string) (ApprovalStatus, error) {
	switch ApprovalStatus(raw) {
	case StatusPending, StatusApproved, StatusRejected:
		return ApprovalStatus(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown approval status %q", raw)
	}
}

// Organization is a rescue NGO registered on the platform.
//
// Invariants:
//   - CNPJ is unique across organizations and validated with check digits
//   - Status transitions: pending -> approved, pending -> rejected; both
//     decisions are terminal
//   - RejectionReason is set if and only if Status is rejected
//   - Only approved organizations can claim cases or own staff; login is
//     open in any status so a rejected organization can read its reason
type Organization struct {
	ID           id.OrgID  `json:"id"`
	Name         string    `json:"name"`
	CNPJ         string    `json:"cnpj"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address"`
	PasswordHash string    `json:"-"`
	RegisteredAt time.Time `json:"registered_at"`

	Status          ApprovalStatus `json:"status"`
	RejectionReason string         `json:"rejection_reason,omitempty"`
	DecidedAt       *time.Time     `json:"decided_at,omitempty"`

	// DocumentPath is the object-store key of the registration document,
	// namespaced by status ("pending/<cnpj>/<file>"). Empty when the upload
	// failed at registration time.
	DocumentPath string `json:"-"`
}

// NewOrganization constructs a pending registration.
func NewOrganization(orgID id.OrgID, name, cnpj, email, phone, address, passwordHash string, now time.Time) (*Organization, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	address = strings.TrimSpace(address)
	cnpj = taxid.StripNonDigits(cnpj)

	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}
	if !taxid.IsValidCNPJ(cnpj) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cnpj is invalid")
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "email is invalid")
	}
	if address == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "address is required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password hash is required")
	}

	return &Organization{
		ID:           orgID,
		Name:         name,
		CNPJ:         cnpj,
		Email:        email,
		Phone:        strings.TrimSpace(phone),
		Address:      address,
		PasswordHash: passwordHash,
		RegisteredAt: now,
		Status:       StatusPending,
	}, nil
}

// IsApproved reports whether the organization passed review.
func (o *Organization) IsApproved() bool {
	return o.Status == StatusApproved
}

// CanDecide checks whether the registration still awaits review.
func (o *Organization) CanDecide() error {
	if o.Status != StatusPending {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "registration is already %s", o.Status)
	}
	return nil
}

// ApplyApproval marks the registration approved. Call CanDecide first;
// stores run both under their write lock.
func (o *Organization) ApplyApproval(now time.Time) {
	o.Status = StatusApproved
	o.DecidedAt = &now
}

// ApplyRejection marks the registration rejected with the reviewer's reason.
func (o *Organization) ApplyRejection(reason string, now time.Time) {
	o.Status = StatusRejected
	o.RejectionReason = strings.TrimSpace(reason)
	o.DecidedAt = &now
}

// SetDocumentPath records where the registration document currently lives.
func (o *Organization) SetDocumentPath(path string) {
	o.DocumentPath = path
}

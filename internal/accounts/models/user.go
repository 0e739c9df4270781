package models

import (
	"strings"
	"time"

	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/taxid"
)

// User is an authenticated person: a citizen reporting cases, a staff
// member acting for an organization, or an administrator. Organizations
// themselves are not users; they authenticate through their registration
// record in the orgs module.
type User struct {
	ID           id.UserID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	CPF          string    `json:"cpf"`
	Phone        string    `json:"phone,omitempty"`
	Role         Role      `json:"role"`
	OrgID        id.OrgID  `json:"org_id,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewUser validates and normalizes a registration. The CPF is stored as
// bare digits; the email is lowercased so uniqueness checks are
// case-insensitive. passwordHash must already be produced by the
// credential scheme.
func NewUser(role Role, name, email, cpf, phone, passwordHash string, now time.Time) (*User, error) {
	if err := validRegistrable(role); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid role")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "name is required")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "a valid email is required")
	}

	cpf = taxid.StripNonDigits(cpf)
	if !taxid.IsValidCPF(cpf) {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "cpf failed validation")
	}

	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential hash is required")
	}

	return &User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        email,
		CPF:          cpf,
		Phone:        strings.TrimSpace(phone),
		Role:         role,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// NewAdmin builds a seeded administrator account. Admins are provisioned
// from configuration, not self-registered, and carry no CPF.
func NewAdmin(name, email, passwordHash string, now time.Time) (*User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || !strings.Contains(email, "@") {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "admin name and email are required")
	}
	if passwordHash == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "credential hash is required")
	}
	return &User{
		ID:           id.NewUserID(),
		Name:         name,
		Email:        email,
		Role:         RoleAdmin,
		PasswordHash: passwordHash,
		CreatedAt:    now,
	}, nil
}

// BindOrganization attaches a staff member to the organization they work
// for. Only staff carry an organization id.
func (u *User) BindOrganization(orgID id.OrgID) error {
	if u.Role != RoleStaff {
		return dErrors.New(dErrors.CodeInvariantViolation, "only staff belong to an organization")
	}
	if orgID.IsZero() {
		return dErrors.New(dErrors.CodeInvalidInput, "organization ID required")
	}
	u.OrgID = orgID
	return nil
}

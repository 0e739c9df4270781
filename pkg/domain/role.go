package domain

import (
	dErrors "resgate/pkg/domain-errors"
)

// Role is the authenticated actor kind. It is a closed set; anything not
// listed here is rejected at the edge instead of flowing through as a free
// string, and authorization points dispatch on the capability methods
// rather than comparing raw tags.
type Role string

const (
	RoleCitizen      Role = "citizen"
	RoleOrganization Role = "organization"
	RoleAdmin        Role = "admin"
	RoleStaff        Role = "staff"
)

// ParseRole validates a raw role tag.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleCitizen, RoleOrganization, RoleAdmin, RoleStaff:
		return Role(raw), nil
	default:
		return "", dErrors.Newf(dErrors.CodeInvalidInput, "unknown role %q", raw)
	}
}

func (r Role) String() string { return string(r) }

// CanReport reports whether this role may open a new rescue case.
func (r Role) CanReport() bool { return r == RoleCitizen }

// CanAttend reports whether this role acts on behalf of an organization
// when claiming and resolving cases.
func (r Role) CanAttend() bool { return r == RoleOrganization || r == RoleStaff }

// CanReview reports whether this role may decide pending registrations.
func (r Role) CanReview() bool { return r == RoleAdmin }

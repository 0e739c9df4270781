package models

import (
	"fmt"

	id "resgate/pkg/domain"
)

// Role re-exports the domain role set so account code keeps reading
// naturally; the closed set and its capability methods live in pkg/domain
// because authorization points in other modules dispatch on them too.
type Role = id.Role

const (
	RoleCitizen      = id.RoleCitizen
	RoleOrganization = id.RoleOrganization
	RoleAdmin        = id.RoleAdmin
	RoleStaff        = id.RoleStaff
)

// ParseRole validates a raw role tag.
var ParseRole = id.ParseRole

// validRegistrable limits self-service registration: citizens sign
// themselves up and approved organizations register staff. Organizations
// come in through their own registration flow and admins are seeded, never
// registered.
func validRegistrable(r Role) error {
	switch r {
	case RoleCitizen, RoleStaff:
		return nil
	default:
		return fmt.Errorf("role %q cannot be registered directly", r)
	}
}

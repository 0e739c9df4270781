// Package adapters bridges the accounts service ports to the concrete
// orgs module without the two services importing each other's types.
package adapters

import (
	"context"

	"resgate/internal/accounts/service"
	"resgate/internal/orgs"
	id "resgate/pkg/domain"
)

// OrgsDirectory adapts the orgs service to the accounts module's
// OrganizationDirectory port.
type OrgsDirectory struct {
	orgs *orgs.Service
}

func NewOrgsDirectory(svc *orgs.Service) *OrgsDirectory {
	return &OrgsDirectory{orgs: svc}
}

func (a *OrgsDirectory) CheckAccess(ctx context.Context, orgID id.OrgID, action string) error {
	return a.orgs.CheckAccess(ctx, orgID, action)
}

func (a *OrgsDirectory) LoginByEmail(ctx context.Context, email string) (*service.OrgLogin, error) {
	profile, err := a.orgs.LoginProfileByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return &service.OrgLogin{
		OrgID:        profile.OrgID,
		Name:         profile.Name,
		PasswordHash: profile.PasswordHash,
		Approved:     profile.Approved,
	}, nil
}

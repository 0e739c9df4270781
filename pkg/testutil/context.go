package testutil

import (
	"net/http"

	id "resgate/pkg/domain"
	"resgate/pkg/requestcontext"
)

// AsCitizen simulates the auth middleware for a citizen request.
func AsCitizen(req *http.Request, userID id.UserID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, id.RoleCitizen)
	return req.WithContext(ctx)
}

// AsOrganization simulates the auth middleware for an organization request.
func AsOrganization(req *http.Request, orgID id.OrgID) *http.Request {
	ctx := requestcontext.WithOrgID(req.Context(), orgID)
	ctx = requestcontext.WithRole(ctx, id.RoleOrganization)
	return req.WithContext(ctx)
}

// AsAdmin simulates the auth middleware for an administrator request.
func AsAdmin(req *http.Request, userID id.UserID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithRole(ctx, id.RoleAdmin)
	return req.WithContext(ctx)
}

// AsStaff simulates the auth middleware for a staff request acting on behalf
// of the owning organization.
func AsStaff(req *http.Request, userID id.UserID, orgID id.OrgID) *http.Request {
	ctx := requestcontext.WithUserID(req.Context(), userID)
	ctx = requestcontext.WithOrgID(ctx, orgID)
	ctx = requestcontext.WithRole(ctx, id.RoleStaff)
	return req.WithContext(ctx)
}

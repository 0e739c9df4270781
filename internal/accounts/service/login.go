package service

import (
	"context"
	"errors"
	"time"

	"resgate/internal/accounts/models"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

const (
	loginOutcomeSuccess = "success"
	loginOutcomeFailure = "failure"
)

// LoginResult is an issued session plus who it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Role      string
	Name      string
	UserID    id.UserID
	OrgID     id.OrgID
}

// errBadCredentials is the uniform login failure. Wrong email and wrong
// password are indistinguishable to the caller, so the endpoint cannot be
// used to probe which emails have accounts.
var errBadCredentials = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

// Login authenticates a user or an organization by email and password and
// issues a session token. Organizations may log in in any approval state;
// approval gates what they can do, not whether they can see their own
// registration.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "email and password are required")
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return s.loginUser(ctx, user, password)
	case errors.Is(err, sentinel.ErrNotFound):
		return s.loginOrganization(ctx, email, password)
	default:
		return nil, wrapUserErr(err)
	}
}

func (s *Service) loginUser(ctx context.Context, user *models.User, password string) (*LoginResult, error) {
	if err := s.scheme.Verify(password, user.PasswordHash); err != nil {
		return nil, s.loginFailed(ctx, "user", user.Email)
	}

	session, err := s.tokens.Issue(user.ID, user.OrgID, user.Role, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	client := requestcontext.ClientInfo(ctx)
	s.logger.InfoContext(ctx, "login accepted",
		"user_id", user.ID,
		"role", user.Role,
		"ip", client.IP,
		"device", client.Device,
	)
	s.recordLogin(ctx, loginOutcomeSuccess)
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Role:      string(user.Role),
		Name:      user.Name,
		UserID:    user.ID,
		OrgID:     user.OrgID,
	}, nil
}

func (s *Service) loginOrganization(ctx context.Context, email, password string) (*LoginResult, error) {
	org, err := s.orgs.LoginByEmail(ctx, email)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeNotFound) {
			return nil, s.loginFailed(ctx, "unknown", email)
		}
		return nil, err
	}

	if err := s.scheme.Verify(password, org.PasswordHash); err != nil {
		return nil, s.loginFailed(ctx, "organization", email)
	}

	session, err := s.tokens.Issue(id.UserID{}, org.OrgID, models.RoleOrganization, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	client := requestcontext.ClientInfo(ctx)
	s.logger.InfoContext(ctx, "login accepted",
		"org_id", org.OrgID,
		"role", models.RoleOrganization,
		"ip", client.IP,
		"device", client.Device,
	)
	s.recordLogin(ctx, loginOutcomeSuccess)
	return &LoginResult{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Role:      string(models.RoleOrganization),
		Name:      org.Name,
		OrgID:     org.OrgID,
	}, nil
}

func (s *Service) loginFailed(ctx context.Context, kind, email string) error {
	client := requestcontext.ClientInfo(ctx)
	s.logger.InfoContext(ctx, "login rejected",
		"kind", kind,
		"email", email,
		"ip", client.IP,
		"device", client.Device,
	)
	s.recordLogin(ctx, loginOutcomeFailure)
	return errBadCredentials
}

func (s *Service) recordLogin(ctx context.Context, outcome string) {
	if s.metrics != nil {
		s.metrics.Logins.WithLabelValues(outcome).Inc()
	}
}

// Logout revokes the presented session token. Idempotent: revoking an
// already revoked token succeeds.
func (s *Service) Logout(ctx context.Context) error {
	jti := requestcontext.TokenID(ctx)
	if jti == "" {
		return dErrors.New(dErrors.CodeUnauthorized, "no session to revoke")
	}

	// Revoke for the full session TTL. The token cannot outlive it, so
	// the entry expires no earlier than the token does.
	if err := s.revocations.Revoke(ctx, jti, s.tokens.TTL()); err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to revoke session")
	}

	if s.metrics != nil {
		s.metrics.Logouts.Inc()
	}
	s.logger.InfoContext(ctx, "session revoked", "jti", jti)
	return nil
}

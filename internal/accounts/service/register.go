package service

import (
	"context"
	"errors"

	"resgate/internal/accounts/models"
	"resgate/internal/audit"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

const minPasswordLength = 8

// RegisterCitizenInput is a citizen's self-registration.
type RegisterCitizenInput struct {
	Name     string
	Email    string
	CPF      string
	Phone    string
	Password string
}

// RegisterCitizen creates a citizen account. Open to anyone.
func (s *Service) RegisterCitizen(ctx context.Context, in RegisterCitizenInput) (*models.User, error) {
	user, err := s.register(ctx, models.RoleCitizen, in)
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.Registrations.WithLabelValues(string(models.RoleCitizen)).Inc()
	}
	return user, nil
}

// RegisterStaff creates a staff account bound to the authenticated
// organization. Only approved organizations may register staff.
func (s *Service) RegisterStaff(ctx context.Context, in RegisterCitizenInput) (*models.User, error) {
	orgID := requestcontext.OrgID(ctx)
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "organization authentication required")
	}
	if err := s.orgs.CheckAccess(ctx, orgID, accessRegisterStaff); err != nil {
		return nil, err
	}

	user, err := s.register(ctx, models.RoleStaff, in)
	if err != nil {
		return nil, err
	}

	s.emitAudit(ctx, audit.Event{
		Action: audit.ActionStaffRegistered,
		Actor:  orgID.String(),
		Entity: user.ID.String(),
		Detail: user.Email,
	})
	if s.metrics != nil {
		s.metrics.Registrations.WithLabelValues(string(models.RoleStaff)).Inc()
	}
	return user, nil
}

func (s *Service) register(ctx context.Context, role models.Role, in RegisterCitizenInput) (*models.User, error) {
	if len(in.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "password must be at least %d characters", minPasswordLength)
	}

	hash, err := s.scheme.Hash(in.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	user, err := models.NewUser(role, in.Name, in.Email, in.CPF, in.Phone, hash, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if role == models.RoleStaff {
		if err := user.BindOrganization(requestcontext.OrgID(ctx)); err != nil {
			return nil, err
		}
	}

	if err := s.users.CreateIfAvailable(ctx, user); err != nil {
		return nil, registrationError(err)
	}

	s.logger.InfoContext(ctx, "account registered",
		"user_id", user.ID,
		"role", user.Role,
	)
	return user, nil
}

// EnsureAdmin provisions the administrator account at startup. Admins
// cannot register through the API, so this is the only creation path.
// The call is idempotent: an existing account with the email is left
// untouched, whatever password it was seeded with.
func (s *Service) EnsureAdmin(ctx context.Context, name, email, password string) error {
	email = normalizeEmail(email)

	existing, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != models.RoleAdmin {
			return dErrors.Newf(dErrors.CodeConflict, "email %s is taken by a non-admin account", email)
		}
		return nil
	}
	if !errors.Is(err, sentinel.ErrNotFound) {
		return wrapUserErr(err)
	}

	if len(password) < minPasswordLength {
		return dErrors.Newf(dErrors.CodeInvalidInput, "admin password must be at least %d characters", minPasswordLength)
	}
	hash, err := s.scheme.Hash(password)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash credential")
	}

	admin, err := models.NewAdmin(name, email, hash, requestcontext.Now(ctx))
	if err != nil {
		return err
	}
	if err := s.users.CreateIfAvailable(ctx, admin); err != nil {
		// A concurrent replica seeded the same account first.
		if errors.Is(err, sentinel.ErrConflict) {
			return nil
		}
		return wrapUserErr(err)
	}

	s.logger.InfoContext(ctx, "admin account provisioned", "user_id", admin.ID)
	return nil
}

func registrationError(err error) error {
	if errors.Is(err, sentinel.ErrConflict) {
		return dErrors.New(dErrors.CodeConflict, "email or cpf is already registered")
	}
	return wrapUserErr(err)
}

// Package service implements account registration, login, and session
// revocation for citizens, staff, and organizations.
package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	accountmetrics "resgate/internal/accounts/metrics"
	"resgate/internal/accounts/models"
	"resgate/internal/accounts/store/revocation"
	"resgate/internal/accounts/store/userstore"
	"resgate/internal/accounts/token"
	"resgate/internal/audit"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

// CredentialScheme hashes and verifies passwords. The credential package
// provides the legacy HMAC and bcrypt implementations.
type CredentialScheme interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// OrgLogin is the slice of an organization record the login path needs.
type OrgLogin struct {
	OrgID        id.OrgID
	Name         string
	PasswordHash string
	Approved     bool
}

// OrganizationDirectory is what the accounts module needs from the orgs
// module: the approval gate for staff registration and credential lookup
// for organization logins.
type OrganizationDirectory interface {
	CheckAccess(ctx context.Context, orgID id.OrgID, action string) error
	LoginByEmail(ctx context.Context, email string) (*OrgLogin, error)
}

// accessRegisterStaff must match the action tag the orgs module gates on.
const accessRegisterStaff = "register-staff"

// Service owns user accounts and sessions. Organization credentials live
// with the registration record in the orgs module; this service fronts
// both for login so clients see one endpoint.
type Service struct {
	users  userstore.Store
	orgs   OrganizationDirectory
	scheme CredentialScheme
	tokens *token.Issuer

	revocations revocation.List
	logger      *slog.Logger
	publisher   audit.Publisher
	metrics     *accountmetrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher audit.Publisher) Option {
	return func(s *Service) {
		s.publisher = publisher
	}
}

func WithMetrics(m *accountmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithRevocationList(list revocation.List) Option {
	return func(s *Service) {
		s.revocations = list
	}
}

// NewService constructs a Service. Without WithRevocationList, logout
// works within a single process only.
func NewService(users userstore.Store, orgs OrganizationDirectory, scheme CredentialScheme, tokens *token.Issuer, opts ...Option) *Service {
	s := &Service{
		users:       users,
		orgs:        orgs,
		scheme:      scheme,
		tokens:      tokens,
		revocations: revocation.NewInMemory(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RevocationList exposes the list for the auth middleware's revocation
// check. Middleware and service must consult the same list.
func (s *Service) RevocationList() revocation.List { return s.revocations }

// Get returns a user's profile.
func (s *Service) Get(ctx context.Context, userID id.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return user, nil
}

// Me returns the authenticated user's own profile.
func (s *Service) Me(ctx context.Context) (*models.User, error) {
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	return s.Get(ctx, userID)
}

// UserName resolves a display name for the case conversation log.
// Implements the cases module's Directory.
func (s *Service) UserName(ctx context.Context, userID id.UserID) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", wrapUserErr(err)
	}
	return user.Name, nil
}

// ListStaff returns the authenticated organization's staff accounts.
func (s *Service) ListStaff(ctx context.Context) ([]*models.User, error) {
	orgID := requestcontext.OrgID(ctx)
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "organization authentication required")
	}
	staff, err := s.users.ListByOrganization(ctx, orgID)
	if err != nil {
		return nil, wrapUserErr(err)
	}
	return staff, nil
}

func (s *Service) emitAudit(ctx context.Context, event audit.Event) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.New()
	event.ActorRole = requestcontext.Role(ctx).String()
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.publisher.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", event.Action,
			"entity", event.Entity,
			"error", err,
		)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func wrapUserErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "user not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "user store failure")
}

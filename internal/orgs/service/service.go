package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"resgate/internal/audit"
	orgmetrics "resgate/internal/orgs/metrics"
	"resgate/internal/orgs/models"
	"resgate/internal/orgs/store/orgstore"
	"resgate/internal/storage"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

// PasswordHasher produces the stored credential from a cleartext password.
// The accounts module owns the scheme; this keeps it out of org logic.
type PasswordHasher interface {
	Hash(password string) (string, error)
}

// Service orchestrates organization registration and review. Documents live
// in an object store; registrations and decisions are database writes. The
// two are not transactional, so operations touching both return typed
// partial-success results instead of failing the whole request.
type Service struct {
	orgs    orgstore.Store
	objects storage.ObjectStore
	hasher  PasswordHasher

	logger    *slog.Logger
	publisher audit.Publisher
	metrics   *orgmetrics.Metrics
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

func WithMetrics(m *orgmetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// NewService constructs a Service.
func NewService(orgs orgstore.Store, objects storage.ObjectStore, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		orgs:    orgs,
		objects: objects,
		hasher:  hasher,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns one organization by id.
func (s *Service) Get(ctx context.Context, orgID id.OrgID) (*models.Organization, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return nil, wrapOrgErr(err)
	}
	return org, nil
}

// ListByStatus returns registrations in one review state, oldest first so
// reviewers work the queue in arrival order.
func (s *Service) ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Organization, error) {
	orgs, err := s.orgs.ListByStatus(ctx, status)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list organizations")
	}
	return orgs, nil
}

// Privileged actions an organization's approval unlocks.
const (
	AccessClaimCase     = "claim-case"
	AccessRegisterStaff = "register-staff"
)

// CheckAccess reports whether the organization may perform a privileged
// action. Every action requires an approved registration.
func (s *Service) CheckAccess(ctx context.Context, orgID id.OrgID, action string) error {
	switch action {
	case AccessClaimCase, AccessRegisterStaff:
	default:
		return dErrors.Newf(dErrors.CodeBadRequest, "unknown access action %q", action)
	}

	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return wrapOrgErr(err)
	}
	if !org.IsApproved() {
		return dErrors.New(dErrors.CodeForbidden, "organization registration is not approved")
	}
	return nil
}

// EnsureCanAttend is the gate the cases module consults before a claim.
func (s *Service) EnsureCanAttend(ctx context.Context, orgID id.OrgID) error {
	return s.CheckAccess(ctx, orgID, AccessClaimCase)
}

// OrgName resolves the display name for conversation messages.
func (s *Service) OrgName(ctx context.Context, orgID id.OrgID) (string, error) {
	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return "", wrapOrgErr(err)
	}
	return org.Name, nil
}

// LoginProfile is what the accounts module needs to authenticate an
// organization login.
type LoginProfile struct {
	OrgID        id.OrgID
	Name         string
	PasswordHash string
	Approved     bool
}

// LoginProfileByEmail looks up an organization's credentials by login email.
func (s *Service) LoginProfileByEmail(ctx context.Context, email string) (*LoginProfile, error) {
	org, err := s.orgs.FindByEmail(ctx, email)
	if err != nil {
		return nil, wrapOrgErr(err)
	}
	return &LoginProfile{
		OrgID:        org.ID,
		Name:         org.Name,
		PasswordHash: org.PasswordHash,
		Approved:     org.IsApproved(),
	}, nil
}

// DocumentURL returns a time-limited download link for the registration
// document. Restricted to administrators and the organization itself.
func (s *Service) DocumentURL(ctx context.Context, orgID id.OrgID, ttl time.Duration) (string, error) {
	if !requestcontext.Role(ctx).CanReview() && requestcontext.OrgID(ctx) != orgID {
		return "", dErrors.New(dErrors.CodeForbidden, "document access is restricted")
	}

	org, err := s.orgs.FindByID(ctx, orgID)
	if err != nil {
		return "", wrapOrgErr(err)
	}
	if org.DocumentPath == "" {
		return "", dErrors.New(dErrors.CodeNotFound, "no document on file")
	}

	url, err := s.objects.SignedURL(ctx, org.DocumentPath, ttl)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeUnavailable, "document storage unavailable")
	}
	return url, nil
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

func wrapOrgErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "organization not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "organization store failure")
}

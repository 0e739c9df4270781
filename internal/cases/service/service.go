package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"resgate/internal/audit"
	"resgate/internal/cases/feed"
	casemetrics "resgate/internal/cases/metrics"
	"resgate/internal/cases/models"
	"resgate/internal/cases/store/messagestore"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

// CaseStore is the persistence the service needs. Claim and Resolve are
// conditional writes: every state check happens inside the store under its
// lock, so two racing claims can never both succeed.
type CaseStore interface {
	Insert(ctx context.Context, c *models.Case) error
	FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ListOpen(ctx context.Context) ([]*models.Case, error)
	ListByReporter(ctx context.Context, reporterID id.UserID) ([]*models.Case, error)
	ListByClaimant(ctx context.Context, orgID id.OrgID) ([]*models.Case, error)
	ActiveClaim(ctx context.Context, orgID id.OrgID) (id.CaseID, bool, error)
	Claim(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error
	Resolve(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error
}

// OrganizationGate answers whether an organization may work cases at all.
// The orgs module implements it; only approved registrations pass.
type OrganizationGate interface {
	EnsureCanAttend(ctx context.Context, orgID id.OrgID) error
}

// Directory resolves actor display names for the conversation log.
type Directory interface {
	UserName(ctx context.Context, userID id.UserID) (string, error)
	OrgName(ctx context.Context, orgID id.OrgID) (string, error)
}

// Service orchestrates the case lifecycle: citizens report, approved
// organizations claim and resolve, and both sides talk on the case's
// conversation log.
type Service struct {
	cases    CaseStore
	messages messagestore.Store
	gate     OrganizationGate
	dir      Directory

	feed      feed.Feed
	logger    *slog.Logger
	publisher audit.Publisher
	metrics   *casemetrics.Metrics
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

func WithMetrics(m *casemetrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithFeed(f feed.Feed) Option {
	return func(s *Service) {
		s.feed = f
	}
}

// NewService constructs a Service.
func NewService(cases CaseStore, messages messagestore.Store, gate OrganizationGate, dir Directory, opts ...Option) *Service {
	s := &Service{
		cases:    cases,
		messages: messages,
		gate:     gate,
		dir:      dir,
		feed:     feed.Nop{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReportInput carries the citizen's description of the animal in need.
type ReportInput struct {
	Species     string
	AgeCategory models.AgeCategory
	Injured     bool
	Description string
	Address     string
}

// Report opens a new case for the authenticated citizen.
func (s *Service) Report(ctx context.Context, input ReportInput) (*models.Case, error) {
	reporterID := requestcontext.UserID(ctx)
	if reporterID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	c, err := models.NewCase(
		id.NewCaseID(),
		reporterID,
		input.Species,
		input.AgeCategory,
		input.Injured,
		input.Description,
		input.Address,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.cases.Insert(ctx, c); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store case")
	}

	s.emitAudit(ctx, audit.Event{
		Action: audit.ActionCaseReported,
		Actor:  reporterID.String(),
		Entity: c.ID.String(),
		Detail: c.Species,
	})
	s.publishFeed(ctx, feed.Event{CaseID: c.ID, Kind: feed.KindReported, OccurredAt: c.ReportedAt})
	if s.metrics != nil {
		s.metrics.IncrementCaseReported()
	}
	return c, nil
}

// Get returns one case by id.
func (s *Service) Get(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	return c, nil
}

// ListOpen returns unclaimed, unresolved cases, newest first.
func (s *Service) ListOpen(ctx context.Context) ([]*models.Case, error) {
	cases, err := s.cases.ListOpen(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cases")
	}
	return cases, nil
}

// ListMine returns the authenticated citizen's own reports, newest first.
func (s *Service) ListMine(ctx context.Context) ([]*models.Case, error) {
	reporterID := requestcontext.UserID(ctx)
	if reporterID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	cases, err := s.cases.ListByReporter(ctx, reporterID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cases")
	}
	return cases, nil
}

// ListForOrganization returns the cases the authenticated organization has
// claimed, past and present, newest first.
func (s *Service) ListForOrganization(ctx context.Context) ([]*models.Case, error) {
	orgID := requestcontext.OrgID(ctx)
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "organization authentication required")
	}
	cases, err := s.cases.ListByClaimant(ctx, orgID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list cases")
	}
	return cases, nil
}

// Subscribe opens a live event stream for one case. The returned channel
// closes when ctx is cancelled.
func (s *Service) Subscribe(ctx context.Context, caseID id.CaseID) (<-chan feed.Event, error) {
	if _, err := s.cases.FindByID(ctx, caseID); err != nil {
		return nil, wrapCaseErr(err)
	}
	ch, err := s.feed.Subscribe(ctx, caseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "live feed unavailable")
	}
	if s.metrics != nil {
		s.metrics.FeedSubscribers.Inc()
		go func() {
			<-ctx.Done()
			s.metrics.FeedSubscribers.Dec()
		}()
	}
	return ch, nil
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

func (s *Service) publishFeed(ctx context.Context, ev feed.Event) {
	if err := s.feed.Publish(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "feed publish failed",
			"case_id", ev.CaseID,
			"kind", ev.Kind,
			"error", err,
		)
	}
}

func wrapCaseErr(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	}
	var de *dErrors.Error
	if errors.As(err, &de) {
		return err
	}
	return dErrors.Wrap(err, dErrors.CodeInternal, "case store failure")
}

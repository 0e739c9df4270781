package service

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resgate/internal/audit"
	"resgate/internal/cases/feed"
	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

var tracer = otel.Tracer("resgate/cases")

const (
	claimOutcomeWon      = "won"
	claimOutcomeLost     = "lost"
	claimOutcomeRejected = "rejected"
)

// AttemptClaim claims an open case for the authenticated organization.
//
// The write is a single conditional store operation, so when several
// organizations race for the same case exactly one wins and the rest get a
// conflict. Retrying a claim the organization already holds is a no-op.
// An organization attending one case cannot claim a second until the first
// is resolved.
func (s *Service) AttemptClaim(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	ctx, span := tracer.Start(ctx, "cases.AttemptClaim",
		trace.WithAttributes(attribute.String("case_id", caseID.String())))
	defer span.End()
	start := time.Now()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "organization authentication required")
	}
	span.SetAttributes(attribute.String("org_id", orgID.String()))

	if err := s.gate.EnsureCanAttend(ctx, orgID); err != nil {
		s.recordClaim(span, start, claimOutcomeRejected)
		return nil, err
	}

	// Retried claims on the held case succeed without a second write. A
	// claim on any other case while one is held fails as busy before the
	// target case's own state is even considered.
	if held, ok, err := s.cases.ActiveClaim(ctx, orgID); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check active claim")
	} else if ok && held == caseID {
		s.recordClaim(span, start, claimOutcomeWon)
		return s.Get(ctx, caseID)
	} else if ok {
		s.recordClaim(span, start, claimOutcomeRejected)
		return nil, dErrors.New(dErrors.CodeConflict, "organization is already attending another case")
	}

	if err := s.cases.Claim(ctx, caseID, orgID); err != nil {
		outcome, derr := claimError(err)
		s.recordClaim(span, start, outcome)
		return nil, derr
	}

	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Action: audit.ActionCaseClaimed,
		Actor:  orgID.String(),
		Entity: caseID.String(),
	})
	s.publishFeed(ctx, feed.Event{CaseID: caseID, Kind: feed.KindClaimed, OccurredAt: requestcontext.Now(ctx)})
	s.recordClaim(span, start, claimOutcomeWon)
	return c, nil
}

// ResolveClaim closes the case the authenticated organization is attending,
// freeing the organization to claim another.
func (s *Service) ResolveClaim(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	ctx, span := tracer.Start(ctx, "cases.ResolveClaim",
		trace.WithAttributes(attribute.String("case_id", caseID.String())))
	defer span.End()

	orgID := requestcontext.OrgID(ctx)
	if orgID.IsZero() {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "organization authentication required")
	}

	if err := s.cases.Resolve(ctx, caseID, orgID); err != nil {
		return nil, resolveError(err)
	}

	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}

	s.emitAudit(ctx, audit.Event{
		Action: audit.ActionCaseResolved,
		Actor:  orgID.String(),
		Entity: caseID.String(),
	})
	s.publishFeed(ctx, feed.Event{CaseID: caseID, Kind: feed.KindResolved, OccurredAt: requestcontext.Now(ctx)})
	if s.metrics != nil {
		s.metrics.IncrementCaseResolved()
	}
	return c, nil
}

func (s *Service) recordClaim(span trace.Span, start time.Time, outcome string) {
	span.SetAttributes(attribute.String("outcome", outcome))
	if s.metrics != nil {
		s.metrics.IncrementClaimAttempt(outcome)
		s.metrics.ObserveClaim(start)
	}
}

func claimError(err error) (outcome string, _ error) {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return claimOutcomeRejected, dErrors.New(dErrors.CodeNotFound, "case not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return claimOutcomeRejected, dErrors.New(dErrors.CodeConflict, "case is already resolved")
	case errors.Is(err, sentinel.ErrConflict):
		return claimOutcomeLost, dErrors.New(dErrors.CodeConflict, "case is already claimed by another organization")
	case errors.Is(err, sentinel.ErrAlreadyUsed):
		return claimOutcomeRejected, dErrors.New(dErrors.CodeConflict, "organization is already attending another case")
	default:
		return claimOutcomeRejected, dErrors.Wrap(err, dErrors.CodeInternal, "failed to claim case")
	}
}

func resolveError(err error) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.New(dErrors.CodeNotFound, "case not found")
	case errors.Is(err, sentinel.ErrInvalidState):
		return dErrors.New(dErrors.CodeConflict, "case is already resolved")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.New(dErrors.CodeForbidden, "case is claimed by another organization")
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve case")
	}
}

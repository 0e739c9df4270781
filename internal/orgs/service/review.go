package service

import (
	"context"
	"strings"

	"resgate/internal/audit"
	"resgate/internal/orgs/models"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/requestcontext"
)

// DecisionResult reports a registration review. The status write and the
// document move between status folders are separate systems; a failed move
// never rolls the decision back, DocumentMoved just reports it.
type DecisionResult struct {
	Organization  *models.Organization
	DocumentMoved bool
	Warning       string
}

// Approve accepts a pending registration. The organization can log in,
// claim cases, and register staff from this point on.
func (s *Service) Approve(ctx context.Context, orgID id.OrgID) (*DecisionResult, error) {
	return s.decide(ctx, orgID, models.StatusApproved, "")
}

// Reject declines a pending registration with the reviewer's reason.
func (s *Service) Reject(ctx context.Context, orgID id.OrgID, reason string) (*DecisionResult, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "rejection reason is required")
	}
	return s.decide(ctx, orgID, models.StatusRejected, reason)
}

func (s *Service) decide(ctx context.Context, orgID id.OrgID, decision models.ApprovalStatus, reason string) (*DecisionResult, error) {
	now := requestcontext.Now(ctx)
	org, err := s.orgs.Execute(ctx, orgID,
		func(o *models.Organization) error {
			if err := o.CanDecide(); err != nil {
				if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
					return dErrors.New(dErrors.CodeConflict, dErrors.MessageOf(err))
				}
				return err
			}
			return nil
		},
		func(o *models.Organization) {
			if decision == models.StatusApproved {
				o.ApplyApproval(now)
			} else {
				o.ApplyRejection(reason, now)
			}
		},
	)
	if err != nil {
		return nil, wrapOrgErr(err)
	}

	result := &DecisionResult{Organization: org}
	if org.DocumentPath != "" {
		result.DocumentMoved, result.Warning = s.relocateDocument(ctx, org)
	}

	action := audit.ActionOrgApproved
	if decision == models.StatusRejected {
		action = audit.ActionOrgRejected
	}
	s.emitAudit(ctx, audit.Event{
		Action: action,
		Actor:  requestcontext.UserID(ctx).String(),
		Entity: org.ID.String(),
		Detail: reason,
	})
	if s.metrics != nil {
		s.metrics.IncrementDecision(string(decision))
	}
	return result, nil
}

// relocateDocument moves the registration document into the folder matching
// the new status: copy, delete the old object, then record the new path.
// Any failed step leaves the document readable at its old path.
func (s *Service) relocateDocument(ctx context.Context, org *models.Organization) (moved bool, warning string) {
	oldPath := org.DocumentPath
	parts := strings.SplitN(oldPath, "/", 2)
	if len(parts) != 2 {
		return false, "document path is malformed, leaving it in place"
	}
	newPath := string(org.Status) + "/" + parts[1]

	if err := s.objects.Copy(ctx, oldPath, newPath); err != nil {
		s.logger.WarnContext(ctx, "document relocation copy failed",
			"org_id", org.ID,
			"from", oldPath,
			"to", newPath,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementDocumentRelocation("failed")
		}
		return false, "decision saved, but the document stays in its previous folder"
	}

	if err := s.objects.Remove(ctx, oldPath); err != nil {
		s.logger.WarnContext(ctx, "stale document cleanup failed",
			"org_id", org.ID,
			"path", oldPath,
			"error", err,
		)
	}

	updated, err := s.orgs.Execute(ctx, org.ID,
		func(*models.Organization) error { return nil },
		func(o *models.Organization) { o.SetDocumentPath(newPath) },
	)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record relocated document path",
			"org_id", org.ID,
			"path", newPath,
			"error", err,
		)
		return false, "decision saved, but the document path could not be updated"
	}
	org.DocumentPath = updated.DocumentPath

	if s.metrics != nil {
		s.metrics.IncrementDocumentRelocation("moved")
	}
	return true, ""
}

package service

import (
	"context"

	"resgate/internal/cases/feed"
	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/requestcontext"
)

// AppendMessage adds one entry to the case's conversation log. Only the
// reporting citizen and the claiming organization (including its staff)
// take part in the conversation; everyone else is turned away.
func (s *Service) AppendMessage(ctx context.Context, caseID id.CaseID, text string) (models.Message, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return models.Message{}, wrapCaseErr(err)
	}

	userID := requestcontext.UserID(ctx)
	orgID := requestcontext.OrgID(ctx)
	if !c.IsParticipant(userID, orgID) {
		return models.Message{}, dErrors.New(dErrors.CodeForbidden, "only case participants may send messages")
	}

	role, name, err := s.sender(ctx, userID, orgID)
	if err != nil {
		return models.Message{}, err
	}

	msg, err := models.NewMessage(role, name, text, requestcontext.Now(ctx))
	if err != nil {
		return models.Message{}, err
	}

	stored, err := s.messages.Append(ctx, caseID, msg)
	if err != nil {
		return models.Message{}, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store message")
	}

	s.publishFeed(ctx, feed.Event{
		CaseID:     caseID,
		Kind:       feed.KindMessage,
		Seq:        stored.Seq,
		OccurredAt: stored.SentAt,
	})
	if s.metrics != nil {
		s.metrics.IncrementMessageSent()
	}
	return stored, nil
}

// Messages returns the case's conversation log in send order. The
// conversation is private to its participants: the reporter and the
// claiming organization, including after resolution.
func (s *Service) Messages(ctx context.Context, caseID id.CaseID) ([]models.Message, error) {
	c, err := s.cases.FindByID(ctx, caseID)
	if err != nil {
		return nil, wrapCaseErr(err)
	}
	if !c.IsParticipant(requestcontext.UserID(ctx), requestcontext.OrgID(ctx)) {
		return nil, dErrors.New(dErrors.CodeForbidden, "only case participants may read messages")
	}
	msgs, err := s.messages.List(ctx, caseID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list messages")
	}
	return msgs, nil
}

func (s *Service) sender(ctx context.Context, userID id.UserID, orgID id.OrgID) (models.SenderRole, string, error) {
	if requestcontext.Role(ctx).CanReport() {
		name, err := s.dir.UserName(ctx, userID)
		if err != nil {
			return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve sender")
		}
		return models.SenderCitizen, name, nil
	}
	name, err := s.dir.OrgName(ctx, orgID)
	if err != nil {
		return "", "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to resolve sender")
	}
	return models.SenderOrganization, name, nil
}

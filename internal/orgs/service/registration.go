package service

import (
	"context"
	"errors"
	"fmt"
	"path"

	"resgate/internal/audit"
	"resgate/internal/orgs/models"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/sentinel"
	"resgate/pkg/requestcontext"
)

// DocumentUpload is the registration proof file submitted with the form.
type DocumentUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegistrationInput carries the registration form.
type RegistrationInput struct {
	Name     string
	CNPJ     string
	Email    string
	Phone    string
	Address  string
	Password string
	Document *DocumentUpload
}

// RegistrationResult reports what actually happened. The organization row
// and the document upload are separate systems; when the upload fails the
// registration still stands and DocumentStored tells the caller to retry
// the upload later.
type RegistrationResult struct {
	Organization   *models.Organization
	DocumentStored bool
	Warning        string
}

// SubmitRegistration creates a pending organization registration and stores
// its proof document under pending/<cnpj>/.
func (s *Service) SubmitRegistration(ctx context.Context, input RegistrationInput) (*RegistrationResult, error) {
	if len(input.Password) < 8 {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "password must be at least 8 characters")
	}
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	org, err := models.NewOrganization(
		id.NewOrgID(),
		input.Name,
		input.CNPJ,
		input.Email,
		input.Phone,
		input.Address,
		hash,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	// The insert reserves the CNPJ before any object is written, so a lost
	// registration race never leaves an orphan document behind.
	if err := s.orgs.CreateIfCNPJAvailable(ctx, org); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "cnpj or email is already registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to store registration")
	}

	result := &RegistrationResult{Organization: org}
	if input.Document != nil {
		result.DocumentStored, result.Warning = s.storeDocument(ctx, org, input.Document)
	}

	s.emitAudit(ctx, audit.Event{
		Action: audit.ActionOrgRegistered,
		Actor:  org.ID.String(),
		Entity: org.ID.String(),
		Detail: org.CNPJ,
	})
	if s.metrics != nil {
		s.metrics.IncrementRegistration()
	}
	return result, nil
}

func (s *Service) storeDocument(ctx context.Context, org *models.Organization, doc *DocumentUpload) (stored bool, warning string) {
	key := documentKey(models.StatusPending, org.CNPJ, doc.Filename)

	if _, err := s.objects.Upload(ctx, key, doc.Data, doc.ContentType); err != nil {
		s.logger.WarnContext(ctx, "registration document upload failed",
			"org_id", org.ID,
			"path", key,
			"error", err,
		)
		if s.metrics != nil {
			s.metrics.IncrementDocumentUpload("failed")
		}
		return false, "registration saved, but the document upload failed"
	}

	updated, err := s.orgs.Execute(ctx, org.ID,
		func(*models.Organization) error { return nil },
		func(o *models.Organization) { o.SetDocumentPath(key) },
	)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to record document path",
			"org_id", org.ID,
			"path", key,
			"error", err,
		)
		return false, "registration saved, but the document could not be linked"
	}
	org.DocumentPath = updated.DocumentPath

	if s.metrics != nil {
		s.metrics.IncrementDocumentUpload("stored")
	}
	return true, ""
}

// documentKey builds the status-namespaced object key for a registration
// document.
func documentKey(status models.ApprovalStatus, cnpj, filename string) string {
	return fmt.Sprintf("%s/%s/%s", status, cnpj, path.Base(filename))
}

package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"resgate/internal/orgs/models"
	"resgate/internal/orgs/service"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/httputil"
	"resgate/pkg/requestcontext"
)

const (
	maxRegistrationForm = 10 << 20 // multipart memory cap, includes the document
	documentURLTTL      = 15 * time.Minute
)

// Service defines the interface for organization operations.
type Service interface {
	SubmitRegistration(ctx context.Context, input service.RegistrationInput) (*service.RegistrationResult, error)
	Get(ctx context.Context, orgID id.OrgID) (*models.Organization, error)
	ListByStatus(ctx context.Context, status models.ApprovalStatus) ([]*models.Organization, error)
	Approve(ctx context.Context, orgID id.OrgID) (*service.DecisionResult, error)
	Reject(ctx context.Context, orgID id.OrgID, reason string) (*service.DecisionResult, error)
	DocumentURL(ctx context.Context, orgID id.OrgID, ttl time.Duration) (string, error)
}

// Handler wires organization endpoints to the orgs service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an orgs handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints that must work before any login
// exists, like the registration form itself.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/orgs/register", h.HandleRegister)
}

// Register mounts the authenticated organization endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/orgs", func(r chi.Router) {
		r.Get("/pending", h.HandleListPending)
		r.Route("/{orgID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Post("/approve", h.HandleApprove)
			r.Post("/reject", h.HandleReject)
			r.Get("/document", h.HandleDocumentURL)
		})
	})
}

// HandleRegister handles POST /orgs/register requests. The body is a
// multipart form carrying the registration fields plus an optional
// "document" file with proof of the NGO's existence.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	if err := r.ParseMultipartForm(maxRegistrationForm); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "body must be a multipart form"))
		return
	}

	input := service.RegistrationInput{
		Name:     r.FormValue("name"),
		CNPJ:     r.FormValue("cnpj"),
		Email:    r.FormValue("email"),
		Phone:    r.FormValue("phone"),
		Address:  r.FormValue("address"),
		Password: r.FormValue("password"),
	}

	if file, header, err := r.FormFile("document"); err == nil {
		defer file.Close()
		data, readErr := io.ReadAll(file)
		if readErr != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "could not read document"))
			return
		}
		input.Document = &service.DocumentUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		}
	}

	result, err := h.service.SubmitRegistration(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "organization registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "organization registered",
		"request_id", requestID,
		"org_id", result.Organization.ID,
		"document_stored", result.DocumentStored,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromRegistrationResult(result))
}

// HandleListPending handles GET /orgs/pending requests.
func (h *Handler) HandleListPending(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if !h.requireAdmin(w, ctx) {
		return
	}

	orgs, err := h.service.ListByStatus(ctx, models.StatusPending)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrganizations(orgs))
}

// HandleGet handles GET /orgs/{orgID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgIDFromPath(w, r)
	if !ok {
		return
	}
	org, err := h.service.Get(r.Context(), orgID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromOrganization(org))
}

// HandleApprove handles POST /orgs/{orgID}/approve requests.
func (h *Handler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	if !h.requireAdmin(w, ctx) {
		return
	}
	orgID, ok := h.orgIDFromPath(w, r)
	if !ok {
		return
	}

	result, err := h.service.Approve(ctx, orgID)
	if err != nil {
		h.logger.InfoContext(ctx, "approval failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "organization approved",
		"request_id", requestID,
		"org_id", orgID,
		"document_moved", result.DocumentMoved,
	)
	httputil.WriteJSON(w, http.StatusOK, FromDecisionResult(result))
}

// HandleReject handles POST /orgs/{orgID}/reject requests.
func (h *Handler) HandleReject(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	if !h.requireAdmin(w, ctx) {
		return
	}
	orgID, ok := h.orgIDFromPath(w, r)
	if !ok {
		return
	}

	req, decoded := httputil.DecodeAndPrepare[RejectRequest](w, r, h.logger, ctx, requestID)
	if !decoded {
		return
	}

	result, err := h.service.Reject(ctx, orgID, req.Reason)
	if err != nil {
		h.logger.InfoContext(ctx, "rejection failed",
			"request_id", requestID,
			"org_id", orgID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "organization rejected",
		"request_id", requestID,
		"org_id", orgID,
	)
	httputil.WriteJSON(w, http.StatusOK, FromDecisionResult(result))
}

// HandleDocumentURL handles GET /orgs/{orgID}/document requests.
func (h *Handler) HandleDocumentURL(w http.ResponseWriter, r *http.Request) {
	orgID, ok := h.orgIDFromPath(w, r)
	if !ok {
		return
	}

	url, err := h.service.DocumentURL(r.Context(), orgID, documentURLTTL)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, DocumentURLResponse{URL: url})
}

func (h *Handler) requireAdmin(w http.ResponseWriter, ctx context.Context) bool {
	if !requestcontext.Role(ctx).CanReview() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "administrator access required"))
		return false
	}
	return true
}

func (h *Handler) orgIDFromPath(w http.ResponseWriter, r *http.Request) (id.OrgID, bool) {
	orgID, err := id.ParseOrgID(chi.URLParam(r, "orgID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid organization id"))
		return id.OrgID{}, false
	}
	return orgID, true
}

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"resgate/internal/cases/feed"
	"resgate/internal/cases/models"
	"resgate/internal/cases/service"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/httputil"
	"resgate/pkg/requestcontext"
)

// Service defines the interface for case operations.
type Service interface {
	Report(ctx context.Context, input service.ReportInput) (*models.Case, error)
	Get(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ListOpen(ctx context.Context) ([]*models.Case, error)
	ListMine(ctx context.Context) ([]*models.Case, error)
	ListForOrganization(ctx context.Context) ([]*models.Case, error)
	AttemptClaim(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	ResolveClaim(ctx context.Context, caseID id.CaseID) (*models.Case, error)
	AppendMessage(ctx context.Context, caseID id.CaseID, text string) (models.Message, error)
	Messages(ctx context.Context, caseID id.CaseID) ([]models.Message, error)
	Subscribe(ctx context.Context, caseID id.CaseID) (<-chan feed.Event, error)
}

// Handler wires case endpoints to the cases service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a cases handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts case endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Post("/", h.HandleReport)
		r.Get("/", h.HandleListOpen)
		r.Get("/mine", h.HandleListMine)
		r.Get("/claimed", h.HandleListClaimed)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Post("/claim", h.HandleClaim)
			r.Post("/resolve", h.HandleResolve)
			r.Get("/messages", h.HandleListMessages)
			r.Post("/messages", h.HandleSendMessage)
			r.Get("/events", h.HandleEvents)
		})
	})
}

// HandleReport handles POST /cases requests.
func (h *Handler) HandleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)
	start := time.Now()

	req, ok := httputil.DecodeAndPrepare[ReportCaseRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	c, err := h.service.Report(ctx, service.ReportInput{
		Species:     req.Species,
		AgeCategory: req.ParsedAgeCategory(),
		Injured:     req.Injured,
		Description: req.Description,
		Address:     req.Address,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "case report failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "case reported",
		"request_id", requestID,
		"case_id", c.ID,
		"species", c.Species,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, FromCase(c))
}

// HandleListOpen handles GET /cases requests.
func (h *Handler) HandleListOpen(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListOpen(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCases(cases))
}

// HandleListMine handles GET /cases/mine requests.
func (h *Handler) HandleListMine(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListMine(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCases(cases))
}

// HandleListClaimed handles GET /cases/claimed requests.
func (h *Handler) HandleListClaimed(w http.ResponseWriter, r *http.Request) {
	cases, err := h.service.ListForOrganization(r.Context())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCases(cases))
}

// HandleGet handles GET /cases/{caseID} requests.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	c, err := h.service.Get(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromCase(c))
}

// HandleClaim handles POST /cases/{caseID}/claim requests.
func (h *Handler) HandleClaim(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	c, err := h.service.AttemptClaim(ctx, caseID)
	if err != nil {
		h.logger.InfoContext(ctx, "claim attempt failed",
			"request_id", requestID,
			"case_id", caseID,
			"org_id", requestcontext.OrgID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "case claimed",
		"request_id", requestID,
		"case_id", caseID,
		"org_id", requestcontext.OrgID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromCase(c))
}

// HandleResolve handles POST /cases/{caseID}/resolve requests.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	c, err := h.service.ResolveClaim(ctx, caseID)
	if err != nil {
		h.logger.InfoContext(ctx, "resolve attempt failed",
			"request_id", requestID,
			"case_id", caseID,
			"org_id", requestcontext.OrgID(ctx),
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "case resolved",
		"request_id", requestID,
		"case_id", caseID,
		"org_id", requestcontext.OrgID(ctx),
	)
	httputil.WriteJSON(w, http.StatusOK, FromCase(c))
}

// HandleListMessages handles GET /cases/{caseID}/messages requests.
func (h *Handler) HandleListMessages(w http.ResponseWriter, r *http.Request) {
	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}
	msgs, err := h.service.Messages(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromMessages(msgs))
}

// HandleSendMessage handles POST /cases/{caseID}/messages requests.
func (h *Handler) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	caseID, ok := h.caseIDFromPath(w, r)
	if !ok {
		return
	}

	req, decoded := httputil.DecodeAndPrepare[SendMessageRequest](w, r, h.logger, ctx, requestID)
	if !decoded {
		return
	}

	msg, err := h.service.AppendMessage(ctx, caseID, req.Text)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, FromMessage(msg))
}

func (h *Handler) caseIDFromPath(w http.ResponseWriter, r *http.Request) (id.CaseID, bool) {
	caseID, err := id.ParseCaseID(chi.URLParam(r, "caseID"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid case id"))
		return id.CaseID{}, false
	}
	return caseID, true
}

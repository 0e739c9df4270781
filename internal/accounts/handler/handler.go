package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"resgate/internal/accounts/models"
	"resgate/internal/accounts/service"
	"resgate/pkg/platform/httputil"
	"resgate/pkg/requestcontext"
)

// Service defines the interface for account operations.
type Service interface {
	RegisterCitizen(ctx context.Context, input service.RegisterCitizenInput) (*models.User, error)
	RegisterStaff(ctx context.Context, input service.RegisterCitizenInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*service.LoginResult, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	ListStaff(ctx context.Context) ([]*models.User, error)
}

// Handler wires account endpoints to the accounts service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs an accounts handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterPublic mounts the endpoints that work without a session: citizen
// registration and login.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/citizens", h.HandleRegisterCitizen)
	r.Post("/auth/login", h.HandleLogin)
}

// Register mounts the authenticated account endpoints.
func (h *Handler) Register(r chi.Router) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/staff", h.HandleRegisterStaff)
		r.Post("/logout", h.HandleLogout)
		r.Get("/me", h.HandleMe)
		r.Get("/staff", h.HandleListStaff)
	})
}

// HandleRegisterCitizen handles POST /auth/citizens requests.
func (h *Handler) HandleRegisterCitizen(w http.ResponseWriter, r *http.Request) {
	h.handleRegister(w, r, h.service.RegisterCitizen)
}

// HandleRegisterStaff handles POST /auth/staff requests. The caller must
// be an approved organization; the new account belongs to it.
func (h *Handler) HandleRegisterStaff(w http.ResponseWriter, r *http.Request) {
	h.handleRegister(w, r, h.service.RegisterStaff)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request,
	register func(context.Context, service.RegisterCitizenInput) (*models.User, error)) {

	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[RegisterAccountRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	user, err := register(ctx, service.RegisterCitizenInput{
		Name:     req.Name,
		Email:    req.Email,
		CPF:      req.CPF,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "registration failed",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "account registered",
		"request_id", requestID,
		"user_id", user.ID,
		"role", user.Role,
	)
	httputil.WriteJSON(w, http.StatusCreated, FromUser(user))
}

// HandleLogin handles POST /auth/login requests.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[LoginRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	result, err := h.service.Login(ctx, req.Email, req.Password)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	h.logger.InfoContext(ctx, "login succeeded",
		"request_id", requestID,
		"role", result.Role,
	)
	httputil.WriteJSON(w, http.StatusOK, FromLogin(result))
}

// HandleLogout handles POST /auth/logout requests.
func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.service.Logout(ctx); err != nil {
		httputil.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe handles GET /auth/me requests.
func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.service.Me(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUser(user))
}

// HandleListStaff handles GET /auth/staff requests.
func (h *Handler) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	staff, err := h.service.ListStaff(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromUsers(staff))
}

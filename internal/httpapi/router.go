// Package httpapi assembles the HTTP surface: public registration and
// login, the authenticated API, and the operational endpoints.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"resgate/internal/accounts"
	"resgate/internal/cases"
	"resgate/internal/orgs"
	"resgate/pkg/platform/middleware/auth"
	"resgate/pkg/platform/middleware/requestmeta"
)

// Deps is everything the router mounts. Verifier and Revocations come from
// the accounts module; they must be the same instances the login path uses.
type Deps struct {
	Accounts *accounts.Handler
	Orgs     *orgs.Handler
	Cases    *cases.Handler

	Verifier    auth.TokenVerifier
	Revocations auth.RevocationChecker
	Logger      *slog.Logger
}

// NewRouter builds the chi router. Everything except registration, login,
// and the operational endpoints sits behind the bearer-token middleware.
func NewRouter(d Deps) chi.Router {
	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestmeta.Middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		d.Accounts.RegisterPublic(r)
		d.Orgs.RegisterPublic(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(d.Verifier, d.Revocations, d.Logger))
		d.Accounts.Register(r)
		d.Orgs.Register(r)
		d.Cases.Register(r)
	})

	return r
}

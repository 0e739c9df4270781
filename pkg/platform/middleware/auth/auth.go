// Package auth provides the bearer-token middleware. It validates the
// session token, checks the revocation list, and threads the authenticated
// actor through the request context so no handler or service ever reads
// ambient session state.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/httputil"
	"resgate/pkg/requestcontext"

	id "resgate/pkg/domain"
)

// Claims is the validated content of a session token.
type Claims struct {
	UserID id.UserID
	OrgID  id.OrgID
	Role   id.Role
	JTI    string
}

// TokenVerifier validates a raw bearer token and returns its claims.
type TokenVerifier interface {
	VerifyToken(tokenString string) (*Claims, error)
}

// RevocationChecker reports whether a token id has been revoked (logout).
type RevocationChecker interface {
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// RequireAuth rejects requests without a valid, unrevoked bearer token and
// injects the actor into the request context.
func RequireAuth(verifier TokenVerifier, revocations RevocationChecker, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const bearerPrefix = "Bearer "
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, bearerPrefix) {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			claims, err := verifier.VerifyToken(strings.TrimPrefix(header, bearerPrefix))
			if err != nil {
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "invalid session token"))
				return
			}

			if revocations != nil {
				revoked, err := revocations.IsRevoked(r.Context(), claims.JTI)
				if err != nil {
					logger.ErrorContext(r.Context(), "revocation check failed", "error", err)
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "session check unavailable"))
					return
				}
				if revoked {
					httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "session has been revoked"))
					return
				}
			}

			ctx := r.Context()
			if !claims.UserID.IsZero() {
				ctx = requestcontext.WithUserID(ctx, claims.UserID)
			}
			if !claims.OrgID.IsZero() {
				ctx = requestcontext.WithOrgID(ctx, claims.OrgID)
			}
			ctx = requestcontext.WithRole(ctx, claims.Role)
			if claims.JTI != "" {
				ctx = requestcontext.WithTokenID(ctx, claims.JTI)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects authenticated requests whose role is not one of the
// allowed set. Use after RequireAuth.
func RequireRole(roles ...id.Role) func(http.Handler) http.Handler {
	allowed := make(map[id.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := allowed[requestcontext.Role(r.Context())]; !ok {
				httputil.WriteError(w, dErrors.New(dErrors.CodeForbidden, "insufficient role"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Package token issues and verifies session tokens. Tokens are HS256 JWTs
// carrying the actor id and role; the JTI claim keys the revocation list.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/platform/middleware/auth"
)

const issuerName = "resgate"

// Claims is the JWT payload for a session token. Exactly one of UserID and
// OrgID is set for citizen and organization logins; staff carry both.
type Claims struct {
	UserID string `json:"user_id,omitempty"`
	OrgID  string `json:"org_id,omitempty"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Issuer signs and verifies session tokens with a shared HMAC key.
type Issuer struct {
	signingKey []byte
	ttl        time.Duration
}

func NewIssuer(signingKey string, ttl time.Duration) *Issuer {
	return &Issuer{signingKey: []byte(signingKey), ttl: ttl}
}

// TTL is the configured session lifetime. Logout revokes for this long,
// which always covers the remaining token lifetime.
func (i *Issuer) TTL() time.Duration { return i.ttl }

// Session is an issued token plus the metadata callers surface to clients.
type Session struct {
	Token     string
	JTI       string
	ExpiresAt time.Time
}

// Issue signs a session token for the given actor.
func (i *Issuer) Issue(userID id.UserID, orgID id.OrgID, role id.Role, now time.Time) (*Session, error) {
	jti := uuid.NewString()
	expiresAt := now.Add(i.ttl)

	claims := Claims{
		Role: role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	if !userID.IsZero() {
		claims.UserID = userID.String()
	}
	if !orgID.IsZero() {
		claims.OrgID = orgID.String()
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.signingKey)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to sign session token")
	}
	return &Session{Token: signed, JTI: jti, ExpiresAt: expiresAt}, nil
}

// VerifyToken parses and validates a raw bearer token. Implements the auth
// middleware's TokenVerifier.
func (i *Issuer) VerifyToken(tokenString string) (*auth.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return i.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "session has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	role, err := id.ParseRole(claims.Role)
	if err != nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
	}

	out := &auth.Claims{Role: role, JTI: claims.ID}
	if claims.UserID != "" {
		userID, err := id.ParseUserID(claims.UserID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
		}
		out.UserID = userID
	}
	if claims.OrgID != "" {
		orgID, err := id.ParseOrgID(claims.OrgID)
		if err != nil {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid session token")
		}
		out.OrgID = orgID
	}
	return out, nil
}

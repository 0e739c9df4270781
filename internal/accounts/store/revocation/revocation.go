// Package revocation tracks logged-out session tokens by JTI. Entries
// expire with the token itself, so the list stays bounded at the number of
// sessions logged out within one session TTL.
package revocation

import (
	"context"
	"fmt"
	"time"

	"resgate/pkg/platform/sentinel"
)

// List records revoked token ids and answers revocation checks. The auth
// middleware consults IsRevoked on every authenticated request.
type List interface {
	// Revoke marks a token id as revoked until its expiry. The ttl should
	// cover the remaining token lifetime.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// IsRevoked reports whether the token id has been revoked. Expired
	// entries count as not revoked.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

func validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("ttl must be positive: %w", sentinel.ErrInvalidState)
	}
	return nil
}

// Package credential owns password hashing for every login in the system.
// Two schemes exist: the legacy deterministic HMAC carried over from the
// first deployment, and bcrypt for new installs. The scheme is selected by
// configuration so existing credential rows keep verifying.
package credential

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	dErrors "resgate/pkg/domain-errors"

	"golang.org/x/crypto/bcrypt"
)

// Scheme turns a cleartext password into a stored hash and checks a
// cleartext password against one.
type Scheme interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// ErrMismatch is returned by Verify when the password does not match.
// Callers translate it to an unauthorized domain error so login failures
// never leak which part of the credential was wrong.
var ErrMismatch = dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")

// LegacyHMACKey is the fixed application key the original deployment
// hashed every password with. Deterministic and unsalted, which is a known
// weakness; it is kept bit-exact so existing accounts keep working. New
// deployments should select the bcrypt scheme instead.
const LegacyHMACKey = "sos-hasbik-2024"

// LegacyHMAC is the original scheme: hex-encoded HMAC-SHA256 of the
// password under a fixed key.
type LegacyHMAC struct {
	key []byte
}

// NewLegacyHMAC builds the legacy scheme. An empty key falls back to the
// original application key.
func NewLegacyHMAC(key string) *LegacyHMAC {
	if key == "" {
		key = LegacyHMACKey
	}
	return &LegacyHMAC{key: []byte(key)}
}

func (l *LegacyHMAC) Hash(password string) (string, error) {
	mac := hmac.New(sha256.New, l.key)
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil)), nil
}

func (l *LegacyHMAC) Verify(password, hash string) error {
	computed, _ := l.Hash(password)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(hash)) != 1 {
		return ErrMismatch
	}
	return nil
}

// Bcrypt is the salted scheme for new deployments.
type Bcrypt struct {
	cost int
}

// NewBcrypt builds the bcrypt scheme. Cost 0 uses the library default.
func NewBcrypt(cost int) *Bcrypt {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost}
}

func (b *Bcrypt) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(hashed), nil
}

func (b *Bcrypt) Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return ErrMismatch
	}
	return nil
}

// FromConfig selects the scheme named in configuration. Unknown names are
// a startup error rather than a silent fallback.
func FromConfig(scheme, legacyKey string) (Scheme, error) {
	switch scheme {
	case "", "legacy-hmac":
		return NewLegacyHMAC(legacyKey), nil
	case "bcrypt":
		return NewBcrypt(0), nil
	default:
		return nil, fmt.Errorf("unknown credential scheme %q", scheme)
	}
}

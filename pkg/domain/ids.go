// Package domain defines the typed identifiers shared across modules.
//
// Each entity gets its own UUID-backed type so the compiler rejects
// cross-entity assignment (a CaseID can never be passed where an OrgID is
// expected). Parse functions enforce the trust-boundary invariant that IDs
// are valid, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "resgate/pkg/domain-errors"
)

type (
	// CaseID identifies a reported animal incident.
	CaseID uuid.UUID
	// OrgID identifies a responder organization.
	OrgID uuid.UUID
	// UserID identifies a citizen or staff account.
	UserID uuid.UUID
)

func (id CaseID) String() string { return uuid.UUID(id).String() }
func (id OrgID) String() string  { return uuid.UUID(id).String() }
func (id UserID) String() string { return uuid.UUID(id).String() }

// IsZero reports whether the ID is the nil UUID.
func (id CaseID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }
func (id OrgID) IsZero() bool  { return uuid.UUID(id) == uuid.Nil }
func (id UserID) IsZero() bool { return uuid.UUID(id) == uuid.Nil }

// The named types do not inherit uuid.UUID's text marshaling, so without
// these json.Marshal would emit the raw 16-byte array on the wire.
func (id CaseID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id OrgID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id UserID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

func (id *CaseID) UnmarshalText(text []byte) error {
	parsed, err := ParseCaseID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *OrgID) UnmarshalText(text []byte) error {
	parsed, err := ParseOrgID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *UserID) UnmarshalText(text []byte) error {
	parsed, err := ParseUserID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// NewCaseID generates a fresh case identifier.
func NewCaseID() CaseID { return CaseID(uuid.New()) }

// NewOrgID generates a fresh organization identifier.
func NewOrgID() OrgID { return OrgID(uuid.New()) }

// NewUserID generates a fresh user identifier.
func NewUserID() UserID { return UserID(uuid.New()) }

func parseUUID(raw, what string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is required", what)
	}
	parsed, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id is not a valid UUID", what)
	}
	if parsed == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s id cannot be the nil UUID", what)
	}
	return parsed, nil
}

// ParseCaseID parses and validates a case identifier.
func ParseCaseID(raw string) (CaseID, error) {
	parsed, err := parseUUID(raw, "case")
	return CaseID(parsed), err
}

// ParseOrgID parses and validates an organization identifier.
func ParseOrgID(raw string) (OrgID, error) {
	parsed, err := parseUUID(raw, "organization")
	return OrgID(parsed), err
}

// ParseUserID parses and validates a user identifier.
func ParseUserID(raw string) (UserID, error) {
	parsed, err := parseUUID(raw, "user")
	return UserID(parsed), err
}

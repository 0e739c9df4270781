package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "resgate/pkg/domain-errors"
)

// TestParseID_Invariants validates the parsing invariant:
// "IDs must be valid, non-empty, non-nil UUIDs".
func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseCaseID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects invalid format", func(t *testing.T) {
		_, err := ParseOrgID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects nil UUID", func(t *testing.T) {
		_, err := ParseUserID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("accepts valid UUID", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseCaseID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, CaseID(valid), id)
	})
}

// TestTextMarshaling verifies the IDs travel as UUID strings in JSON, not
// as raw byte arrays, and come back out as the same typed value.
func TestTextMarshaling(t *testing.T) {
	caseID := NewCaseID()

	payload, err := json.Marshal(struct {
		CaseID CaseID `json:"case_id"`
		OrgID  OrgID  `json:"org_id"`
		UserID UserID `json:"user_id"`
	}{CaseID: caseID, OrgID: NewOrgID(), UserID: NewUserID()})
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"case_id":"`+caseID.String()+`"`)

	var decoded struct {
		CaseID CaseID `json:"case_id"`
	}
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, caseID, decoded.CaseID)

	var invalid struct {
		CaseID CaseID `json:"case_id"`
	}
	err = json.Unmarshal([]byte(`{"case_id":"not-a-uuid"}`), &invalid)
	require.Error(t, err)
}

// TestTypeDistinction verifies the compiler enforces type safety. The
// commented assignments would fail to compile if the types were aliases.
func TestTypeDistinction(t *testing.T) {
	caseID := CaseID(uuid.New())
	orgID := OrgID(uuid.New())

	// var _ CaseID = orgID // compile error
	// var _ OrgID = caseID // compile error

	assert.NotEqual(t, uuid.UUID(caseID), uuid.UUID(orgID))
}

// Package audit records privileged actions (registration decisions, claims,
// resolutions) in an append-only trail. Services emit events through a
// Publisher; delivery to the store happens either inline or via the Worker,
// and deployments can additionally stream events to Kafka.
package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action names a privileged operation worth auditing.
type Action string

const (
	ActionOrgRegistered   Action = "org.registered"
	ActionOrgApproved     Action = "org.approved"
	ActionOrgRejected     Action = "org.rejected"
	ActionCaseReported    Action = "case.reported"
	ActionCaseClaimed     Action = "case.claimed"
	ActionCaseResolved    Action = "case.resolved"
	ActionStaffRegistered Action = "staff.registered"
)

// Event is one audit trail entry. Entity is the id of the record acted on;
// Actor identifies who performed the action (user or organization id).
type Event struct {
	ID        uuid.UUID `json:"id"`
	Action    Action    `json:"action"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actor_role"`
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

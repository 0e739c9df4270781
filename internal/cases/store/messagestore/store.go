package messagestore

import (
	"context"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
)

// Store is the append-only conversation log attached to a case.
//
// Append assigns the next sequence number for the case and returns the
// stored message. Sequence numbers start at 1 and are strictly increasing
// per case with no gaps; two concurrent appends never share a number.
// List returns messages ordered by sequence ascending, and an empty slice
// for a case that has no messages yet.
type Store interface {
	Append(ctx context.Context, caseID id.CaseID, msg models.Message) (models.Message, error)
	List(ctx context.Context, caseID id.CaseID) ([]models.Message, error)
}

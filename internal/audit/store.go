package audit

import "context"

// Store persists audit events. Append-only: there is no update or delete.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByEntity(ctx context.Context, entity string) ([]Event, error)
}

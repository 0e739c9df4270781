package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Publisher captures structured audit events. Emitting is best-effort from
// the caller's perspective: services log a failed emit but never fail the
// primary operation because the trail could not be written.
type Publisher interface {
	Emit(ctx context.Context, event Event) error
}

// StorePublisher writes events straight to a Store.
type StorePublisher struct {
	store Store
}

func NewStorePublisher(store Store) *StorePublisher {
	return &StorePublisher{store: store}
}

func (p *StorePublisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return p.store.Append(ctx, event)
}

// ChannelPublisher hands events to the Worker's inbox without blocking the
// request path. Events are dropped (and logged) when the inbox is full;
// audit delivery is not allowed to stall claims or approvals.
type ChannelPublisher struct {
	inbox  chan<- Event
	logger *slog.Logger
}

func NewChannelPublisher(inbox chan<- Event, logger *slog.Logger) *ChannelPublisher {
	return &ChannelPublisher{inbox: inbox, logger: logger}
}

func (p *ChannelPublisher) Emit(ctx context.Context, event Event) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	select {
	case p.inbox <- event:
		return nil
	default:
		p.logger.WarnContext(ctx, "audit inbox full, dropping event",
			"action", event.Action,
			"entity", event.Entity,
		)
		return nil
	}
}

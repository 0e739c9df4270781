package feed

import (
	"context"
	"time"

	id "resgate/pkg/domain"
)

// Kind identifies what happened on a case.
type Kind string

const (
	KindReported Kind = "reported"
	KindClaimed  Kind = "claimed"
	KindResolved Kind = "resolved"
	KindMessage  Kind = "message"
)

// Event is one entry in a case's live feed. Message events carry the
// message sequence number in Seq; lifecycle events leave it zero.
type Event struct {
	CaseID     id.CaseID `json:"case_id"`
	Kind       Kind      `json:"kind"`
	Seq        int64     `json:"seq,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Feed fans case events out to live subscribers. Publish never blocks on
// slow consumers; a subscriber that falls behind misses events and should
// re-read the case. Subscribe returns a channel that is closed when ctx
// is done.
type Feed interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(ctx context.Context, caseID id.CaseID) (<-chan Event, error)
}

// Nop discards events and serves no subscribers. Used when no feed
// backend is configured.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

func (Nop) Subscribe(ctx context.Context, _ id.CaseID) (<-chan Event, error) {
	ch := make(chan Event)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch, nil
}

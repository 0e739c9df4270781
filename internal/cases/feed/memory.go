package feed

import (
	"context"
	"sync"

	id "resgate/pkg/domain"
)

const subscriberBuffer = 16

// InMemory is a process-local feed. Each subscriber gets a buffered
// channel; Publish drops the event for any subscriber whose buffer is
// full rather than blocking the publisher.
type InMemory struct {
	mu   sync.Mutex
	subs map[id.CaseID]map[int]chan Event
	next int
}

func NewInMemory() *InMemory {
	return &InMemory{subs: make(map[id.CaseID]map[int]chan Event)}
}

func (f *InMemory) Publish(_ context.Context, ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, ch := range f.subs[ev.CaseID] {
		select {
		case ch <- ev:
		default:
		}
	}
	return nil
}

func (f *InMemory) Subscribe(ctx context.Context, caseID id.CaseID) (<-chan Event, error) {
	ch := make(chan Event, subscriberBuffer)

	f.mu.Lock()
	if f.subs[caseID] == nil {
		f.subs[caseID] = make(map[int]chan Event)
	}
	key := f.next
	f.next++
	f.subs[caseID][key] = ch
	f.mu.Unlock()

	go func() {
		<-ctx.Done()
		f.mu.Lock()
		delete(f.subs[caseID], key)
		if len(f.subs[caseID]) == 0 {
			delete(f.subs, caseID)
		}
		f.mu.Unlock()
		close(ch)
	}()

	return ch, nil
}

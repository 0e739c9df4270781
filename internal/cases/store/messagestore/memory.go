package messagestore

import (
	"context"
	"sync"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
)

// InMemory keeps conversation logs in a per-case slice. Sequence numbers
// are assigned under the write lock, so concurrent appends serialize and
// each case's log stays gapless.
type InMemory struct {
	mu   sync.RWMutex
	logs map[id.CaseID][]models.Message
}

func NewInMemory() *InMemory {
	return &InMemory{logs: make(map[id.CaseID][]models.Message)}
}

func (s *InMemory) Append(_ context.Context, caseID id.CaseID, msg models.Message) (models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg.Seq = int64(len(s.logs[caseID])) + 1
	s.logs[caseID] = append(s.logs[caseID], msg)
	return msg, nil
}

func (s *InMemory) List(_ context.Context, caseID id.CaseID) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Message, len(s.logs[caseID]))
	copy(out, s.logs[caseID])
	return out, nil
}

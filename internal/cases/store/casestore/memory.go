package casestore

import (
	"context"
	"sort"
	"sync"

	"resgate/internal/cases/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// InMemory is a mutex-guarded map store for development and tests. The
// write lock spans every claim-state check and mutation, which is what
// makes concurrent claims race-free here.
type InMemory struct {
	mu    sync.RWMutex
	cases map[id.CaseID]*models.Case
}

func NewInMemory() *InMemory {
	return &InMemory{cases: make(map[id.CaseID]*models.Case)}
}

func (s *InMemory) Insert(ctx context.Context, c *models.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cases[c.ID]; ok {
		return sentinel.ErrConflict
	}
	cloned := *c
	s.cases[c.ID] = &cloned
	return nil
}

func (s *InMemory) FindByID(ctx context.Context, caseID id.CaseID) (*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.cases[caseID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cloned := *c
	return &cloned, nil
}

func (s *InMemory) ListOpen(ctx context.Context) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Case
	for _, c := range s.cases {
		if c.IsOpen() {
			cloned := *c
			out = append(out, &cloned)
		}
	}
	sortByReportedAt(out)
	return out, nil
}

func (s *InMemory) ListByReporter(ctx context.Context, reporterID id.UserID) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Case
	for _, c := range s.cases {
		if c.ReporterID == reporterID {
			cloned := *c
			out = append(out, &cloned)
		}
	}
	sortByReportedAt(out)
	return out, nil
}

func (s *InMemory) ListByClaimant(ctx context.Context, orgID id.OrgID) ([]*models.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*models.Case
	for _, c := range s.cases {
		if c.ClaimantID != nil && *c.ClaimantID == orgID {
			cloned := *c
			out = append(out, &cloned)
		}
	}
	sortByReportedAt(out)
	return out, nil
}

func (s *InMemory) ActiveClaim(ctx context.Context, orgID id.OrgID) (id.CaseID, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	caseID, ok := s.activeClaimLocked(orgID)
	return caseID, ok, nil
}

// activeClaimLocked must be called with at least a read lock held.
func (s *InMemory) activeClaimLocked(orgID id.OrgID) (id.CaseID, bool) {
	for _, c := range s.cases {
		if c.Claimed && c.ClaimantID != nil && *c.ClaimantID == orgID {
			return c.ID, true
		}
	}
	return id.CaseID{}, false
}

func (s *InMemory) Claim(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return sentinel.ErrNotFound
	}
	// An organization already attending a case is busy regardless of the
	// target case's own state, so that check comes first.
	if held, busy := s.activeClaimLocked(orgID); busy && held != caseID {
		return sentinel.ErrAlreadyUsed
	}
	if c.Resolved {
		return sentinel.ErrInvalidState
	}
	if c.Claimed {
		return sentinel.ErrConflict
	}

	c.ApplyClaim(orgID)
	return nil
}

func (s *InMemory) Resolve(ctx context.Context, caseID id.CaseID, orgID id.OrgID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cases[caseID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if c.ClaimantID == nil || *c.ClaimantID != orgID {
		return sentinel.ErrConflict
	}
	if c.Resolved {
		return sentinel.ErrInvalidState
	}

	c.ApplyResolve()
	return nil
}

func sortByReportedAt(cs []*models.Case) {
	sort.Slice(cs, func(i, j int) bool {
		return cs[i].ReportedAt.After(cs[j].ReportedAt)
	})
}

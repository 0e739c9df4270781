package orgstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"resgate/internal/orgs/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// InMemory stores organizations in a map for tests and development. CNPJ
// and email uniqueness are checked under the same write lock that inserts,
// so concurrent registrations cannot both take the same CNPJ.
type InMemory struct {
	mu   sync.RWMutex
	orgs map[id.OrgID]*models.Organization
}

func NewInMemory() *InMemory {
	return &InMemory{orgs: make(map[id.OrgID]*models.Organization)}
}

func (s *InMemory) CreateIfCNPJAvailable(_ context.Context, org *models.Organization) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.orgs {
		if existing.CNPJ == org.CNPJ {
			return fmt.Errorf("cnpj already registered: %w", sentinel.ErrConflict)
		}
		if existing.Email == org.Email {
			return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
	}

	clone := *org
	s.orgs[org.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, orgID id.OrgID) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	clone := *org
	return &clone, nil
}

func (s *InMemory) FindByCNPJ(_ context.Context, cnpj string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.orgs {
		if org.CNPJ == cnpj {
			clone := *org
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, org := range s.orgs {
		if org.Email == email {
			clone := *org
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
}

func (s *InMemory) ListByStatus(_ context.Context, status models.ApprovalStatus) ([]*models.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Organization
	for _, org := range s.orgs {
		if org.Status == status {
			clone := *org
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].RegisteredAt.Before(out[j].RegisteredAt)
	})
	return out, nil
}

func (s *InMemory) Execute(_ context.Context, orgID id.OrgID,
	validate func(*models.Organization) error,
	mutate func(*models.Organization)) (*models.Organization, error) {

	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[orgID]
	if !ok {
		return nil, fmt.Errorf("organization not found: %w", sentinel.ErrNotFound)
	}
	if err := validate(org); err != nil {
		return nil, err
	}
	mutate(org)

	clone := *org
	return &clone, nil
}

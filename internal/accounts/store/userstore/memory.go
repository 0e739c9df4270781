package userstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"resgate/internal/accounts/models"
	id "resgate/pkg/domain"
	"resgate/pkg/platform/sentinel"
)

// InMemory stores users in a map for tests and development. Email and CPF
// uniqueness are checked under the same write lock that inserts, so
// concurrent registrations cannot both take the same email.
type InMemory struct {
	mu    sync.RWMutex
	users map[id.UserID]*models.User
}

func NewInMemory() *InMemory {
	return &InMemory{users: make(map[id.UserID]*models.User)}
}

func (s *InMemory) CreateIfAvailable(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email {
			return fmt.Errorf("email already registered: %w", sentinel.ErrConflict)
		}
		if user.CPF != "" && existing.CPF == user.CPF {
			return fmt.Errorf("cpf already registered: %w", sentinel.ErrConflict)
		}
	}

	clone := *user
	s.users[user.ID] = &clone
	return nil
}

func (s *InMemory) FindByID(_ context.Context, userID id.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
	}
	clone := *user
	return &clone, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("user not found: %w", sentinel.ErrNotFound)
}

func (s *InMemory) ListByOrganization(_ context.Context, orgID id.OrgID) ([]*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.User
	for _, user := range s.users {
		if user.OrgID == orgID && user.Role == models.RoleStaff {
			clone := *user
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

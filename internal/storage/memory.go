package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"resgate/pkg/platform/sentinel"
)

// InMemory is a map-backed ObjectStore for development and tests.
type InMemory struct {
	mu      sync.RWMutex
	objects map[string]object
	// FailUploads makes Upload return ErrUnavailable; tests use it to
	// exercise partial-success paths.
	FailUploads bool
	// FailCopies makes Copy fail; tests use it to exercise best-effort
	// document relocation.
	FailCopies bool
}

type object struct {
	data        []byte
	contentType string
}

// NewInMemory creates an empty in-memory object store.
func NewInMemory() *InMemory {
	return &InMemory{objects: make(map[string]object)}
}

func (s *InMemory) Upload(ctx context.Context, path string, data []byte, contentType string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailUploads {
		return "", sentinel.ErrUnavailable
	}
	buf := make([]byte, len(data))
	copy(buf, data)
	s.objects[path] = object{data: buf, contentType: contentType}
	return path, nil
}

func (s *InMemory) Copy(ctx context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCopies {
		return sentinel.ErrUnavailable
	}
	src, ok := s.objects[from]
	if !ok {
		return sentinel.ErrNotFound
	}
	s.objects[to] = src
	return nil
}

func (s *InMemory) Remove(ctx context.Context, paths ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range paths {
		delete(s.objects, p)
	}
	return nil
}

func (s *InMemory) SignedURL(ctx context.Context, path string, ttl time.Duration) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.objects[path]; !ok {
		return "", sentinel.ErrNotFound
	}
	return fmt.Sprintf("memory://%s?expires=%d", path, time.Now().Add(ttl).Unix()), nil
}

// Exists reports whether an object is stored under path. Test helper.
func (s *InMemory) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[path]
	return ok
}

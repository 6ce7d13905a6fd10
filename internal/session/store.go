// Package session holds the client-side session flag and bearer tokens.
//
// A Store is a string key-value map owned by the browser. Nothing in it is
// trusted beyond "this client considers itself logged in": a missing or
// unreadable value always reads as absent.
package session

import "sync"

const (
	KeyAuth    = "auth"
	KeyAccess  = "access"
	KeyRefresh = "refresh"
)

const (
	FlagTrue  = "true"
	FlagFalse = "false"
)

// Store is the persisted key-value contract consumed by the auth service.
// Setting an empty value removes the key.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string)
}

// MemoryStore is a Store that lives only as long as the value. It backs
// sessions that need no persistence, such as handler tests.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (s *MemoryStore) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *MemoryStore) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if value == "" {
		delete(s.values, key)
		return
	}
	s.values[key] = value
}

// Snapshot returns a copy of the stored values, for inspecting what a
// handler persisted without going through Get key by key.
func (s *MemoryStore) Snapshot() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

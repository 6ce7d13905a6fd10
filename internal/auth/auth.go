// Package auth is the single source of truth for whether the browser behind
// a request is logged in.
//
// A Service is built once per page load by Provider, synchronised from the
// session store exactly once, and then read or mutated by everything below
// the provider in the handler tree.
package auth

import (
	"sync"

	"github.com/aulavid/aulavid/internal/session"
)

// Service holds the derived authentication state for one page load.
type Service struct {
	store session.Store

	mu            sync.RWMutex
	authenticated bool
	listeners     []*listener

	once  sync.Once
	ready chan struct{}
}

type listener struct {
	fn func(authenticated bool)
}

func New(store session.Store) *Service {
	return &Service{store: store, ready: make(chan struct{})}
}

// Init reads the session flag. Only the first call has any effect.
func (s *Service) Init() {
	s.once.Do(func() {
		v, ok := s.store.Get(session.KeyAuth)
		s.mu.Lock()
		s.authenticated = ok && v == session.FlagTrue
		s.mu.Unlock()
		close(s.ready)
	})
}

// Ready is closed once Init has completed.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

func (s *Service) Initialized() bool {
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

func (s *Service) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.authenticated
}

func (s *Service) Login() {
	s.store.Set(session.KeyAuth, session.FlagTrue)
	s.set(true)
}

// LoginWithTokens stores the bearer tokens as-is and logs in. The tokens
// are not validated here.
func (s *Service) LoginWithTokens(access, refresh string) {
	s.store.Set(session.KeyAccess, access)
	s.store.Set(session.KeyRefresh, refresh)
	s.Login()
}

func (s *Service) Logout() {
	s.store.Set(session.KeyAuth, session.FlagFalse)
	s.store.Set(session.KeyAccess, "")
	s.store.Set(session.KeyRefresh, "")
	s.set(false)
}

func (s *Service) AccessToken() string {
	v, _ := s.store.Get(session.KeyAccess)
	return v
}

func (s *Service) RefreshToken() string {
	v, _ := s.store.Get(session.KeyRefresh)
	return v
}

// Subscribe registers fn to be called synchronously after every Login or
// Logout. The returned func removes it.
func (s *Service) Subscribe(fn func(authenticated bool)) (unsubscribe func()) {
	l := &listener{fn: fn}
	s.mu.Lock()
	s.listeners = append(s.listeners, l)
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, existing := range s.listeners {
			if existing == l {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Service) set(authenticated bool) {
	s.mu.Lock()
	s.authenticated = authenticated
	listeners := make([]*listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(authenticated)
	}
}

// Package session holds the authenticated identity for one storefront
// process and gates every user-scoped data load.
//
// The store is the single source of truth for "who is using this client".
// Absence of an identity means "not authenticated" and is distinct from
// "not yet resolved", which is tracked by a separate resolving flag until
// the startup probe completes.
package session

import (
	"context"
	"sync"

	"github.com/duynhne/bookstored/internal/api"
)

// Authenticator is the remote session boundary consumed by the store.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (api.User, error)
	Register(ctx context.Context, input api.RegisterInput) (api.User, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (api.User, error)
	UpdateProfile(ctx context.Context, patch api.ProfilePatch) (api.User, error)
}

// Observer is notified after every identity transition. The identity is nil
// when the user is signed out.
type Observer func(ctx context.Context, identity *api.User)

// Store holds at most one authenticated identity at a time.
//
// Construct one Store at process start and hand the reference to every
// consumer; consumers never construct their own.
type Store struct {
	client Authenticator

	mu        sync.RWMutex
	identity  *api.User
	resolving bool
	observers []Observer
}

// New creates a session store. The identity starts unresolved until
// Resolve completes.
func New(client Authenticator) *Store {
	return &Store{client: client, resolving: true}
}

// Subscribe registers an observer for identity transitions. Registration
// order is notification order.
func (s *Store) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// Identity returns the current identity, or ok=false when signed out.
func (s *Store) Identity() (api.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return api.User{}, false
	}
	return *s.identity, true
}

// Resolving reports whether the startup session probe is still in flight.
func (s *Store) Resolving() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.resolving
}

// Resolve queries the remote session endpoint once at startup. Any failure,
// including an unauthenticated session, resolves to an absent identity;
// it is never treated as an application error.
func (s *Store) Resolve(ctx context.Context) {
	user, err := s.client.CurrentUser(ctx)
	if err != nil {
		s.replace(ctx, nil)
		return
	}
	s.replace(ctx, &user)
}

// Login submits credentials and replaces the identity wholesale on success.
// Failures propagate untouched so the calling form can display them.
func (s *Store) Login(ctx context.Context, username, password string) error {
	user, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	s.replace(ctx, &user)
	return nil
}

// Register creates an account. Registration authenticates, so success also
// replaces the identity.
func (s *Store) Register(ctx context.Context, input api.RegisterInput) error {
	user, err := s.client.Register(ctx, input)
	if err != nil {
		return err
	}
	s.replace(ctx, &user)
	return nil
}

// Logout ends the session. The identity is cleared only after the server
// confirms; on failure it is left untouched and the error propagates.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.client.Logout(ctx); err != nil {
		return err
	}
	s.replace(ctx, nil)
	return nil
}

// UpdateProfile submits a profile patch and adopts the server-confirmed
// record. The held identity is never patched optimistically.
func (s *Store) UpdateProfile(ctx context.Context, patch api.ProfilePatch) error {
	user, err := s.client.UpdateProfile(ctx, patch)
	if err != nil {
		return err
	}
	s.replace(ctx, &user)
	return nil
}

// replace swaps the identity and notifies observers outside the lock.
func (s *Store) replace(ctx context.Context, identity *api.User) {
	s.mu.Lock()
	s.identity = identity
	s.resolving = false
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(ctx, identity)
	}
}

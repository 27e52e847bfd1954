// Package cart mirrors the server-side shopping cart for the current
// identity and layers checkout selection state on top of it.
//
// The mirror is authoritative only until the next refresh: every mutation is
// submitted to the server and followed by a wholesale re-fetch instead of a
// local patch, because price and stock authority is server-side.
package cart

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/store/session"
)

// clearConcurrency bounds the delete fan-out for bulk removal.
const clearConcurrency = 8

// API is the remote cart boundary consumed by the store. *api.Client
// satisfies it.
type API interface {
	Cart(ctx context.Context) ([]api.CartItem, error)
	AddToCart(ctx context.Context, bookID, quantity int) (api.CartItem, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) (api.CartItem, error)
	RemoveCartItem(ctx context.Context, itemID int) error
}

// Observer is notified with a snapshot of the mirror after every
// replacement.
type Observer func(items []api.CartItem)

// Store is the local mirror of the server cart.
//
// Methods are safe for concurrent use. The busy flag is advisory: the store
// accepts overlapping mutations, and out-of-order refresh completions are
// discarded by sequence number so a stale response can never overwrite a
// newer mirror.
type Store struct {
	client   API
	sessions *session.Store

	mu         sync.Mutex
	items      []api.CartItem
	busy       int
	issuedSeq  uint64
	appliedSeq uint64
	observers  []Observer
}

// New creates a cart store bound to the given session store. The store
// subscribes to identity transitions: a new identity triggers a refresh, a
// sign-out clears the mirror.
func New(client API, sessions *session.Store) *Store {
	s := &Store{client: client, sessions: sessions}
	sessions.Subscribe(func(ctx context.Context, identity *api.User) {
		if identity == nil {
			s.applyEmpty()
			return
		}
		_ = s.Refresh(ctx)
	})
	return s
}

// Items returns a copy of the current mirror.
func (s *Store) Items() []api.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]api.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Busy reports whether any mutation or refresh is in flight. It is a hint
// for disabling redundant controls, not a lock.
func (s *Store) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy > 0
}

// TotalAmount is the sum of unit price times quantity over the whole mirror.
func (s *Store) TotalAmount() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, item := range s.items {
		total += item.Book.Price * float64(item.Quantity)
	}
	return total
}

// TotalItems is the sum of quantities over the whole mirror.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// Subscribe registers an observer for mirror replacements.
func (s *Store) Subscribe(observer Observer) {
	if observer == nil {
		return
	}
	s.mu.Lock()
	s.observers = append(s.observers, observer)
	s.mu.Unlock()
}

// Refresh replaces the mirror with the server's cart. Without an identity it
// empties the mirror and issues no network call. A read failure degrades to
// an empty mirror rather than an error, so a transient fault does not take
// the screen down with it.
func (s *Store) Refresh(ctx context.Context) error {
	if _, ok := s.sessions.Identity(); !ok {
		s.applyEmpty()
		return nil
	}

	s.enterBusy()
	defer s.leaveBusy()

	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()

	items, err := s.client.Cart(ctx)
	if err != nil {
		items = nil
	}
	s.apply(seq, items)
	return nil
}

// Add submits an add request for quantity of a book, then refreshes.
// The server is the sole authority on stock sufficiency and price.
func (s *Store) Add(ctx context.Context, bookID, quantity int) error {
	s.enterBusy()
	defer s.leaveBusy()

	if _, err := s.client.AddToCart(ctx, bookID, quantity); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// UpdateQuantity sets the quantity of one line, then refreshes. Quantities
// below one are rejected locally with no network call, absorbing rapid
// decrement clicks past the floor.
func (s *Store) UpdateQuantity(ctx context.Context, itemID, quantity int) error {
	if quantity < 1 {
		return nil
	}

	s.enterBusy()
	defer s.leaveBusy()

	if _, err := s.client.UpdateCartItem(ctx, itemID, quantity); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Remove deletes one line, then refreshes.
func (s *Store) Remove(ctx context.Context, itemID int) error {
	s.enterBusy()
	defer s.leaveBusy()

	if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// Clear removes every line with one delete per line, fanned out
// concurrently.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	ids := make([]int, 0, len(s.items))
	for _, item := range s.items {
		ids = append(ids, item.ID)
	}
	s.mu.Unlock()
	return s.RemoveMany(ctx, ids)
}

// RemoveMany deletes the given lines concurrently and reconciles the mirror
// to exactly the lines the server confirmed removed: lines whose delete
// failed stay in the mirror instead of being assumed gone. The first failure
// is reported after the whole fan-out settles.
func (s *Store) RemoveMany(ctx context.Context, itemIDs []int) error {
	if len(itemIDs) == 0 {
		return nil
	}

	s.enterBusy()
	defer s.leaveBusy()

	var (
		resultMu sync.Mutex
		removed  = make(map[int]bool, len(itemIDs))
	)
	group := &errgroup.Group{}
	group.SetLimit(clearConcurrency)
	for _, itemID := range itemIDs {
		group.Go(func() error {
			if err := s.client.RemoveCartItem(ctx, itemID); err != nil {
				return fmt.Errorf("remove cart item %d: %w", itemID, err)
			}
			resultMu.Lock()
			removed[itemID] = true
			resultMu.Unlock()
			return nil
		})
	}
	err := group.Wait()

	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	kept := make([]api.CartItem, 0, len(s.items))
	for _, item := range s.items {
		if !removed[item.ID] {
			kept = append(kept, item)
		}
	}
	s.mu.Unlock()
	s.apply(seq, kept)

	return err
}

// applyEmpty replaces the mirror with an empty sequence immediately.
func (s *Store) applyEmpty() {
	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.mu.Unlock()
	s.apply(seq, nil)
}

// apply installs a refresh result unless a newer one has already landed.
func (s *Store) apply(seq uint64, items []api.CartItem) {
	s.mu.Lock()
	if seq <= s.appliedSeq {
		s.mu.Unlock()
		return
	}
	s.appliedSeq = seq
	s.items = items
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	snapshot := make([]api.CartItem, len(items))
	copy(snapshot, items)
	s.mu.Unlock()

	for _, observer := range observers {
		observer(snapshot)
	}
}

func (s *Store) enterBusy() {
	s.mu.Lock()
	s.busy++
	s.mu.Unlock()
}

func (s *Store) leaveBusy() {
	s.mu.Lock()
	s.busy--
	s.mu.Unlock()
}

// sortedIDs returns the line ids of a snapshot in ascending order.
func sortedIDs(items []api.CartItem) []int {
	ids := make([]int, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	sort.Ints(ids)
	return ids
}

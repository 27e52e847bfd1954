package cart

import (
	"context"
	"sync"

	"github.com/duynhne/bookstored/internal/api"
)

// Selection tracks which cart lines are checked for the next checkout.
//
// Selection is ephemeral view state kept outside the mirror itself: it
// subscribes to mirror replacements and reconciles on every one. When the
// number of lines changes, the whole new sequence is re-selected (every item
// defaults to checked); within a stable line count, ids that left the
// sequence are pruned so no selection entry ever dangles.
type Selection struct {
	store *Store

	mu      sync.Mutex
	ids     map[int]bool
	lastLen int
}

// NewSelection creates a selection overlay bound to a cart store.
func NewSelection(store *Store) *Selection {
	sel := &Selection{store: store, ids: make(map[int]bool)}
	store.Subscribe(sel.reconcile)
	sel.reconcile(store.Items())
	return sel
}

// reconcile realigns the selection with a new mirror snapshot.
func (sel *Selection) reconcile(items []api.CartItem) {
	sel.mu.Lock()
	defer sel.mu.Unlock()

	if len(items) != sel.lastLen {
		sel.ids = make(map[int]bool, len(items))
		for _, item := range items {
			sel.ids[item.ID] = true
		}
		sel.lastLen = len(items)
		return
	}

	present := make(map[int]bool, len(items))
	for _, item := range items {
		present[item.ID] = true
	}
	for id := range sel.ids {
		if !present[id] {
			delete(sel.ids, id)
		}
	}
}

// Toggle inserts or removes a single line id from the selection.
func (sel *Selection) Toggle(itemID int) {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	if sel.ids[itemID] {
		delete(sel.ids, itemID)
		return
	}
	sel.ids[itemID] = true
}

// ToggleAll clears the selection when every line is selected, and selects
// every line otherwise.
func (sel *Selection) ToggleAll() {
	items := sel.store.Items()

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if len(items) > 0 && len(sel.ids) == len(items) {
		sel.ids = make(map[int]bool)
		return
	}
	sel.ids = make(map[int]bool, len(items))
	for _, item := range items {
		sel.ids[item.ID] = true
	}
}

// Has reports whether one line is selected.
func (sel *Selection) Has(itemID int) bool {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	return sel.ids[itemID]
}

// Selected returns the selected line ids in ascending order.
func (sel *Selection) Selected() []int {
	items := sel.store.Items()

	sel.mu.Lock()
	defer sel.mu.Unlock()
	kept := make([]api.CartItem, 0, len(items))
	for _, item := range items {
		if sel.ids[item.ID] {
			kept = append(kept, item)
		}
	}
	return sortedIDs(kept)
}

// RemoveSelected bulk-removes every selected line from the cart. The
// removal reconciles like any other: lines whose delete was declined stay in
// the mirror and therefore stay selected.
func (sel *Selection) RemoveSelected(ctx context.Context) error {
	return sel.store.RemoveMany(ctx, sel.Selected())
}

// Count returns the number of selected lines.
func (sel *Selection) Count() int {
	sel.mu.Lock()
	defer sel.mu.Unlock()
	return len(sel.ids)
}

// Empty reports whether nothing is selected. Checkout must be refused while
// the selection is empty.
func (sel *Selection) Empty() bool {
	return sel.Count() == 0
}

// AllSelected reports whether every line of a non-empty cart is selected.
func (sel *Selection) AllSelected() bool {
	items := sel.store.Items()

	sel.mu.Lock()
	defer sel.mu.Unlock()
	if len(items) == 0 {
		return false
	}
	for _, item := range items {
		if !sel.ids[item.ID] {
			return false
		}
	}
	return true
}

// SelectedTotal is the sum of unit price times quantity over the selected
// lines only, the value surfaced to checkout.
func (sel *Selection) SelectedTotal() float64 {
	items := sel.store.Items()

	sel.mu.Lock()
	defer sel.mu.Unlock()
	var total float64
	for _, item := range items {
		if sel.ids[item.ID] {
			total += item.Book.Price * float64(item.Quantity)
		}
	}
	return total
}

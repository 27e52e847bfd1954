package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/store/session"
)

// fakeAuth satisfies session.Authenticator with an always-successful account.
type fakeAuth struct {
	user api.User
}

func (f *fakeAuth) Login(ctx context.Context, username, password string) (api.User, error) {
	return f.user, nil
}

func (f *fakeAuth) Register(ctx context.Context, input api.RegisterInput) (api.User, error) {
	return f.user, nil
}

func (f *fakeAuth) Logout(ctx context.Context) error { return nil }

func (f *fakeAuth) CurrentUser(ctx context.Context) (api.User, error) {
	return f.user, nil
}

func (f *fakeAuth) UpdateProfile(ctx context.Context, patch api.ProfilePatch) (api.User, error) {
	return f.user, nil
}

// fakeCartAPI simulates the server-side cart: adds append a line, updates
// set quantities, deletes drop the line. Every mutation is visible to the
// next Cart read, like the real backend.
type fakeCartAPI struct {
	mu     sync.Mutex
	lines  []api.CartItem
	nextID int

	getCalls    int
	removeCalls int

	getErr    error
	addErr    error
	updateErr error
	// removeFail lists line ids whose delete is declined.
	removeFail map[int]error
}

func newFakeCartAPI() *fakeCartAPI {
	return &fakeCartAPI{nextID: 1}
}

func (f *fakeCartAPI) seed(lines ...api.CartItem) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = append(f.lines, lines...)
	for _, line := range lines {
		if line.ID >= f.nextID {
			f.nextID = line.ID + 1
		}
	}
}

func (f *fakeCartAPI) Cart(ctx context.Context) ([]api.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	lines := make([]api.CartItem, len(f.lines))
	copy(lines, f.lines)
	return lines, nil
}

func (f *fakeCartAPI) AddToCart(ctx context.Context, bookID, quantity int) (api.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.addErr != nil {
		return api.CartItem{}, f.addErr
	}
	line := api.CartItem{
		ID:       f.nextID,
		BookID:   bookID,
		Quantity: quantity,
		Book:     api.Book{ID: bookID, Title: fmt.Sprintf("book-%d", bookID)},
	}
	f.nextID++
	f.lines = append(f.lines, line)
	return line, nil
}

func (f *fakeCartAPI) UpdateCartItem(ctx context.Context, itemID, quantity int) (api.CartItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return api.CartItem{}, f.updateErr
	}
	for i := range f.lines {
		if f.lines[i].ID == itemID {
			f.lines[i].Quantity = quantity
			return f.lines[i], nil
		}
	}
	return api.CartItem{}, &api.Error{Status: 404, Message: "Cart item not found"}
}

func (f *fakeCartAPI) RemoveCartItem(ctx context.Context, itemID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls++
	if err := f.removeFail[itemID]; err != nil {
		return err
	}
	for i := range f.lines {
		if f.lines[i].ID == itemID {
			f.lines = append(f.lines[:i], f.lines[i+1:]...)
			return nil
		}
	}
	return nil
}

// newSignedInStore returns a cart store whose session already holds an
// identity.
func newSignedInStore(t *testing.T, client API) (*Store, *session.Store) {
	t.Helper()
	sessions := session.New(&fakeAuth{user: api.User{ID: 1, Username: "an", Role: api.RoleCustomer}})
	store := New(client, sessions)
	if err := sessions.Login(context.Background(), "an", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	return store, sessions
}

func line(id, bookID, quantity int, price float64) api.CartItem {
	return api.CartItem{
		ID:       id,
		BookID:   bookID,
		Quantity: quantity,
		Book:     api.Book{ID: bookID, Price: price},
	}
}

func TestRefreshWithoutIdentitySkipsNetwork(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	sessions := session.New(&fakeAuth{})
	store := New(client, sessions)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Fatalf("mirror length = %d, want 0", got)
	}
	if client.getCalls != 0 {
		t.Fatalf("cart fetches = %d, want 0", client.getCalls)
	}
}

func TestRefreshIsIdempotent(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000), line(2, 43, 1, 50000))
	store, _ := newSignedInStore(t, client)

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	first := store.Items()
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("second refresh: %v", err)
	}
	second := store.Items()

	if len(first) != len(second) {
		t.Fatalf("mirror lengths differ: %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID || first[i].Quantity != second[i].Quantity {
			t.Fatalf("mirror changed between refreshes: %+v then %+v", first[i], second[i])
		}
	}
}

func TestRefreshFailureDegradesToEmptyMirror(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	store, _ := newSignedInStore(t, client)

	client.mu.Lock()
	client.getErr = errors.New("read timeout")
	client.mu.Unlock()

	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("read failure must not propagate, got %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Fatalf("mirror length = %d, want 0 after degraded refresh", got)
	}
}

func TestAddThenListReflectsServerCart(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	store, _ := newSignedInStore(t, client)

	if err := store.Add(context.Background(), 42, 2); err != nil {
		t.Fatalf("add: %v", err)
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("mirror length = %d, want 1", len(items))
	}
	if items[0].BookID != 42 || items[0].Quantity != 2 {
		t.Fatalf("line = %+v, want book 42 quantity 2", items[0])
	}
	if got := store.TotalItems(); got != 2 {
		t.Fatalf("TotalItems() = %d, want 2", got)
	}
}

func TestAddFailurePropagatesAndMirrorUnchanged(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	declined := &api.Error{Status: 400, Message: "Insufficient stock"}
	client.mu.Lock()
	client.addErr = declined
	client.mu.Unlock()

	err := store.Add(context.Background(), 43, 1)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Message != "Insufficient stock" {
		t.Fatalf("expected server refusal to propagate, got %v", err)
	}
	if got := len(store.Items()); got != 1 {
		t.Fatalf("mirror length = %d, want 1", got)
	}
}

func TestUpdateQuantityFloorIssuesNoRequest(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fetchesBefore := client.getCalls

	for _, quantity := range []int{0, -1} {
		if err := store.UpdateQuantity(context.Background(), 1, quantity); err != nil {
			t.Fatalf("UpdateQuantity(1, %d) = %v, want nil", quantity, err)
		}
	}

	if client.getCalls != fetchesBefore {
		t.Fatalf("cart fetches = %d, want %d (no network for sub-floor quantity)", client.getCalls, fetchesBefore)
	}
	items := store.Items()
	if len(items) != 1 || items[0].Quantity != 2 {
		t.Fatalf("mirror = %+v, want single line with quantity 2", items)
	}
}

func TestTotals(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000), line(2, 43, 1, 50000))
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	if got := store.TotalAmount(); got != 250000 {
		t.Fatalf("TotalAmount() = %v, want 250000", got)
	}
	if got := store.TotalItems(); got != 3 {
		t.Fatalf("TotalItems() = %d, want 3", got)
	}
}

func TestLogoutClearsMirror(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 1, 100000), line(2, 43, 1, 50000), line(3, 44, 1, 75000))
	store, sessions := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if got := len(store.Items()); got != 3 {
		t.Fatalf("mirror length = %d, want 3", got)
	}

	if err := sessions.Logout(context.Background()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Fatalf("mirror length = %d, want 0 after logout", got)
	}
}

func TestLoginTriggersRefreshForNewIdentity(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	sessions := session.New(&fakeAuth{user: api.User{ID: 1, Username: "an"}})
	store := New(client, sessions)

	if got := len(store.Items()); got != 0 {
		t.Fatalf("mirror length = %d, want 0 before login", got)
	}
	if err := sessions.Login(context.Background(), "an", "secret"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if got := len(store.Items()); got != 1 {
		t.Fatalf("mirror length = %d, want 1 after login", got)
	}
}

func TestClearRemovesEveryLineWithoutRefetch(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 1, 100000), line(2, 43, 1, 50000), line(3, 44, 1, 75000))
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	fetchesBefore := client.getCalls

	if err := store.Clear(context.Background()); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if got := len(store.Items()); got != 0 {
		t.Fatalf("mirror length = %d, want 0 after clear", got)
	}
	if client.removeCalls != 3 {
		t.Fatalf("delete calls = %d, want 3", client.removeCalls)
	}
	if client.getCalls != fetchesBefore {
		t.Fatalf("cart fetches = %d, want %d (clear reconciles locally)", client.getCalls, fetchesBefore)
	}
}

func TestRemoveManyPartialFailureKeepsUnconfirmedLines(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 1, 100000), line(2, 43, 1, 50000), line(3, 44, 1, 75000))
	client.removeFail = map[int]error{2: &api.Error{Status: 500, Message: "delete failed"}}
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	err := store.RemoveMany(context.Background(), []int{1, 2, 3})
	if err == nil {
		t.Fatal("expected partial-batch failure to propagate")
	}

	items := store.Items()
	if len(items) != 1 {
		t.Fatalf("mirror length = %d, want 1", len(items))
	}
	if items[0].ID != 2 {
		t.Fatalf("surviving line id = %d, want 2 (delete was declined)", items[0].ID)
	}
}

func TestStaleRefreshResponseIsDiscarded(t *testing.T) {
	t.Parallel()

	client := newFakeCartAPI()
	client.seed(line(1, 42, 2, 100000))
	store, _ := newSignedInStore(t, client)
	if err := store.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	// An older sequence number arriving after a newer one must not win.
	store.mu.Lock()
	store.issuedSeq += 2
	older, newer := store.issuedSeq-1, store.issuedSeq
	store.mu.Unlock()

	store.apply(newer, []api.CartItem{line(9, 50, 1, 20000)})
	store.apply(older, []api.CartItem{line(1, 42, 2, 100000), line(2, 43, 1, 50000)})

	items := store.Items()
	if len(items) != 1 || items[0].ID != 9 {
		t.Fatalf("mirror = %+v, want only the newer snapshot's line 9", items)
	}
}

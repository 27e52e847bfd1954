package devserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
	"github.com/duynhne/bookstored/internal/devserver/storage/sqlite"
)

func newTestServer(t *testing.T) (*httptest.Server, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "bookstore.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	server := httptest.NewServer(NewHandler(store, []byte("test-secret")))
	t.Cleanup(server.Close)
	return server, store
}

func newTestClient(t *testing.T, server *httptest.Server) *api.Client {
	t.Helper()
	client, err := api.New(server.URL + "/api")
	if err != nil {
		t.Fatalf("api.New() error = %v", err)
	}
	return client
}

func createAccount(t *testing.T, store *sqlite.Store, username, password, role string) storage.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt.GenerateFromPassword() error = %v", err)
	}
	user, err := store.CreateUser(context.Background(), storage.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	})
	if err != nil {
		t.Fatalf("CreateUser() error = %v", err)
	}
	return user
}

func seedBook(t *testing.T, store *sqlite.Store, title string, price float64, stock int) api.Book {
	t.Helper()
	book, err := store.CreateBook(context.Background(), api.BookInput{
		Title: title, Author: "Author", Category: "fiction", Price: price, Stock: stock,
	})
	if err != nil {
		t.Fatalf("CreateBook() error = %v", err)
	}
	return book
}

func TestRegisterAuthenticatesSession(t *testing.T) {
	t.Parallel()
	server, _ := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	created, err := client.Register(ctx, api.RegisterInput{
		Username: "alice", Email: "alice@example.com", Password: "secret1", FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if created.Role != api.RoleCustomer {
		t.Fatalf("Register() role = %q, want %q", created.Role, api.RoleCustomer)
	}
	if created.CustomerCode == "" {
		t.Fatal("Register() customer code is empty")
	}

	current, err := client.CurrentUser(ctx)
	if err != nil {
		t.Fatalf("CurrentUser() error = %v", err)
	}
	if current.Username != "alice" {
		t.Fatalf("CurrentUser() username = %q, want %q", current.Username, "alice")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	createAccount(t, store, "bob", "secret1", api.RoleCustomer)

	_, err := client.Login(context.Background(), "bob", "wrong")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("Login() error = %v, want *api.Error", err)
	}
	if apiErr.Status != http.StatusUnauthorized {
		t.Fatalf("Login() status = %d, want %d", apiErr.Status, http.StatusUnauthorized)
	}
	if apiErr.Message != "invalid username or password" {
		t.Fatalf("Login() message = %q, want %q", apiErr.Message, "invalid username or password")
	}
}

func TestLoginRejectsDisabledAccount(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	user := createAccount(t, store, "carol", "secret1", api.RoleCustomer)
	if _, err := store.SetUserActive(ctx, user.ID, false); err != nil {
		t.Fatalf("SetUserActive() error = %v", err)
	}

	_, err := client.Login(ctx, "carol", "secret1")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("Login() error = %v, want 403 *api.Error", err)
	}
}

func TestLogoutEndsSession(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "dave", "secret1", api.RoleCustomer)
	if _, err := client.Login(ctx, "dave", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if err := client.Logout(ctx); err != nil {
		t.Fatalf("Logout() error = %v", err)
	}

	if _, err := client.CurrentUser(ctx); !errors.Is(err, api.ErrUnauthenticated) {
		t.Fatalf("CurrentUser() error = %v, want ErrUnauthenticated", err)
	}
}

func TestCartAddMergesExistingLine(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "erin", "secret1", api.RoleCustomer)
	book := seedBook(t, store, "Dune", 100000, 5)
	if _, err := client.Login(ctx, "erin", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	if _, err := client.AddToCart(ctx, book.ID, 2); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}
	merged, err := client.AddToCart(ctx, book.ID, 1)
	if err != nil {
		t.Fatalf("AddToCart() second error = %v", err)
	}
	if merged.Quantity != 3 {
		t.Fatalf("AddToCart() merged quantity = %d, want 3", merged.Quantity)
	}

	items, err := client.Cart(ctx)
	if err != nil {
		t.Fatalf("Cart() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("Cart() len = %d, want 1", len(items))
	}
}

func TestCartAddRejectsShortStock(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "frank", "secret1", api.RoleCustomer)
	book := seedBook(t, store, "Dune", 100000, 2)
	if _, err := client.Login(ctx, "frank", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err := client.AddToCart(ctx, book.ID, 3)
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("AddToCart() error = %v, want 400 *api.Error", err)
	}
}

func TestCartIsPerUser(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	ctx := context.Background()

	createAccount(t, store, "gina", "secret1", api.RoleCustomer)
	createAccount(t, store, "hank", "secret1", api.RoleCustomer)
	book := seedBook(t, store, "Dune", 100000, 5)

	first := newTestClient(t, server)
	if _, err := first.Login(ctx, "gina", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	item, err := first.AddToCart(ctx, book.ID, 1)
	if err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	second := newTestClient(t, server)
	if _, err := second.Login(ctx, "hank", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	items, err := second.Cart(ctx)
	if err != nil {
		t.Fatalf("Cart() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Cart() len = %d, want 0", len(items))
	}

	if err := second.RemoveCartItem(ctx, item.ID); err == nil {
		t.Fatal("RemoveCartItem() on another user's line succeeded, want error")
	}
}

func TestOrderFlowConsumesCart(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "ivy", "secret1", api.RoleCustomer)
	book := seedBook(t, store, "Dune", 100000, 5)
	if _, err := client.Login(ctx, "ivy", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := client.AddToCart(ctx, book.ID, 2); err != nil {
		t.Fatalf("AddToCart() error = %v", err)
	}

	order, err := client.CreateOrder(ctx, "12 Nguyen Hue")
	if err != nil {
		t.Fatalf("CreateOrder() error = %v", err)
	}
	if order.TotalAmount != 200000 {
		t.Fatalf("CreateOrder() total = %v, want 200000", order.TotalAmount)
	}

	items, err := client.Cart(ctx)
	if err != nil {
		t.Fatalf("Cart() error = %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("Cart() after order len = %d, want 0", len(items))
	}

	orders, err := client.Orders(ctx)
	if err != nil {
		t.Fatalf("Orders() error = %v", err)
	}
	if len(orders) != 1 || orders[0].ID != order.ID {
		t.Fatalf("Orders() = %+v, want the placed order", orders)
	}
}

func TestCreateOrderRequiresShippingAddress(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "june", "secret1", api.RoleCustomer)
	if _, err := client.Login(ctx, "june", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err := client.CreateOrder(ctx, "  ")
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadRequest {
		t.Fatalf("CreateOrder() error = %v, want 400 *api.Error", err)
	}
}

func TestBookWritesRequireStaffRole(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	createAccount(t, store, "kate", "secret1", api.RoleCustomer)
	if _, err := client.Login(ctx, "kate", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	_, err := client.CreateBook(ctx, api.BookInput{Title: "Dune", Price: 100000, Stock: 1})
	var apiErr *api.Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusForbidden {
		t.Fatalf("CreateBook() error = %v, want 403 *api.Error", err)
	}
}

func TestAdminEndpointsRequireAdminRole(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	ctx := context.Background()

	createAccount(t, store, "liam", "secret1", api.RoleCustomer)
	admin := createAccount(t, store, "root", "secret1", api.RoleAdmin)

	customer := newTestClient(t, server)
	if _, err := customer.Login(ctx, "liam", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := customer.AdminUsers(ctx); err == nil {
		t.Fatal("AdminUsers() as customer succeeded, want error")
	}

	adminClient := newTestClient(t, server)
	if _, err := adminClient.Login(ctx, "root", "secret1"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	users, err := adminClient.AdminUsers(ctx)
	if err != nil {
		t.Fatalf("AdminUsers() error = %v", err)
	}
	if len(users) != 2 {
		t.Fatalf("AdminUsers() len = %d, want 2", len(users))
	}

	if _, err := adminClient.SetUserActive(ctx, admin.ID, false); err == nil {
		t.Fatal("SetUserActive() on own account succeeded, want error")
	}
}

func TestAdminStaffUpdateNotSupported(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)

	staff := createAccount(t, store, "mona", "secret1", api.RoleStaff)
	createAccount(t, store, "root", "secret1", api.RoleAdmin)

	httpClient := server.Client()
	req, err := http.NewRequest(http.MethodPut, server.URL+"/api/admin/staff/"+strconv.Itoa(staff.ID), nil)
	if err != nil {
		t.Fatalf("NewRequest() error = %v", err)
	}
	cookie := loginCookie(t, server, "root", "secret1")
	req.AddCookie(cookie)

	resp, err := httpClient.Do(req)
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotImplemented {
		t.Fatalf("staff update status = %d, want %d", resp.StatusCode, http.StatusNotImplemented)
	}
}

func TestPublicBannersListActiveOnly(t *testing.T) {
	t.Parallel()
	server, store := newTestServer(t)
	client := newTestClient(t, server)
	ctx := context.Background()

	if _, err := store.CreateBanner(ctx, api.BannerInput{
		Title: "Sale", ImageURL: "/img/sale.png", Position: api.BannerMain, IsActive: true,
	}); err != nil {
		t.Fatalf("CreateBanner() error = %v", err)
	}
	hidden, err := store.CreateBanner(ctx, api.BannerInput{
		Title: "Draft", ImageURL: "/img/draft.png", Position: api.BannerMain, IsActive: true,
	})
	if err != nil {
		t.Fatalf("CreateBanner() error = %v", err)
	}
	if _, err := store.ToggleBanner(ctx, hidden.ID); err != nil {
		t.Fatalf("ToggleBanner() error = %v", err)
	}

	banners, err := client.Banners(ctx, api.BannerMain)
	if err != nil {
		t.Fatalf("Banners() error = %v", err)
	}
	if len(banners) != 1 || banners[0].Title != "Sale" {
		t.Fatalf("Banners() = %+v, want only the active banner", banners)
	}
}

// loginCookie performs a raw login and returns the session cookie.
func loginCookie(t *testing.T, server *httptest.Server, username, password string) *http.Cookie {
	t.Helper()
	body := strings.NewReader(`{"username":"` + username + `","password":"` + password + `"}`)
	resp, err := server.Client().Post(server.URL+"/api/login", "application/json", body)
	if err != nil {
		t.Fatalf("login request error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == sessionCookieName {
			return cookie
		}
	}
	t.Fatal("login response has no session cookie")
	return nil
}

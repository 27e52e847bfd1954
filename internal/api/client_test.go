package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New("  "); err == nil {
		t.Fatal("expected error for empty base url")
	}
}

func TestErrorExtractionPrefersErrorField(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error": "Insufficient stock"}`, "Insufficient stock"},
		{"message field", `{"message": "Invalid quantity"}`, "Invalid quantity"},
		{"error wins over message", `{"error": "a", "message": "b"}`, "a"},
		{"plain text body", `upstream exploded`, "upstream exploded"},
		{"empty body", ``, "request failed with status 400"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := New(srv.URL)
			if err != nil {
				t.Fatalf("new client: %v", err)
			}
			_, err = client.AddToCart(context.Background(), 1, 1)

			var apiErr *Error
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *Error, got %T: %v", err, err)
			}
			if apiErr.Message != tt.want {
				t.Fatalf("message = %q, want %q", apiErr.Message, tt.want)
			}
			if apiErr.Status != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", apiErr.Status, http.StatusBadRequest)
			}
		})
	}
}

func TestNoResponseIsDistinctCondition(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // closed before use: every request fails at the transport

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.Cart(context.Background())
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("expected ErrNoResponse, got %v", err)
	}
}

func TestSessionCookiePersistsAcrossCalls(t *testing.T) {
	const cookieName = "bookstore_session"

	mux := http.NewServeMux()
	mux.HandleFunc("/login", func(w http.ResponseWriter, r *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "tok-1", Path: "/"})
		_, _ = w.Write([]byte(`{"user": {"id": 7, "username": "an"}}`))
	})
	mux.HandleFunc("/me", func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(cookieName)
		if err != nil || cookie.Value != "tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "Authentication required"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user": {"id": 7, "username": "an"}}`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}

	if _, err := client.CurrentUser(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("pre-login current user: expected ErrUnauthenticated, got %v", err)
	}

	user, err := client.Login(context.Background(), "an", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != 7 {
		t.Fatalf("login user id = %d, want 7", user.ID)
	}

	user, err = client.CurrentUser(context.Background())
	if err != nil {
		t.Fatalf("current user after login: %v", err)
	}
	if user.Username != "an" {
		t.Fatalf("current user = %q, want %q", user.Username, "an")
	}
}

func TestBooksEncodesListOptions(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(`{"books": [], "total": 0, "page": 2, "per_page": 12, "pages": 0}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	page, err := client.Books(context.Background(), BookListOptions{Page: 2, PerPage: 12, Search: "go"})
	if err != nil {
		t.Fatalf("books: %v", err)
	}
	if page.Page != 2 {
		t.Fatalf("page = %d, want 2", page.Page)
	}
	if gotQuery != "page=2&per_page=12&search=go" {
		t.Fatalf("query = %q, want %q", gotQuery, "page=2&per_page=12&search=go")
	}
}

func TestCartDecodesEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cart": [
			{"id": 1, "book_id": 42, "quantity": 2, "book": {"id": 42, "title": "Dế Mèn", "price": 100000}},
			{"id": 2, "book_id": 43, "quantity": 1, "book": {"id": 43, "title": "Số Đỏ", "price": 50000}}
		]}`))
	}))
	defer srv.Close()

	client, err := New(srv.URL)
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	items, err := client.Cart(context.Background())
	if err != nil {
		t.Fatalf("cart: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if items[0].Book.Price != 100000 {
		t.Fatalf("first line price = %v, want 100000", items[0].Book.Price)
	}
}

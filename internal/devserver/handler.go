package devserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/duynhne/bookstored/internal/devserver/storage"
)

// handler serves the bookstore REST API.
type handler struct {
	store    storage.Store
	sessions *sessionManager
}

// NewHandler builds the HTTP handler for the API server. Sessions are
// signed with jwtSecret.
func NewHandler(store storage.Store, jwtSecret []byte) http.Handler {
	h := &handler{store: store, sessions: newSessionManager(jwtSecret)}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/register", h.register)
	mux.HandleFunc("POST /api/login", h.login)
	mux.HandleFunc("POST /api/logout", h.logout)
	mux.HandleFunc("GET /api/me", h.currentUser)
	mux.HandleFunc("PUT /api/profile", h.updateProfile)

	mux.HandleFunc("GET /api/books", h.listBooks)
	mux.HandleFunc("GET /api/books/{id}", h.getBook)
	mux.HandleFunc("POST /api/books", h.createBook)
	mux.HandleFunc("PUT /api/books/{id}", h.updateBook)
	mux.HandleFunc("DELETE /api/books/{id}", h.deleteBook)

	mux.HandleFunc("GET /api/cart", h.listCart)
	mux.HandleFunc("POST /api/cart", h.addToCart)
	mux.HandleFunc("PUT /api/cart/{id}", h.updateCartItem)
	mux.HandleFunc("DELETE /api/cart/{id}", h.removeCartItem)

	mux.HandleFunc("GET /api/orders", h.listOrders)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders", h.createOrder)

	mux.HandleFunc("GET /api/banners", h.listBanners)

	mux.HandleFunc("GET /api/admin/users", h.adminListUsers)
	mux.HandleFunc("PUT /api/admin/users/{id}/status", h.adminSetUserActive)
	mux.HandleFunc("PUT /api/admin/staff/{id}", h.adminUpdateNotSupported)
	mux.HandleFunc("PUT /api/admin/customers/{id}", h.adminUpdateNotSupported)
	mux.HandleFunc("GET /api/admin/orders", h.adminListOrders)
	mux.HandleFunc("PUT /api/admin/orders/{id}/status", h.adminSetOrderStatus)
	mux.HandleFunc("GET /api/admin/statistics", h.adminStatistics)
	mux.HandleFunc("GET /api/admin/banners", h.adminListBanners)
	mux.HandleFunc("POST /api/admin/banners", h.adminCreateBanner)
	mux.HandleFunc("GET /api/admin/banners/{id}", h.adminGetBanner)
	mux.HandleFunc("PUT /api/admin/banners/{id}", h.adminUpdateBanner)
	mux.HandleFunc("DELETE /api/admin/banners/{id}", h.adminDeleteBanner)
	mux.HandleFunc("PUT /api/admin/banners/{id}/toggle", h.adminToggleBanner)

	return mux
}

// sessionUser resolves the session cookie to an active account. It writes
// the 401 response itself when the session does not resolve.
func (h *handler) sessionUser(w http.ResponseWriter, r *http.Request) (storage.User, bool) {
	userID, ok := h.sessions.UserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return storage.User{}, false
	}
	user, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "authentication required")
		return storage.User{}, false
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "account is disabled")
		return storage.User{}, false
	}
	return user, true
}

// requireRole resolves the session and refuses users outside roles.
func (h *handler) requireRole(w http.ResponseWriter, r *http.Request, roles ...string) (storage.User, bool) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return storage.User{}, false
	}
	for _, role := range roles {
		if user.Role == role {
			return user, true
		}
	}
	writeError(w, http.StatusForbidden, "insufficient permissions")
	return storage.User{}, false
}

// pathID parses the {id} path segment. It writes the 400 response itself on
// malformed ids.
func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id < 1 {
		writeError(w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// storageStatus maps storage errors to HTTP statuses.
func storageStatus(err error) int {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

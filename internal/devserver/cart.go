package devserver

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

func (h *handler) listCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	items, err := h.store.ListCartItems(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list cart")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]api.CartItem{"cart": items})
}

// addToCart adds quantity of a book to the user's cart. A second add of the
// same book merges into the existing line. Stock is checked against the
// combined quantity.
func (h *handler) addToCart(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	var input struct {
		BookID   int `json:"book_id"`
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	book, err := h.store.GetBook(r.Context(), input.BookID)
	if err != nil {
		writeError(w, storageStatus(err), "book not found")
		return
	}

	existing, err := h.store.GetCartItemByUserAndBook(r.Context(), user.ID, input.BookID)
	switch {
	case err == nil:
		combined := existing.Quantity + input.Quantity
		if combined > book.Stock {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("only %d of %q in stock", book.Stock, book.Title))
			return
		}
		item, err := h.store.UpdateCartItemQuantity(r.Context(), existing.ID, combined)
		if err != nil {
			writeError(w, storageStatus(err), "update cart item")
			return
		}
		writeJSON(w, http.StatusOK, map[string]api.CartItem{"cart_item": item})
	case errors.Is(err, storage.ErrNotFound):
		if input.Quantity > book.Stock {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("only %d of %q in stock", book.Stock, book.Title))
			return
		}
		item, err := h.store.CreateCartItem(r.Context(), user.ID, input.BookID, input.Quantity)
		if err != nil {
			writeError(w, storageStatus(err), "create cart item")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]api.CartItem{"cart_item": item})
	default:
		writeError(w, http.StatusInternalServerError, "load cart item")
	}
}

func (h *handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	if input.Quantity < 1 {
		writeError(w, http.StatusBadRequest, "quantity must be at least 1")
		return
	}

	item, err := h.store.GetCartItem(r.Context(), id)
	if err != nil || item.UserID != user.ID {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}
	if input.Quantity > item.Book.Stock {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("only %d of %q in stock", item.Book.Stock, item.Book.Title))
		return
	}

	updated, err := h.store.UpdateCartItemQuantity(r.Context(), id, input.Quantity)
	if err != nil {
		writeError(w, storageStatus(err), "update cart item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.CartItem{"cart_item": updated})
}

func (h *handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	item, err := h.store.GetCartItem(r.Context(), id)
	if err != nil || item.UserID != user.ID {
		writeError(w, http.StatusNotFound, "cart item not found")
		return
	}
	if err := h.store.DeleteCartItem(r.Context(), id); err != nil {
		writeError(w, storageStatus(err), "delete cart item")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "cart item removed"})
}

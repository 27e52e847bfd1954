package devserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

func (h *handler) listOrders(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	orders, err := h.store.ListOrdersByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]api.Order{"orders": orders})
}

func (h *handler) getOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.store.GetOrderForUser(r.Context(), user.ID, id)
	if err != nil {
		writeError(w, storageStatus(err), "order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Order{"order": order})
}

func (h *handler) createOrder(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	var input struct {
		ShippingAddress string `json:"shipping_address"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}
	address := strings.TrimSpace(input.ShippingAddress)
	if address == "" {
		writeError(w, http.StatusBadRequest, "shipping address is required")
		return
	}

	order, err := h.store.CreateOrder(r.Context(), user.ID, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, map[string]api.Order{"order": order})
}

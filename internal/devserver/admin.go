package devserver

import (
	"net/http"

	"github.com/duynhne/bookstored/internal/api"
)

func (h *handler) adminListUsers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list users")
		return
	}
	out := make([]api.User, 0, len(users))
	for _, user := range users {
		out = append(out, user.API())
	}
	writeJSON(w, http.StatusOK, map[string][]api.User{"users": out})
}

func (h *handler) adminSetUserActive(w http.ResponseWriter, r *http.Request) {
	admin, ok := h.requireRole(w, r, api.RoleAdmin)
	if !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if id == admin.ID {
		writeError(w, http.StatusBadRequest, "cannot change your own account status")
		return
	}

	var input struct {
		IsActive bool `json:"is_active"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.store.SetUserActive(r.Context(), id, input.IsActive)
	if err != nil {
		writeError(w, storageStatus(err), "user not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.User{"user": user.API()})
}

// adminUpdateNotSupported answers the staff and customer update routes.
// Account records are edited through activation status only; profile edits
// belong to the account owner.
func (h *handler) adminUpdateNotSupported(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	writeError(w, http.StatusNotImplemented, "not supported")
}

func (h *handler) adminListOrders(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	orders, err := h.store.ListAllOrders(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list orders")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]api.Order{"orders": orders})
}

func (h *handler) adminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	var patch api.OrderStatusPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Status != nil && !validOrderStatus(*patch.Status) {
		writeError(w, http.StatusBadRequest, "invalid order status")
		return
	}

	order, err := h.store.UpdateOrderStatus(r.Context(), id, patch.Status, patch.PaymentStatus)
	if err != nil {
		writeError(w, storageStatus(err), "order not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Order{"order": order})
}

func (h *handler) adminStatistics(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	stats, err := h.store.Statistics(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "load statistics")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func validOrderStatus(status string) bool {
	switch status {
	case api.OrderPending, api.OrderConfirmed, api.OrderCompleted, api.OrderCancelled:
		return true
	}
	return false
}

package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/duynhne/bookstored/internal/api"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

func (h *handler) listBooks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))

	result, err := h.store.ListBooks(r.Context(), storage.BookFilter{
		Page:     page,
		PerPage:  perPage,
		Search:   query.Get("search"),
		Category: query.Get("category"),
		Author:   query.Get("author"),
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list books")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) getBook(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	book, err := h.store.GetBook(r.Context(), id)
	if err != nil {
		writeError(w, storageStatus(err), "book not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Book{"book": book})
}

func (h *handler) createBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleStaff, api.RoleAdmin); !ok {
		return
	}
	var input api.BookInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}
	if input.Price < 0 || input.Stock < 0 {
		writeError(w, http.StatusBadRequest, "price and stock must not be negative")
		return
	}

	book, err := h.store.CreateBook(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create book")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]api.Book{"book": book})
}

func (h *handler) updateBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleStaff, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input api.BookInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if strings.TrimSpace(input.Title) == "" {
		writeError(w, http.StatusBadRequest, "title is required")
		return
	}

	book, err := h.store.UpdateBook(r.Context(), id, input)
	if err != nil {
		writeError(w, storageStatus(err), "update book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Book{"book": book})
}

func (h *handler) deleteBook(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleStaff, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBook(r.Context(), id); err != nil {
		writeError(w, storageStatus(err), "delete book")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "book deleted"})
}

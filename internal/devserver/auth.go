package devserver

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/duynhne/bookstored/internal/api"
	platformid "github.com/duynhne/bookstored/internal/platform/id"
	"github.com/duynhne/bookstored/internal/devserver/storage"
)

func (h *handler) register(w http.ResponseWriter, r *http.Request) {
	var input api.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)
	if input.Username == "" || input.Email == "" {
		writeError(w, http.StatusBadRequest, "username and email are required")
		return
	}
	if len(input.Password) < 6 {
		writeError(w, http.StatusBadRequest, "password must be at least 6 characters")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash password")
		return
	}

	code, err := platformid.NewID()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "generate customer code")
		return
	}

	user, err := h.store.CreateUser(r.Context(), storage.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(input.FullName),
		Role:         api.RoleCustomer,
		IsActive:     true,
		CustomerCode: "KH-" + strings.ToUpper(code[:8]),
	})
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			writeError(w, http.StatusConflict, "username or email is already taken")
			return
		}
		writeError(w, http.StatusInternalServerError, "create account")
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "issue session")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]api.User{"user": user.API()})
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.store.GetUserByUsername(r.Context(), strings.TrimSpace(input.Username))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "invalid username or password")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "account is disabled")
		return
	}

	if err := h.sessions.Issue(w, user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "issue session")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.User{"user": user.API()})
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *handler) currentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.User{"user": user.API()})
}

func (h *handler) updateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := h.sessionUser(w, r)
	if !ok {
		return
	}

	var patch api.ProfilePatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	if patch.Email != nil && strings.TrimSpace(*patch.Email) == "" {
		writeError(w, http.StatusBadRequest, "email must not be empty")
		return
	}

	updated, err := h.store.UpdateUserProfile(r.Context(), user.ID, patch.FullName, patch.Email)
	if err != nil {
		if errors.Is(err, storage.ErrConflict) {
			writeError(w, http.StatusConflict, "email is already taken")
			return
		}
		writeError(w, storageStatus(err), "update profile")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.User{"user": updated.API()})
}

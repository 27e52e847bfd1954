package devserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/duynhne/bookstored/internal/api"
)

func (h *handler) listBanners(w http.ResponseWriter, r *http.Request) {
	banners, err := h.store.ListActiveBanners(r.Context(), r.URL.Query().Get("position"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list banners")
		return
	}
	writeJSON(w, http.StatusOK, map[string][]api.Banner{"banners": banners})
}

func (h *handler) adminListBanners(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	perPage, _ := strconv.Atoi(query.Get("per_page"))

	result, err := h.store.ListBanners(r.Context(), page, perPage)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "list banners")
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *handler) adminGetBanner(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	banner, err := h.store.GetBanner(r.Context(), id)
	if err != nil {
		writeError(w, storageStatus(err), "banner not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Banner{"banner": banner})
}

func (h *handler) adminCreateBanner(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	var input api.BannerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if !validBannerPosition(input.Position) {
		writeError(w, http.StatusBadRequest, "invalid banner position")
		return
	}
	if strings.TrimSpace(input.ImageURL) == "" {
		writeError(w, http.StatusBadRequest, "image url is required")
		return
	}

	banner, err := h.store.CreateBanner(r.Context(), input)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create banner")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]api.Banner{"banner": banner})
}

func (h *handler) adminUpdateBanner(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var input api.BannerInput
	if !decodeJSON(w, r, &input) {
		return
	}
	if !validBannerPosition(input.Position) {
		writeError(w, http.StatusBadRequest, "invalid banner position")
		return
	}

	banner, err := h.store.UpdateBanner(r.Context(), id, input)
	if err != nil {
		writeError(w, storageStatus(err), "update banner")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Banner{"banner": banner})
}

func (h *handler) adminDeleteBanner(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.store.DeleteBanner(r.Context(), id); err != nil {
		writeError(w, storageStatus(err), "delete banner")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "banner deleted"})
}

func (h *handler) adminToggleBanner(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireRole(w, r, api.RoleAdmin); !ok {
		return
	}
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	banner, err := h.store.ToggleBanner(r.Context(), id)
	if err != nil {
		writeError(w, storageStatus(err), "toggle banner")
		return
	}
	writeJSON(w, http.StatusOK, map[string]api.Banner{"banner": banner})
}

func validBannerPosition(position string) bool {
	switch position {
	case api.BannerMain, api.BannerSideTop, api.BannerSideBottom:
		return true
	}
	return false
}

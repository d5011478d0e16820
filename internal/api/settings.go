package api

import (
	"errors"
	"net/http"
	"strings"

	"retailshop/m/domain"
)

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.store.Settings(r.Context())
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	var s domain.Settings
	if err := decodeJSON(r, &s); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.StateCode = strings.TrimSpace(s.StateCode)
	s.GSTIN = strings.ToUpper(strings.TrimSpace(s.GSTIN))

	if err := h.store.SaveSettings(r.Context(), s); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, s)
}

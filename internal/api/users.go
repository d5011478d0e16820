package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"retailshop/m/domain"
)

// userRequest creates a user, or patches one when fields are left empty.
type userRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	Email    string `json:"email"`
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	users, err := h.store.Users(r.Context())
	if err != nil {
		respondErr(w, r, err)
		return
	}

	for i := range users {
		users[i].Password = ""
	}

	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "username and password are required")
		return
	}
	if !domain.ValidRole(req.Role) {
		respondError(w, http.StatusBadRequest, "role must be admin or billing")
		return
	}

	u, err := h.store.CreateUser(r.Context(), domain.User{
		Username: req.Username,
		Password: req.Password,
		Role:     req.Role,
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	})
	if err != nil {
		respondErr(w, r, err)
		return
	}

	u.Password = ""
	respondJSON(w, http.StatusCreated, u)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	u, err := h.store.UserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	u.Password = ""
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) getUserByUsername(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	u, err := h.store.UserByUsername(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	u.Password = ""
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	u, err := h.store.UserByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondErr(w, r, err)
		return
	}

	if v := strings.TrimSpace(req.Username); v != "" {
		u.Username = v
	}
	if req.Role != "" {
		if !domain.ValidRole(req.Role) {
			respondError(w, http.StatusBadRequest, "role must be admin or billing")
			return
		}
		if u.ID == stringFromContext(r, ctxUserID) && req.Role != domain.RoleAdmin {
			respondError(w, http.StatusBadRequest, "cannot remove admin role from the signed-in user")
			return
		}
		u.Role = req.Role
	}
	if v := strings.TrimSpace(req.Name); v != "" {
		u.Name = v
	}
	if v := strings.TrimSpace(req.Email); v != "" {
		u.Email = strings.ToLower(v)
	}
	u.Password = req.Password

	u, err = h.store.UpdateUser(r.Context(), u)
	if err != nil {
		respondErr(w, r, err)
		return
	}

	u.Password = ""
	respondJSON(w, http.StatusOK, u)
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if !h.requireRole(w, r, domain.RoleAdmin) {
		return
	}

	id := chi.URLParam(r, "id")
	if id == stringFromContext(r, ctxUserID) {
		respondError(w, http.StatusBadRequest, "cannot delete the signed-in user")
		return
	}

	if err := h.store.DeleteUser(r.Context(), id); err != nil {
		respondErr(w, r, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

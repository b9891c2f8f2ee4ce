package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/trackmyhealth/healthtrack/internal/middleware"
	"github.com/trackmyhealth/healthtrack/internal/services"
)

type AdminHandler struct {
	authService *services.AuthService
}

func NewAdminHandler(authService *services.AuthService) *AdminHandler {
	return &AdminHandler{authService: authService}
}

// ListUsers returns all identities
func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	users, err := h.authService.ListUsers(r.Context(), sess)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// DeleteUser destructively removes an identity and its profile
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.authService.DeleteUser(r.Context(), sess, userID); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ResetPassword generates a fresh password for a user and returns it in
// plaintext to the admin caller
func (h *AdminHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSession(r.Context())
	if !ok {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return
	}

	username := chi.URLParam(r, "username")
	newPassword, err := h.authService.ResetPassword(r.Context(), sess, username)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username":     username,
		"new_password": newPassword,
	})
}

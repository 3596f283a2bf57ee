package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsersHandler struct {
	DB store.Store
}

// Profile returns the caller's own record.
func (h *UsersHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respond(w, http.StatusOK, user)
}

type UpdateProfileRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" validate:"omitempty,email"`
	Avatar *string `json:"avatar"`
	Bio    *string `json:"bio"`
}

func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	var req UpdateProfileRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			respondError(w, http.StatusBadRequest, "Email cannot be empty")
			return
		}
		existing, err := h.DB.UserByEmail(r.Context(), email)
		if err != nil {
			respondServerError(w, err)
			return
		}
		if existing != nil && existing.ID != userID {
			respondError(w, http.StatusBadRequest, "Email is already taken")
			return
		}
		req.Email = &email
	}
	err := h.DB.UpdateUserProfile(r.Context(), userID, req.Name, req.Email, req.Avatar, req.Bio)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, "Email is already taken")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	user, err := h.DB.UserByID(r.Context(), userID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respond(w, http.StatusOK, user)
}

// PublicProfile returns another user's record without email or password.
func (h *UsersHandler) PublicProfile(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	respond(w, http.StatusOK, user.Public())
}

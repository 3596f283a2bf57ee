package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/models"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SocialHandler manages the follower/following edges between users.
type SocialHandler struct {
	DB store.Store
}

func (h *SocialHandler) targetFromPath(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	user, err := h.DB.UserByID(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return nil, false
	}
	if user == nil {
		respondError(w, http.StatusNotFound, "User not found")
		return nil, false
	}
	return user, true
}

// refsFor resolves user ids to public reference fields, preserving array
// order.
func (h *SocialHandler) refsFor(r *http.Request, ids []primitive.ObjectID) ([]models.UserRef, error) {
	users, err := h.DB.UsersByIDs(r.Context(), ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(users))
	for _, u := range users {
		byID[u.ID] = u
	}
	refs := make([]models.UserRef, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			refs = append(refs, u.Ref())
		}
	}
	return refs, nil
}

func (h *SocialHandler) Followers(w http.ResponseWriter, r *http.Request) {
	user, ok := h.targetFromPath(w, r)
	if !ok {
		return
	}
	refs, err := h.refsFor(r, user.Followers)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, refs)
}

func (h *SocialHandler) Following(w http.ResponseWriter, r *http.Request) {
	user, ok := h.targetFromPath(w, r)
	if !ok {
		return
	}
	refs, err := h.refsFor(r, user.Following)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, refs)
}

func (h *SocialHandler) FollowStatus(w http.ResponseWriter, r *http.Request) {
	currentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	target, ok := h.targetFromPath(w, r)
	if !ok {
		return
	}
	respond(w, http.StatusOK, map[string]bool{"isFollowing": target.IsFollowedBy(currentID)})
}

func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	currentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	target, ok := h.targetFromPath(w, r)
	if !ok {
		return
	}
	if target.ID == currentID {
		respondError(w, http.StatusBadRequest, "Cannot follow yourself")
		return
	}
	if err := h.DB.Follow(r.Context(), currentID, target.ID); err != nil {
		respondServerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Successfully followed user")
}

func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	currentID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	target, ok := h.targetFromPath(w, r)
	if !ok {
		return
	}
	if err := h.DB.Unfollow(r.Context(), currentID, target.ID); err != nil {
		respondServerError(w, err)
		return
	}
	respondMessage(w, http.StatusOK, "Successfully unfollowed user")
}

package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/middleware"
	"github.com/readnest/backend/models"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookshelfHandler struct {
	DB store.Store
}

// shelfItems embeds each entry's book, replacing the bare reference.
func (h *BookshelfHandler) shelfItems(r *http.Request, entries []models.BookshelfEntry) ([]models.BookshelfItem, error) {
	bookIDs := make([]primitive.ObjectID, 0, len(entries))
	for _, e := range entries {
		bookIDs = append(bookIDs, e.Book)
	}
	books, err := h.DB.BooksByIDs(r.Context(), bookIDs)
	if err != nil {
		return nil, err
	}
	items := make([]models.BookshelfItem, 0, len(entries))
	for _, e := range entries {
		item := models.BookshelfItem{BookshelfEntry: e}
		if b, ok := books[e.Book]; ok {
			book := b
			item.BookDoc = &book
		}
		items = append(items, item)
	}
	return items, nil
}

func (h *BookshelfHandler) listFor(w http.ResponseWriter, r *http.Request, userID primitive.ObjectID) {
	status := r.URL.Query().Get("status")
	entries, err := h.DB.ShelfForUser(r.Context(), userID, status)
	if err != nil {
		respondServerError(w, err)
		return
	}
	items, err := h.shelfItems(r, entries)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, items)
}

// ListOwn returns the caller's shelf.
func (h *BookshelfHandler) ListOwn(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	h.listFor(w, r, userID)
}

// ListForUser returns any user's shelf, optionally filtered by ?status=.
func (h *BookshelfHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	h.listFor(w, r, userID)
}

// Stats returns per-status counts; statuses with no entries report zero.
func (h *BookshelfHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}
	counts, err := h.DB.ShelfStats(r.Context(), userID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	respond(w, http.StatusOK, models.ShelfStats{
		WantToRead:       counts[models.StatusWantToRead],
		CurrentlyReading: counts[models.StatusCurrentlyReading],
		Read:             counts[models.StatusRead],
	})
}

type AddShelfRequest struct {
	BookID string `json:"bookId" validate:"required"`
	Status string `json:"status" validate:"required,oneof=want-to-read currently-reading read"`
	Rating *int   `json:"rating" validate:"omitempty,min=1,max=5"`
	Review string `json:"review"`
}

func (h *BookshelfHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	var req AddShelfRequest
	if !decodeBody(w, r, &req) {
		return
	}
	bookID, err := primitive.ObjectIDFromHex(req.BookID)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid book id")
		return
	}
	entry := &models.BookshelfEntry{
		User:      userID,
		Book:      bookID,
		Status:    req.Status,
		Rating:    req.Rating,
		Review:    req.Review,
		DateAdded: time.Now().UTC(),
	}
	id, err := h.DB.InsertShelfEntry(r.Context(), entry)
	if errors.Is(err, store.ErrDuplicate) {
		respondError(w, http.StatusBadRequest, "You have already added this book to your shelf.")
		return
	}
	if err != nil {
		respondServerError(w, err)
		return
	}
	entry.ID = id
	respond(w, http.StatusCreated, entry)
}

type UpdateShelfRequest struct {
	Status *string `json:"status" validate:"omitempty,oneof=want-to-read currently-reading read"`
	Rating *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Review *string `json:"review"`
}

// Update modifies the caller's own entry; any status transition is
// allowed.
func (h *BookshelfHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Bookshelf item not found")
		return
	}
	var req UpdateShelfRequest
	if !decodeBody(w, r, &req) {
		return
	}
	entry, err := h.DB.UpdateShelfEntry(r.Context(), userID, entryID, req.Status, req.Rating, req.Review)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if entry == nil {
		respondError(w, http.StatusNotFound, "Bookshelf item not found")
		return
	}
	respond(w, http.StatusOK, entry)
}

func (h *BookshelfHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "Access token required")
		return
	}
	entryID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Bookshelf item not found")
		return
	}
	deleted, err := h.DB.DeleteShelfEntry(r.Context(), userID, entryID)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if !deleted {
		respondError(w, http.StatusNotFound, "Bookshelf item not found")
		return
	}
	respondMessage(w, http.StatusOK, "Book removed from shelf")
}

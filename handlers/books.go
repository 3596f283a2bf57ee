package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/readnest/backend/models"
	"github.com/readnest/backend/service"
	"github.com/readnest/backend/store"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BooksHandler struct {
	DB store.Store
}

type bookListResponse struct {
	Books []models.Book `json:"books"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Pages int           `json:"pages"`
}

// List returns one catalog page in storage order. Search is a client-side
// concern; no filtering happens here.
func (h *BooksHandler) List(w http.ResponseWriter, r *http.Request) {
	page, limit := pageParams(r)
	books, total, err := h.DB.ListBooks(r.Context(), page, limit)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if books == nil {
		books = []models.Book{}
	}
	respond(w, http.StatusOK, bookListResponse{
		Books: books,
		Total: total,
		Page:  page,
		Pages: pageCount(total, limit),
	})
}

type CreateBookRequest struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	ISBN          string   `json:"isbn"`
	CoverURL      string   `json:"coverUrl"`
	Description   string   `json:"description"`
	Genres        []string `json:"genres"`
	PublishedYear int      `json:"publishedYear"`
}

// Create inserts unconditionally; the catalog has no duplicate-ISBN check.
func (h *BooksHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBookRequest
	if !decodeBody(w, r, &req) {
		return
	}
	now := time.Now().UTC()
	book := &models.Book{
		Title:         req.Title,
		Author:        req.Author,
		ISBN:          req.ISBN,
		CoverURL:      req.CoverURL,
		Description:   req.Description,
		Genres:        req.Genres,
		PublishedYear: req.PublishedYear,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if book.Genres == nil {
		book.Genres = []string{}
	}
	id, err := h.DB.InsertBook(r.Context(), book)
	if err != nil {
		respondServerError(w, err)
		return
	}
	book.ID = id
	respond(w, http.StatusCreated, book)
}

func (h *BooksHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusNotFound, "Book not found")
		return
	}
	book, err := h.DB.BookByID(r.Context(), id)
	if err != nil {
		respondServerError(w, err)
		return
	}
	if book == nil {
		respondError(w, http.StatusNotFound, "Book not found")
		return
	}
	respond(w, http.StatusOK, book)
}

// Lookup fetches catalog prefill data from Google Books by ISBN.
func (h *BooksHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	isbn := r.URL.Query().Get("isbn")
	if isbn == "" {
		respondError(w, http.StatusBadRequest, "isbn query parameter is required")
		return
	}
	meta, err := service.FetchMetadataByISBN(isbn)
	if err != nil {
		respondError(w, http.StatusNotFound, "No book found for that ISBN")
		return
	}
	respond(w, http.StatusOK, meta)
}

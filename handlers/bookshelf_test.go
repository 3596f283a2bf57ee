package handlers

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/readnest/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type shelfEntryPayload struct {
	ID     string       `json:"_id"`
	Status string       `json:"status"`
	Rating *int         `json:"rating"`
	Review string       `json:"review"`
	Book   *bookPayload `json:"book"`
}

func createBook(t *testing.T, api http.Handler, title, author string) string {
	t.Helper()
	rec := doJSON(t, api, http.MethodPost, "/books", "", map[string]string{
		"title": title, "author": author,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var book bookPayload
	decodeJSON(t, rec, &book)
	return book.ID
}

func TestAddToShelfDuplicateAndReAdd(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bookID := createBook(t, api, "1984", "Orwell")

	rec := doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
		"bookId": bookID, "status": "want-to-read",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var entry shelfEntryPayload
	decodeJSON(t, rec, &entry)

	// Same (user, book) pair again is a conflict.
	rec = doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
		"bookId": bookID, "status": "read",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already added")

	// Remove then re-add succeeds.
	rec = doJSON(t, api, http.MethodDelete, "/users/bookshelf/"+entry.ID, token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rec = doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
		"bookId": bookID, "status": "read",
	})
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestShelfStatusTransition(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bookID := createBook(t, api, "1984", "Orwell")

	rec := doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
		"bookId": bookID, "status": "want-to-read",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry shelfEntryPayload
	decodeJSON(t, rec, &entry)

	// Straight from want-to-read to read; no intermediate state required.
	rating := 5
	rec = doJSON(t, api, http.MethodPut, "/users/bookshelf/"+entry.ID, token, map[string]interface{}{
		"status": "read", "rating": rating, "review": "a classic",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var updated shelfEntryPayload
	decodeJSON(t, rec, &updated)
	assert.Equal(t, "read", updated.Status)
	require.NotNil(t, updated.Rating)
	assert.Equal(t, rating, *updated.Rating)
	assert.Equal(t, "a classic", updated.Review)
}

func TestShelfInvalidStatus(t *testing.T) {
	_, api := newTestEnv(t)
	token, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bookID := createBook(t, api, "1984", "Orwell")

	rec := doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
		"bookId": bookID, "status": "finished",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestShelfOwnershipScoping(t *testing.T) {
	_, api := newTestEnv(t)
	annToken, _ := registerUser(t, api, "Ann", "a@x.com", "secret1")
	bobToken, _ := registerUser(t, api, "Bob", "b@x.com", "secret2")
	bookID := createBook(t, api, "1984", "Orwell")

	rec := doJSON(t, api, http.MethodPost, "/users/bookshelf", annToken, map[string]interface{}{
		"bookId": bookID, "status": "want-to-read",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var entry shelfEntryPayload
	decodeJSON(t, rec, &entry)

	// Bob can't touch Ann's entry; it's not found from his side.
	rec = doJSON(t, api, http.MethodPut, "/users/bookshelf/"+entry.ID, bobToken, map[string]interface{}{
		"status": "read",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = doJSON(t, api, http.MethodDelete, "/users/bookshelf/"+entry.ID, bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Ann still can.
	rec = doJSON(t, api, http.MethodDelete, "/users/bookshelf/"+entry.ID, annToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestShelfListEmbedsBooksNewestFirst(t *testing.T) {
	db, api := newTestEnv(t)
	token, userHex := registerUser(t, api, "Ann", "a@x.com", "secret1")
	userID, err := primitiveFromHex(userHex)
	require.NoError(t, err)

	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)
	var bookIDs []string
	for i, title := range []string{"Oldest", "Middle", "Newest"} {
		bookID := createBook(t, api, title, "Author")
		bookIDs = append(bookIDs, bookID)
		oid, err := primitiveFromHex(bookID)
		require.NoError(t, err)
		status := models.StatusWantToRead
		if title == "Newest" {
			status = models.StatusRead
		}
		_, err = db.InsertShelfEntry(ctx, &models.BookshelfEntry{
			User:      userID,
			Book:      oid,
			Status:    status,
			DateAdded: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	rec := doJSON(t, api, http.MethodGet, "/users/bookshelf", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var items []shelfEntryPayload
	decodeJSON(t, rec, &items)
	require.Len(t, items, 3)
	assert.Equal(t, "Newest", items[0].Book.Title)
	assert.Equal(t, "Oldest", items[2].Book.Title)

	// Public listing with a status filter.
	rec = doJSON(t, api, http.MethodGet, "/users/"+userHex+"/bookshelf?status=read", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &items)
	require.Len(t, items, 1)
	assert.Equal(t, "Newest", items[0].Book.Title)
	_ = bookIDs
}

func TestShelfStats(t *testing.T) {
	_, api := newTestEnv(t)
	token, userHex := registerUser(t, api, "Ann", "a@x.com", "secret1")

	for _, b := range []struct{ title, status string }{
		{"A", "want-to-read"},
		{"B", "want-to-read"},
		{"C", "read"},
	} {
		bookID := createBook(t, api, b.title, "Author")
		rec := doJSON(t, api, http.MethodPost, "/users/bookshelf", token, map[string]interface{}{
			"bookId": bookID, "status": b.status,
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := doJSON(t, api, http.MethodGet, "/users/"+userHex+"/bookshelf/stats", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats map[string]int
	decodeJSON(t, rec, &stats)
	assert.Equal(t, 2, stats["want-to-read"])
	assert.Equal(t, 0, stats["currently-reading"])
	assert.Equal(t, 1, stats["read"])
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bookshelf status values. Transitions between them are unrestricted.
const (
	StatusWantToRead       = "want-to-read"
	StatusCurrentlyReading = "currently-reading"
	StatusRead             = "read"
)

// BookshelfEntry joins one user to one book. A compound unique index on
// (user, book) guarantees at most one entry per pair.
type BookshelfEntry struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Book      primitive.ObjectID `bson:"book" json:"-"`
	Status    string             `bson:"status" json:"status"`
	Rating    *int               `bson:"rating,omitempty" json:"rating,omitempty"`
	Review    string             `bson:"review,omitempty" json:"review,omitempty"`
	DateAdded time.Time          `bson:"dateAdded" json:"dateAdded"`
	DateRead  *time.Time         `bson:"dateRead,omitempty" json:"dateRead,omitempty"`
}

// BookshelfItem is an entry with its book embedded, as returned by the
// shelf listing endpoints.
type BookshelfItem struct {
	BookshelfEntry
	BookDoc *Book `json:"book"`
}

// ShelfStats holds per-status counts; absent statuses default to zero.
type ShelfStats struct {
	WantToRead       int `json:"want-to-read"`
	CurrentlyReading int `json:"currently-reading"`
	Read             int `json:"read"`
}

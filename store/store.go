package store

import (
	"context"
	"errors"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrDuplicate is returned by inserts that violate a unique index
// (duplicate email, duplicate user+book shelf pair).
var ErrDuplicate = errors.New("store: duplicate key")

// Store defines the persistence operations used by the handlers. Lookup
// methods return (nil, nil) when the document does not exist.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email, avatar, bio *string) error
	SetUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error

	// Social graph. Follow and Unfollow perform two independent writes
	// (one per side of the edge); each side is individually idempotent.
	Follow(ctx context.Context, userID, targetID primitive.ObjectID) error
	Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error

	// Books
	InsertBook(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	BookByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	ListBooks(ctx context.Context, page, limit int) ([]models.Book, int64, error)
	BooksByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.Book, error)

	// Bookshelf
	InsertShelfEntry(ctx context.Context, entry *models.BookshelfEntry) (primitive.ObjectID, error)
	ShelfForUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.BookshelfEntry, error)
	ShelfStats(ctx context.Context, userID primitive.ObjectID) (map[string]int, error)
	UpdateShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID, status *string, rating *int, review *string) (*models.BookshelfEntry, error)
	DeleteShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID) (bool, error)

	// Groups
	InsertGroup(ctx context.Context, group *models.Group) (primitive.ObjectID, error)
	GroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error)
	ListGroups(ctx context.Context, search string, page, limit int) ([]models.Group, int64, error)
	AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error
	RemoveGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error

	// Topics
	InsertTopic(ctx context.Context, topic *models.Topic) (primitive.ObjectID, error)
	TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error)
	TopicsForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Topic, error)
	AppendPost(ctx context.Context, topicID primitive.ObjectID, post models.Post) error

	// Password resets
	InsertPasswordReset(ctx context.Context, reset *models.PasswordReset) error
	PasswordResetByToken(ctx context.Context, token string) (*models.PasswordReset, error)
	ConsumePasswordReset(ctx context.Context, id primitive.ObjectID) error
}

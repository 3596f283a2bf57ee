package store

import (
	"context"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertShelfEntry(ctx context.Context, entry *models.BookshelfEntry) (primitive.ObjectID, error) {
	res, err := db.Bookshelves().InsertOne(ctx, entry, options.InsertOne())
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

// ShelfForUser returns a user's entries newest-added first, optionally
// filtered by status.
func (db *DB) ShelfForUser(ctx context.Context, userID primitive.ObjectID, status string) ([]models.BookshelfEntry, error) {
	filter := bson.M{"user": userID}
	if status != "" {
		filter["status"] = status
	}
	cur, err := db.Bookshelves().Find(ctx, filter,
		options.Find().SetSort(bson.M{"dateAdded": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var entries []models.BookshelfEntry
	if err := cur.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// ShelfStats groups a user's entries by status. Statuses with no entries
// are absent from the returned map.
func (db *DB) ShelfStats(ctx context.Context, userID primitive.ObjectID) (map[string]int, error) {
	cur, err := db.Bookshelves().Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"user": userID}}},
		{{Key: "$group", Value: bson.M{"_id": "$status", "count": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var rows []struct {
		Status string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	stats := make(map[string]int, len(rows))
	for _, row := range rows {
		stats[row.Status] = row.Count
	}
	return stats, nil
}

// UpdateShelfEntry updates an entry scoped to its owner. Returns (nil, nil)
// when no entry with that id belongs to the user.
func (db *DB) UpdateShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID, status *string, rating *int, review *string) (*models.BookshelfEntry, error) {
	updates := bson.M{}
	if status != nil {
		updates["status"] = *status
	}
	if rating != nil {
		updates["rating"] = *rating
	}
	if review != nil {
		updates["review"] = *review
	}
	if len(updates) == 0 {
		var entry models.BookshelfEntry
		err := db.Bookshelves().FindOne(ctx, bson.M{"_id": entryID, "user": userID}).Decode(&entry)
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &entry, nil
	}
	var entry models.BookshelfEntry
	err := db.Bookshelves().FindOneAndUpdate(ctx,
		bson.M{"_id": entryID, "user": userID},
		bson.M{"$set": updates},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteShelfEntry removes an entry scoped to its owner; reports whether
// an entry was deleted.
func (db *DB) DeleteShelfEntry(ctx context.Context, userID, entryID primitive.ObjectID) (bool, error) {
	res, err := db.Bookshelves().DeleteOne(ctx, bson.M{"_id": entryID, "user": userID})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

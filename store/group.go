package store

import (
	"context"
	"regexp"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertGroup(ctx context.Context, group *models.Group) (primitive.ObjectID, error) {
	res, err := db.Groups().InsertOne(ctx, group, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) GroupByID(ctx context.Context, id primitive.ObjectID) (*models.Group, error) {
	var group models.Group
	err := db.Groups().FindOne(ctx, bson.M{"_id": id}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroups returns a page of groups newest-first, filtered by a
// case-insensitive substring match across name, description, and tags
// when search is non-empty.
func (db *DB) ListGroups(ctx context.Context, search string, page, limit int) ([]models.Group, int64, error) {
	filter := bson.M{}
	if search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(search), Options: "i"}
		filter = bson.M{"$or": bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"tags": pattern},
		}}
	}
	total, err := db.Groups().CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	skip := int64(page-1) * int64(limit)
	cur, err := db.Groups().Find(ctx, filter,
		options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip).SetLimit(int64(limit)))
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)
	var groups []models.Group
	if err := cur.All(ctx, &groups); err != nil {
		return nil, 0, err
	}
	return groups, total, nil
}

func (db *DB) AddGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := db.Groups().UpdateOne(ctx, bson.M{"_id": groupID},
		bson.M{"$addToSet": bson.M{"members": userID}})
	return err
}

func (db *DB) RemoveGroupMember(ctx context.Context, groupID, userID primitive.ObjectID) error {
	_, err := db.Groups().UpdateOne(ctx, bson.M{"_id": groupID},
		bson.M{"$pull": bson.M{"members": userID}})
	return err
}

package store

import (
	"context"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	res, err := db.Users().InsertOne(ctx, user, options.InsertOne())
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrDuplicate
	}
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"email": email}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var u models.User
	err := db.Users().FindOne(ctx, bson.M{"_id": id}).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (db *DB) UsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := db.Users().Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var users []models.User
	if err := cur.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (db *DB) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, name, email, avatar, bio *string) error {
	updates := bson.M{}
	if name != nil {
		updates["name"] = *name
	}
	if email != nil {
		updates["email"] = *email
	}
	if avatar != nil {
		updates["avatar"] = *avatar
	}
	if bio != nil {
		updates["bio"] = *bio
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updatedAt"] = nowUTC()
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": updates})
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (db *DB) SetUserPassword(ctx context.Context, id primitive.ObjectID, hashedPassword string) error {
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"password": hashedPassword, "updatedAt": nowUTC()}})
	return err
}

// Follow appends each id to the other user's array field. The two writes
// are independent; a crash between them leaves an asymmetric edge.
// $addToSet makes each write idempotent on its own.
func (db *DB) Follow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if _, err := db.Users().UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$addToSet": bson.M{"following": targetID}}); err != nil {
		return err
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$addToSet": bson.M{"followers": userID}})
	return err
}

// Unfollow removes the edge from both sides; removing an absent edge is a
// no-op.
func (db *DB) Unfollow(ctx context.Context, userID, targetID primitive.ObjectID) error {
	if _, err := db.Users().UpdateOne(ctx, bson.M{"_id": userID},
		bson.M{"$pull": bson.M{"following": targetID}}); err != nil {
		return err
	}
	_, err := db.Users().UpdateOne(ctx, bson.M{"_id": targetID},
		bson.M{"$pull": bson.M{"followers": userID}})
	return err
}

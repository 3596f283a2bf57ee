package store

import (
	"context"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertPasswordReset(ctx context.Context, reset *models.PasswordReset) error {
	res, err := db.PasswordResets().InsertOne(ctx, reset, options.InsertOne())
	if err != nil {
		return err
	}
	reset.ID = res.InsertedID.(primitive.ObjectID)
	return nil
}

func (db *DB) PasswordResetByToken(ctx context.Context, token string) (*models.PasswordReset, error) {
	var reset models.PasswordReset
	err := db.PasswordResets().FindOne(ctx, bson.M{"token": token}).Decode(&reset)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &reset, nil
}

func (db *DB) ConsumePasswordReset(ctx context.Context, id primitive.ObjectID) error {
	_, err := db.PasswordResets().UpdateOne(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"used": true}})
	return err
}

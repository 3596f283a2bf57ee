package store

import (
	"context"

	"github.com/readnest/backend/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (db *DB) InsertTopic(ctx context.Context, topic *models.Topic) (primitive.ObjectID, error) {
	res, err := db.Topics().InsertOne(ctx, topic, options.InsertOne())
	if err != nil {
		return primitive.NilObjectID, err
	}
	return res.InsertedID.(primitive.ObjectID), nil
}

func (db *DB) TopicByID(ctx context.Context, id primitive.ObjectID) (*models.Topic, error) {
	var topic models.Topic
	err := db.Topics().FindOne(ctx, bson.M{"_id": id}).Decode(&topic)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &topic, nil
}

func (db *DB) TopicsForGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Topic, error) {
	cur, err := db.Topics().Find(ctx, bson.M{"group": groupID},
		options.Find().SetSort(bson.M{"createdAt": -1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var topics []models.Topic
	if err := cur.All(ctx, &topics); err != nil {
		return nil, err
	}
	return topics, nil
}

// AppendPost pushes a reply onto the topic's embedded post list,
// preserving insertion order.
func (db *DB) AppendPost(ctx context.Context, topicID primitive.ObjectID, post models.Post) error {
	res, err := db.Topics().UpdateOne(ctx, bson.M{"_id": topicID},
		bson.M{
			"$push": bson.M{"posts": post},
			"$set":  bson.M{"updatedAt": nowUTC()},
		})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

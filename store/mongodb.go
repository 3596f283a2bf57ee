package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type DB struct {
	Client   *mongo.Client
	Database *mongo.Database
	logger   *zap.Logger
}

var _ Store = (*DB)(nil)

func NewMongoDB(ctx context.Context, uri, dbName string, logger *zap.Logger) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}
	logger.Info("connected to MongoDB", zap.String("db", dbName))
	return &DB{
		Client:   client,
		Database: client.Database(dbName),
		logger:   logger,
	}, nil
}

func (db *DB) Users() *mongo.Collection {
	return db.Database.Collection("users")
}

func (db *DB) Books() *mongo.Collection {
	return db.Database.Collection("books")
}

func (db *DB) Bookshelves() *mongo.Collection {
	return db.Database.Collection("bookshelves")
}

func (db *DB) Groups() *mongo.Collection {
	return db.Database.Collection("groups")
}

func (db *DB) Topics() *mongo.Collection {
	return db.Database.Collection("topics")
}

func (db *DB) PasswordResets() *mongo.Collection {
	return db.Database.Collection("password_resets")
}

// EnsureIndexes creates the unique indexes the data model relies on:
// users.email, and the (user, book) pair on bookshelves.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	_, err := db.Users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.Bookshelves().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}, {Key: "book", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}
	_, err = db.PasswordResets().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (db *DB) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.Client.Disconnect(ctx)
}

package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Book struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title         string             `bson:"title" json:"title"`
	Author        string             `bson:"author" json:"author"`
	ISBN          string             `bson:"isbn,omitempty" json:"isbn,omitempty"`
	CoverURL      string             `bson:"coverUrl" json:"coverUrl"`
	Description   string             `bson:"description" json:"description"`
	Genres        []string           `bson:"genres" json:"genres"`
	PublishedYear int                `bson:"publishedYear,omitempty" json:"publishedYear,omitempty"`
	AverageRating float64            `bson:"averageRating" json:"averageRating"`
	TotalRatings  int                `bson:"totalRatings" json:"totalRatings"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

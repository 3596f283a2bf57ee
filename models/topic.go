package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is embedded in its topic; it has no identity outside of it.
type Post struct {
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Content   string             `bson:"content" json:"content"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// Topic is a discussion thread in a group. The opening post is embedded at
// creation; replies are appended in order.
type Topic struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Group     primitive.ObjectID `bson:"group" json:"group"`
	Title     string             `bson:"title" json:"title"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	Posts     []Post             `bson:"posts" json:"posts"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// PostView is a post with its author resolved to a display name.
type PostView struct {
	Author    UserRef   `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// TopicView is a topic with author and post authors resolved. GroupName is
// set only on the single-topic endpoint.
type TopicView struct {
	ID        primitive.ObjectID `json:"_id"`
	Group     primitive.ObjectID `json:"group"`
	GroupName string             `json:"groupName,omitempty"`
	Title     string             `json:"title"`
	Author    UserRef            `json:"author"`
	Posts     []PostView         `json:"posts"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

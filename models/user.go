package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Name      string               `bson:"name" json:"name"`
	Email     string               `bson:"email" json:"email,omitempty"`
	Password  string               `bson:"password" json:"-"` // bcrypt hash
	Avatar    string               `bson:"avatar" json:"avatar"`
	Bio       string               `bson:"bio" json:"bio"`
	Followers []primitive.ObjectID `bson:"followers" json:"followers"`
	Following []primitive.ObjectID `bson:"following" json:"following"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// UserRef is the public subset embedded in follower lists, group member
// lists, and resolved topic/post authors.
type UserRef struct {
	ID     primitive.ObjectID `json:"_id"`
	Name   string             `json:"name"`
	Avatar string             `json:"avatar,omitempty"`
}

// Ref returns the user's public reference fields.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Avatar: u.Avatar}
}

// Public returns a copy safe for anonymous viewers: the email is blanked
// (the password hash is never serialized to begin with).
func (u *User) Public() User {
	pub := *u
	pub.Email = ""
	return pub
}

// IsFollowedBy reports whether id is in the user's followers array.
func (u *User) IsFollowedBy(id primitive.ObjectID) bool {
	for _, f := range u.Followers {
		if f == id {
			return true
		}
	}
	return false
}

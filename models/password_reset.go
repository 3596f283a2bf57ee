package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PasswordReset is a single-use token mailed to a user who forgot their
// password.
type PasswordReset struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	User      primitive.ObjectID `bson:"user" json:"-"`
	Token     string             `bson:"token" json:"-"`
	ExpiresAt time.Time          `bson:"expiresAt" json:"-"`
	Used      bool               `bson:"used" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"-"`
}

// Expired reports whether the token can no longer be redeemed.
func (p *PasswordReset) Expired(now time.Time) bool {
	return p.Used || now.After(p.ExpiresAt)
}

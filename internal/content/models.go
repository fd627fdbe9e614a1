package content

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Confession is an anonymous post. Comments are loaded separately and never
// stored on the confession document.
type Confession struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Content       string             `bson:"content"`
	Category      *string            `bson:"category"`
	Likes         int                `bson:"likes"`
	IsApproved    bool               `bson:"isApproved"`
	Gender        string             `bson:"gender"`
	AnonymousName string             `bson:"anonymousName"`
	AvatarSeed    int                `bson:"avatarSeed"`
	CreatedAt     time.Time          `bson:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt"`
	Comments      []*Comment         `bson:"-"`
}

// Comment belongs to exactly one confession.
type Comment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Content       string             `bson:"content"`
	Gender        string             `bson:"gender"`
	AnonymousName string             `bson:"anonymousName"`
	AvatarSeed    int                `bson:"avatarSeed"`
	ConfessionID  primitive.ObjectID `bson:"confessionId"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// EarlyAccess is a waitlist signup.
type EarlyAccess struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
}

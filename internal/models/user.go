package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DefaultRole is assigned to every user created through social login.
const DefaultRole = "user"

// User represents an application user created on first OAuth login.
// Email is the natural key; ProviderID is stored but never used for lookup.
type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email      string             `bson:"email" json:"email"`
	Name       string             `bson:"name,omitempty" json:"name"`
	Picture    string             `bson:"picture,omitempty" json:"picture"`
	Provider   string             `bson:"provider" json:"provider"`
	ProviderID string             `bson:"provider_id" json:"-"`
	Role       string             `bson:"role" json:"role"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// Profile is the public view of a User returned by /auth/me.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	Provider  string    `json:"provider"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile returns the fields safe to expose to the client.
func (u *User) Profile() *Profile {
	return &Profile{
		ID:        u.ID.Hex(),
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		Provider:  u.Provider,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

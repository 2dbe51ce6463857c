package entity

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User is a locally stored account for an externally authenticated identity.
// ClerkID is the identity provider's subject id, unique and immutable.
type User struct {
	ID      bson.ObjectID `bson:"_id,omitempty" json:"id"`
	ClerkID string        `bson:"clerkId" json:"clerkId"`

	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Username  string `bson:"username,omitempty" json:"username,omitempty"`
	FirstName string `bson:"firstName,omitempty" json:"firstName,omitempty"`
	LastName  string `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Photo     string `bson:"photo,omitempty" json:"photo,omitempty"`

	// Role starts unset and is assigned exactly once via role selection.
	Role Role `bson:"role,omitempty" json:"role,omitempty"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) FullName() string {
	return strings.TrimSpace(fmt.Sprintf("%s %s", u.FirstName, u.LastName))
}

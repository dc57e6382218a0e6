package schemas

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	ROLE_ADMIN      = "admin"
	ROLE_MANAGER    = "manager"
	ROLE_COMMERCIAL = "commercial"
	ROLE_SUPPORT    = "support"
	ROLE_CLIENT     = "client"
)

var Roles = []string{ROLE_ADMIN, ROLE_MANAGER, ROLE_COMMERCIAL, ROLE_SUPPORT, ROLE_CLIENT}

// StaffRoles are every role but client.
var StaffRoles = []string{ROLE_ADMIN, ROLE_MANAGER, ROLE_COMMERCIAL, ROLE_SUPPORT}

func IsValidRole(role string) bool {
	return slices.Contains(Roles, role)
}

type User struct {
	ID           bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string        `json:"name" bson:"name"`
	Email        string        `json:"email" bson:"email"`
	PasswordHash string        `json:"-" bson:"password_hash"`
	Role         string        `json:"role" bson:"role"`
	Phone        string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Active       bool          `json:"active" bson:"active"`
	ClientID     bson.ObjectID `json:"client_id,omitempty" bson:"client_id,omitempty"`
	LastLoginAt  *time.Time    `json:"last_login_at,omitempty" bson:"last_login_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}

// UserInput is the writable part of a user. Pointers distinguish absent
// fields from zero values on update.
type UserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Phone    *string `json:"phone"`
	Active   *bool   `json:"active"`
	ClientID *string `json:"client_id"`
}

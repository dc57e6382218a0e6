package schemas

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	ZipCode string `json:"zip_code,omitempty" bson:"zip_code,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	Country string `json:"country,omitempty" bson:"country,omitempty"`
}

type Client struct {
	ID           bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Company      string        `json:"company" bson:"company"`
	ContactName  string        `json:"contact_name" bson:"contact_name"`
	Email        string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone        string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      Address       `json:"address,omitempty" bson:"address,omitempty"`
	VATNumber    string        `json:"vat_number,omitempty" bson:"vat_number,omitempty"`
	UserID       bson.ObjectID `json:"user_id,omitempty" bson:"user_id,omitempty"`
	AccountOwner bson.ObjectID `json:"account_owner,omitempty" bson:"account_owner,omitempty"`
	FromProspect bson.ObjectID `json:"from_prospect,omitempty" bson:"from_prospect,omitempty"`
	CreatedAt    time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" bson:"updated_at"`
}

type ClientInput struct {
	Company      *string  `json:"company"`
	ContactName  *string  `json:"contact_name"`
	Email        *string  `json:"email"`
	Phone        *string  `json:"phone"`
	Address      *Address `json:"address"`
	VATNumber    *string  `json:"vat_number"`
	AccountOwner *string  `json:"account_owner"`
}

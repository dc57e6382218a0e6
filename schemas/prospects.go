package schemas

import (
	"slices"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	PROSPECT_STATUS_NEW       = "Nouveau"
	PROSPECT_STATUS_CONTACTED = "Contacté"
	PROSPECT_STATUS_QUALIFIED = "Qualifié"
	PROSPECT_STATUS_CONVERTED = "Converti"
	PROSPECT_STATUS_LOST      = "Perdu"
)

var ProspectStatuses = []string{
	PROSPECT_STATUS_NEW,
	PROSPECT_STATUS_CONTACTED,
	PROSPECT_STATUS_QUALIFIED,
	PROSPECT_STATUS_CONVERTED,
	PROSPECT_STATUS_LOST,
}

func IsValidProspectStatus(status string) bool {
	return slices.Contains(ProspectStatuses, status)
}

type Prospect struct {
	ID              bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	LegacyID        int64         `json:"legacy_id,omitempty" bson:"legacy_id,omitempty"`
	Company         string        `json:"company" bson:"company"`
	ContactName     string        `json:"contact_name" bson:"contact_name"`
	Email           string        `json:"email,omitempty" bson:"email,omitempty"`
	Phone           string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Source          string        `json:"source,omitempty" bson:"source,omitempty"`
	Status          string        `json:"status" bson:"status"`
	Notes           string        `json:"notes,omitempty" bson:"notes,omitempty"`
	AssignedTo      bson.ObjectID `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	ConvertedClient bson.ObjectID `json:"converted_client,omitempty" bson:"converted_client,omitempty"`
	ConvertedAt     *time.Time    `json:"converted_at,omitempty" bson:"converted_at,omitempty"`
	CreatedAt       time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at" bson:"updated_at"`
}

type ProspectInput struct {
	Company     *string `json:"company"`
	ContactName *string `json:"contact_name"`
	Email       *string `json:"email"`
	Phone       *string `json:"phone"`
	Source      *string `json:"source"`
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	AssignedTo  *string `json:"assigned_to"`
}

// Convert returns the client created from the prospect.
func (p *Prospect) Convert(now time.Time) (Client, error) {
	if p.Status == PROSPECT_STATUS_CONVERTED || !p.ConvertedClient.IsZero() {
		return Client{}, ErrProspectAlreadyConverted
	}

	client := Client{
		ID:           bson.NewObjectID(),
		Company:      p.Company,
		ContactName:  p.ContactName,
		Email:        p.Email,
		Phone:        p.Phone,
		FromProspect: p.ID,
		AccountOwner: p.AssignedTo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	p.Status = PROSPECT_STATUS_CONVERTED
	p.ConvertedClient = client.ID
	p.ConvertedAt = &now
	p.UpdatedAt = now

	return client, nil
}

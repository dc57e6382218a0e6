package schemas

import (
	"slices"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	TICKET_STATUS_OPEN        = "Ouvert"
	TICKET_STATUS_IN_PROGRESS = "En cours"
	TICKET_STATUS_RESOLVED    = "Résolu"
	TICKET_STATUS_CLOSED      = "Fermé"

	TICKET_PRIORITY_LOW    = "Basse"
	TICKET_PRIORITY_MEDIUM = "Moyenne"
	TICKET_PRIORITY_HIGH   = "Haute"
	TICKET_PRIORITY_URGENT = "Urgente"
)

var TicketStatuses = []string{TICKET_STATUS_OPEN, TICKET_STATUS_IN_PROGRESS, TICKET_STATUS_RESOLVED, TICKET_STATUS_CLOSED}

var TicketPriorities = []string{TICKET_PRIORITY_LOW, TICKET_PRIORITY_MEDIUM, TICKET_PRIORITY_HIGH, TICKET_PRIORITY_URGENT}

func IsValidTicketStatus(status string) bool {
	return slices.Contains(TicketStatuses, status)
}

func IsValidTicketPriority(priority string) bool {
	return slices.Contains(TicketPriorities, priority)
}

type TicketResponse struct {
	ID         bson.ObjectID `json:"id" bson:"_id"`
	Author     bson.ObjectID `json:"author" bson:"author"`
	AuthorName string        `json:"author_name,omitempty" bson:"author_name,omitempty"`
	AuthorRole string        `json:"author_role" bson:"author_role"`
	Message    string        `json:"message" bson:"message"`
	CreatedAt  time.Time     `json:"created_at" bson:"created_at"`
}

type Ticket struct {
	ID          bson.ObjectID    `json:"id,omitempty" bson:"_id,omitempty"`
	Subject     string           `json:"subject" bson:"subject"`
	Description string           `json:"description" bson:"description"`
	ClientID    bson.ObjectID    `json:"client_id,omitempty" bson:"client_id,omitempty"`
	CreatedBy   bson.ObjectID    `json:"created_by,omitempty" bson:"created_by,omitempty"`
	AssignedTo  bson.ObjectID    `json:"assigned_to,omitempty" bson:"assigned_to,omitempty"`
	Status      string           `json:"status" bson:"status"`
	Priority    string           `json:"priority" bson:"priority"`
	Responses   []TicketResponse `json:"responses" bson:"responses"`
	ResolvedAt  *time.Time       `json:"resolved_at,omitempty" bson:"resolved_at,omitempty"`
	CreatedAt   time.Time        `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" bson:"updated_at"`
}

type TicketInput struct {
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	ClientID    *string `json:"client_id"`
	AssignedTo  *string `json:"assigned_to"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
}

// SetStatus changes the status, stamping or clearing the resolution time.
func (t *Ticket) SetStatus(status string, now time.Time) error {
	if !IsValidTicketStatus(status) {
		return ErrInvalidTicketStatus
	}

	t.Status = status
	t.UpdatedAt = now

	switch status {
	case TICKET_STATUS_RESOLVED, TICKET_STATUS_CLOSED:
		if t.ResolvedAt == nil {
			t.ResolvedAt = &now
		}
	default:
		t.ResolvedAt = nil
	}

	return nil
}

// AddResponse appends a message to the thread. A staff reply picks up an
// open ticket; a client reply reopens a resolved one.
func (t *Ticket) AddResponse(response TicketResponse, now time.Time) error {
	if t.Status == TICKET_STATUS_CLOSED {
		return ErrTicketClosed
	}

	response.Message = strings.TrimSpace(response.Message)
	if response.Message == "" {
		return ErrEmptyResponse
	}

	if response.ID.IsZero() {
		response.ID = bson.NewObjectID()
	}
	response.CreatedAt = now

	t.Responses = append(t.Responses, response)
	t.UpdatedAt = now

	if response.AuthorRole == ROLE_CLIENT {
		if t.Status == TICKET_STATUS_RESOLVED {
			t.Status = TICKET_STATUS_OPEN
			t.ResolvedAt = nil
		}
		return nil
	}

	if t.Status == TICKET_STATUS_OPEN {
		t.Status = TICKET_STATUS_IN_PROGRESS
	}

	return nil
}

// ResolutionHours is the time from creation to resolution, or -1 when
// the ticket is not resolved.
func (t Ticket) ResolutionHours() float64 {
	if t.ResolvedAt == nil {
		return -1
	}
	return t.ResolvedAt.Sub(t.CreatedAt).Hours()
}

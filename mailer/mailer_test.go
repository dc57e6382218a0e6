package mailer

import (
	"context"
	"crm/schemas"
	"crm/utils"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestSendWithoutConfigIsDisabled(t *testing.T) {
	err := New(Config{}).Send(context.Background(), Message{To: "a@example.fr"})

	assert.ErrorIs(t, err, ErrDisabled)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(utils.SMTP_HOST, "smtp.example.fr")
	t.Setenv(utils.SMTP_PORT, "2525")
	t.Setenv(utils.SMTP_FROM, "crm@example.fr")

	config := ConfigFromEnv()

	assert.True(t, config.Enabled())
	assert.Equal(t, 2525, config.Port)
}

func TestConfigFromEnvDefaultsPort(t *testing.T) {
	t.Setenv(utils.SMTP_PORT, "")

	assert.Equal(t, 587, ConfigFromEnv().Port)
}

func TestBuildRejectsBadRecipient(t *testing.T) {
	m := New(Config{Host: "smtp.example.fr", From: "crm@example.fr"})

	_, err := m.Build(Message{To: "not an address", Subject: "x"})

	assert.Error(t, err)
}

func TestBuildWithAttachment(t *testing.T) {
	m := New(Config{Host: "smtp.example.fr", From: "crm@example.fr"})

	msg, err := m.Build(Message{
		To:          "client@example.fr",
		Subject:     "Facture",
		Body:        "Bonjour",
		Attachments: []Attachment{{Name: "f.pdf", Data: []byte("%PDF-1.3")}},
	})

	require.NoError(t, err)
	assert.Len(t, msg.GetAttachments(), 1)
}

func TestInvoiceMessage(t *testing.T) {
	due := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	inv := schemas.Invoice{Number: "FAC-202601-000001", Total: 1440, AmountPaid: 440, Balance: 1000, DueDate: &due}
	client := schemas.Client{ContactName: "Léa", Email: "lea@example.fr"}

	msg := InvoiceMessage(inv, client, []byte("pdf"))

	assert.Equal(t, "lea@example.fr", msg.To)
	assert.Equal(t, "Facture FAC-202601-000001", msg.Subject)
	assert.Contains(t, msg.Body, "1440.00 €")
	assert.Contains(t, msg.Body, "01/02/2026")
	assert.Contains(t, msg.Body, "Reste à payer : 1000.00 €")
	require.Len(t, msg.Attachments, 1)
	assert.Equal(t, "FAC-202601-000001.pdf", msg.Attachments[0].Name)
}

func TestTicketReplyMessage(t *testing.T) {
	ticket := schemas.Ticket{ID: bson.NewObjectID(), Subject: "Accès bloqué", Status: schemas.TICKET_STATUS_IN_PROGRESS}

	msg := TicketReplyMessage(ticket, schemas.TicketResponse{Message: "Nous regardons."}, "c@example.fr")

	assert.Contains(t, msg.Subject, ticket.ID.Hex())
	assert.Contains(t, msg.Body, "Nous regardons.")
	assert.Contains(t, msg.Body, schemas.TICKET_STATUS_IN_PROGRESS)
}

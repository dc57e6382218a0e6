package schemas

const (
	EVENT_TICKET_CREATED     = "ticket.created"
	EVENT_TICKET_UPDATED     = "ticket.updated"
	EVENT_TICKET_RESPONSE    = "ticket.response"
	EVENT_OPPORTUNITY_STAGE  = "opportunity.stage"
	EVENT_INVOICE_PAYMENT    = "invoice.payment"
	EVENT_PROSPECT_CONVERTED = "prospect.converted"
)

type Event struct {
	Type    string `json:"type"`
	Entity  string `json:"entity"`
	ID      string `json:"id"`
	Payload any    `json:"payload,omitempty"`

	// Audience restricts delivery to these roles; empty means staff.
	Audience []string `json:"-"`
	// ClientID additionally delivers to the client account it names.
	ClientID string `json:"-"`
}

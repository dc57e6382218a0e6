package schemas

import (
	"math"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
)

const (
	INVOICE_STATUS_DRAFT     = "Brouillon"
	INVOICE_STATUS_SENT      = "Envoyée"
	INVOICE_STATUS_PARTIAL   = "Partiellement payée"
	INVOICE_STATUS_PAID      = "Payée"
	INVOICE_STATUS_OVERDUE   = "En retard"
	INVOICE_STATUS_CANCELLED = "Annulée"

	PAYMENT_METHOD_TRANSFER = "Virement"
	PAYMENT_METHOD_CARD     = "Carte"
	PAYMENT_METHOD_CHEQUE   = "Chèque"
	PAYMENT_METHOD_CASH     = "Espèces"
	PAYMENT_METHOD_DEBIT    = "Prélèvement"

	DEFAULT_TAX_RATE = 20.0
)

var InvoiceStatuses = []string{
	INVOICE_STATUS_DRAFT,
	INVOICE_STATUS_SENT,
	INVOICE_STATUS_PARTIAL,
	INVOICE_STATUS_PAID,
	INVOICE_STATUS_OVERDUE,
	INVOICE_STATUS_CANCELLED,
}

var PaymentMethods = []string{
	PAYMENT_METHOD_TRANSFER,
	PAYMENT_METHOD_CARD,
	PAYMENT_METHOD_CHEQUE,
	PAYMENT_METHOD_CASH,
	PAYMENT_METHOD_DEBIT,
}

func IsValidInvoiceStatus(status string) bool {
	return slices.Contains(InvoiceStatuses, status)
}

type LineItem struct {
	Description string  `json:"description" bson:"description"`
	Quantity    float64 `json:"quantity" bson:"quantity"`
	UnitPrice   float64 `json:"unit_price" bson:"unit_price"`
	Total       float64 `json:"total" bson:"total"`
}

type Payment struct {
	ID        bson.ObjectID `json:"id" bson:"_id"`
	Amount    float64       `json:"amount" bson:"amount"`
	Method    string        `json:"method" bson:"method"`
	Reference string        `json:"reference,omitempty" bson:"reference,omitempty"`
	PaidAt    time.Time     `json:"paid_at" bson:"paid_at"`
	Recorded  bson.ObjectID `json:"recorded_by,omitempty" bson:"recorded_by,omitempty"`
}

type Invoice struct {
	ID            bson.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Number        string        `json:"number" bson:"number"`
	ClientID      bson.ObjectID `json:"client_id" bson:"client_id"`
	OpportunityID bson.ObjectID `json:"opportunity_id,omitempty" bson:"opportunity_id,omitempty"`
	Items         []LineItem    `json:"items" bson:"items"`
	TaxRate       float64       `json:"tax_rate" bson:"tax_rate"`
	Subtotal      float64       `json:"subtotal" bson:"subtotal"`
	TaxAmount     float64       `json:"tax_amount" bson:"tax_amount"`
	Total         float64       `json:"total" bson:"total"`
	AmountPaid    float64       `json:"amount_paid" bson:"amount_paid"`
	Balance       float64       `json:"balance" bson:"balance"`
	Status        string        `json:"status" bson:"status"`
	IssueDate     time.Time     `json:"issue_date" bson:"issue_date"`
	DueDate       *time.Time    `json:"due_date,omitempty" bson:"due_date,omitempty"`
	SentAt        *time.Time    `json:"sent_at,omitempty" bson:"sent_at,omitempty"`
	Notes         string        `json:"notes,omitempty" bson:"notes,omitempty"`
	Payments      []Payment     `json:"payments" bson:"payments"`
	CreatedBy     bson.ObjectID `json:"created_by,omitempty" bson:"created_by,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

type InvoiceInput struct {
	ClientID      *string     `json:"client_id"`
	OpportunityID *string     `json:"opportunity_id"`
	Items         *[]LineItem `json:"items"`
	TaxRate       *float64    `json:"tax_rate"`
	IssueDate     *time.Time  `json:"issue_date"`
	DueDate       *time.Time  `json:"due_date"`
	Notes         *string     `json:"notes"`
}

type PaymentInput struct {
	Amount    float64    `json:"amount"`
	Method    string     `json:"method"`
	Reference string     `json:"reference"`
	PaidAt    *time.Time `json:"paid_at"`
}

func RoundCents(value float64) float64 {
	return math.Round(value*100) / 100
}

// NewInvoiceNumber returns FAC-YYYYMM-XXXXXX.
func NewInvoiceNumber(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "FAC-" + now.Format("200601") + "-" + suffix
}

// Validate checks the fields a caller provides.
func (inv *Invoice) Validate() error {
	if len(inv.Items) == 0 {
		return ErrNoLineItems
	}
	for _, item := range inv.Items {
		if strings.TrimSpace(item.Description) == "" || item.Quantity <= 0 || item.UnitPrice < 0 {
			return ErrInvalidLineItem
		}
	}
	if inv.TaxRate < 0 || inv.TaxRate > 100 {
		return ErrInvalidTaxRate
	}
	return nil
}

// ComputeTotals recomputes every derived amount and the payment status.
// It runs before each write of an invoice.
func (inv *Invoice) ComputeTotals(now time.Time) {
	subtotal := 0.0
	for i := range inv.Items {
		inv.Items[i].Total = RoundCents(inv.Items[i].Quantity * inv.Items[i].UnitPrice)
		subtotal += inv.Items[i].Total
	}

	inv.Subtotal = RoundCents(subtotal)
	inv.TaxAmount = RoundCents(inv.Subtotal * inv.TaxRate / 100)
	inv.Total = RoundCents(inv.Subtotal + inv.TaxAmount)

	paid := 0.0
	for _, payment := range inv.Payments {
		paid += payment.Amount
	}
	inv.AmountPaid = RoundCents(paid)
	inv.Balance = RoundCents(inv.Total - inv.AmountPaid)

	inv.Status = inv.deriveStatus(now)
	inv.UpdatedAt = now
}

func (inv *Invoice) deriveStatus(now time.Time) string {
	switch {
	case inv.Status == INVOICE_STATUS_CANCELLED:
		return INVOICE_STATUS_CANCELLED
	case inv.AmountPaid > 0 && inv.Balance <= 0:
		return INVOICE_STATUS_PAID
	case inv.Status == INVOICE_STATUS_DRAFT && inv.AmountPaid == 0:
		return INVOICE_STATUS_DRAFT
	case inv.Status == "" && inv.AmountPaid == 0:
		return INVOICE_STATUS_DRAFT
	case inv.DueDate != nil && now.After(*inv.DueDate):
		return INVOICE_STATUS_OVERDUE
	case inv.AmountPaid > 0:
		return INVOICE_STATUS_PARTIAL
	default:
		return INVOICE_STATUS_SENT
	}
}

// RefreshStatus re-derives the status without touching amounts, so a
// stored invoice reads as overdue once its due date passes.
func (inv *Invoice) RefreshStatus(now time.Time) {
	inv.Status = inv.deriveStatus(now)
}

func (inv *Invoice) IsLocked() bool {
	return inv.Status == INVOICE_STATUS_PAID || inv.Status == INVOICE_STATUS_CANCELLED
}

// AddPayment records a payment and recomputes the totals.
func (inv *Invoice) AddPayment(input PaymentInput, by bson.ObjectID, now time.Time) (Payment, error) {
	if inv.IsLocked() {
		return Payment{}, ErrInvoiceLocked
	}
	if input.Amount <= 0 {
		return Payment{}, ErrInvalidPaymentAmount
	}
	if !slices.Contains(PaymentMethods, input.Method) {
		return Payment{}, ErrInvalidPaymentMethod
	}
	if RoundCents(input.Amount) > inv.Balance {
		return Payment{}, ErrPaymentExceedsBalance
	}

	paidAt := now
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}

	payment := Payment{
		ID:        bson.NewObjectID(),
		Amount:    RoundCents(input.Amount),
		Method:    input.Method,
		Reference: input.Reference,
		PaidAt:    paidAt,
		Recorded:  by,
	}

	if inv.Status == INVOICE_STATUS_DRAFT {
		inv.Status = INVOICE_STATUS_SENT
	}
	inv.Payments = append(inv.Payments, payment)
	inv.ComputeTotals(now)

	return payment, nil
}

// MarkSent moves a draft to sent.
func (inv *Invoice) MarkSent(now time.Time) error {
	if inv.Status == INVOICE_STATUS_CANCELLED {
		return ErrInvoiceLocked
	}
	if inv.Status == INVOICE_STATUS_DRAFT {
		inv.Status = INVOICE_STATUS_SENT
	}
	inv.SentAt = &now
	inv.ComputeTotals(now)
	return nil
}

func (inv *Invoice) Cancel(now time.Time) error {
	if inv.Status == INVOICE_STATUS_PAID || len(inv.Payments) > 0 {
		return ErrInvoiceLocked
	}
	inv.Status = INVOICE_STATUS_CANCELLED
	inv.UpdatedAt = now
	return nil
}

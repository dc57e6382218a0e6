package schemas

import "errors"

var (
	ErrInvalidStage           = errors.New("unknown opportunity stage")
	ErrInvalidStageTransition = errors.New("opportunity stage transition not allowed")
	ErrOpportunityClosed      = errors.New("opportunity is closed")

	ErrInvalidTicketStatus   = errors.New("unknown ticket status")
	ErrInvalidTicketPriority = errors.New("unknown ticket priority")
	ErrTicketClosed          = errors.New("ticket is closed")
	ErrEmptyResponse         = errors.New("response message is empty")

	ErrNoLineItems           = errors.New("invoice needs at least one line item")
	ErrInvalidLineItem       = errors.New("invoice line item needs a description, a positive quantity and a non-negative unit price")
	ErrInvalidTaxRate        = errors.New("tax rate must be between 0 and 100")
	ErrInvoiceLocked         = errors.New("invoice is paid or cancelled")
	ErrInvalidPaymentAmount  = errors.New("payment amount must be positive")
	ErrPaymentExceedsBalance = errors.New("payment exceeds invoice balance")
	ErrInvalidPaymentMethod  = errors.New("unknown payment method")

	ErrProspectAlreadyConverted = errors.New("prospect already converted")
)

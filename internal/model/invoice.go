package model

import "time"

// InvoiceStatus tracks whether an invoice has been paid.
type InvoiceStatus string

const (
	// InvoiceOpen is an issued invoice awaiting payment.
	InvoiceOpen InvoiceStatus = "open"
	// InvoicePaid is an invoice whose payment has been received.
	InvoicePaid InvoiceStatus = "paid"
)

// Invoice is an outgoing invoice; open invoices are the match targets for
// incoming bank transactions.
type Invoice struct {
	IssueDate   time.Time
	PaidDate    *time.Time
	Number      string
	ClientName  string
	Status      InvoiceStatus
	ID          int64
	EuerLine    int
	VATRate     VATRate
	NetAmount   float64
	GrossAmount float64
}

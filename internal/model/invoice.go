package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	InvoiceStatusPaid = "Paid"

	invoiceIDPattern  = "INV-%d-%03d"
	invoiceDateLayout = "2006-01-02"
	currencyPrefix    = "$"
)

var (
	ErrInvalidInvoiceAmount  = errors.New("invalid_invoice_amount")
	ErrInvalidInvoiceDetails = errors.New("invalid_invoice_details")
)

// Invoice is one immutable billing record.
type Invoice struct {
	ID      string `json:"id"`
	Date    string `json:"date"`
	Amount  string `json:"amount"`
	Status  string `json:"status"`
	Details string `json:"details"`
}

// InvoiceInput holds the raw values used to construct an Invoice.
type InvoiceInput struct {
	Amount  string
	Details string
}

// NewInvoice constructs a paid invoice dated now. The identifier sequence is
// the current collection length plus one, scoped to the current year; the
// sequence is intentionally not a persisted counter, so deleting records can
// reuse identifiers (kept as shipped pending a product decision).
func NewInvoice(input InvoiceInput, collectionLength int, now time.Time) (Invoice, error) {
	amount := strings.TrimSpace(input.Amount)
	if amount == "" {
		return Invoice{}, ErrInvalidInvoiceAmount
	}
	if !strings.HasPrefix(amount, currencyPrefix) {
		amount = currencyPrefix + amount
	}

	details := strings.TrimSpace(input.Details)
	if details == "" {
		return Invoice{}, ErrInvalidInvoiceDetails
	}

	stampedDate := now.UTC()
	return Invoice{
		ID:      fmt.Sprintf(invoiceIDPattern, stampedDate.Year(), collectionLength+1),
		Date:    stampedDate.Format(invoiceDateLayout),
		Amount:  amount,
		Status:  InvoiceStatusPaid,
		Details: details,
	}, nil
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus is a plain label, not a state machine; transition rules live
// in the UI layer, the core only aggregates over the labels.
type InvoiceStatus string

const (
	StatusDraft     InvoiceStatus = "DRAFT"
	StatusSent      InvoiceStatus = "SENT"
	StatusPaid      InvoiceStatus = "PAID"
	StatusOverdue   InvoiceStatus = "OVERDUE"
	StatusCancelled InvoiceStatus = "CANCELLED"
)

// IsValid reports whether s is one of the known status labels.
func (s InvoiceStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusSent, StatusPaid, StatusOverdue, StatusCancelled:
		return true
	}
	return false
}

// LineItem is one billable row of an invoice. Amount is always recomputed as
// Quantity × Rate; it is stored for display only.
type LineItem struct {
	LineItemID  string          `json:"lineItemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// Invoice is a client-facing bill. Subtotal, Tax and Total are derived from
// the line items through the totals calculator and rounded to the currency's
// fraction digits. The invoice stores its currency but not the exchange rate
// in effect at creation time; conversions always use the current rate table.
type Invoice struct {
	InvoiceID        string          `json:"invoiceID"`
	InvoiceNumber    string          `json:"invoiceNumber"`
	ClientID         string          `json:"clientID"`
	CompanyProfileID string          `json:"companyProfileID"`
	LineItems        []LineItem      `json:"lineItems"`
	Subtotal         decimal.Decimal `json:"subtotal"`
	TaxRate          decimal.Decimal `json:"taxRate"` // percentage, e.g. 27 for 27%
	Tax              decimal.Decimal `json:"tax"`
	Total            decimal.Decimal `json:"total"`
	CurrencyCode     string          `json:"currencyCode"`
	Status           InvoiceStatus   `json:"status"`
	IssueDate        time.Time       `json:"issueDate"`
	DueDate          time.Time       `json:"dueDate"`
	FulfillmentDate  time.Time       `json:"fulfillmentDate"`
	PaymentMethod    string          `json:"paymentMethod"`
	AuditFields
}

// InvoiceTotals is the result of the line-item calculator. Subtotal, TaxAmount
// and Total are each rounded independently to FractionDigits, so
// Subtotal + TaxAmount may differ from Total by one minor unit. That mismatch
// is accepted behavior, not derived away.
type InvoiceTotals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Total          decimal.Decimal `json:"total"`
	FractionDigits int32           `json:"fractionDigits"`
}

// RevenueSummary holds the four documented revenue aggregates, all expressed
// in a single reporting currency. Draft and cancelled invoices are excluded
// from every aggregate.
type RevenueSummary struct {
	CurrencyCode  string          `json:"currencyCode"`
	TotalInvoiced decimal.Decimal `json:"totalInvoiced"` // paid + sent + overdue
	Paid          decimal.Decimal `json:"paid"`
	Pending       decimal.Decimal `json:"pending"` // sent only
	Overdue       decimal.Decimal `json:"overdue"`
}

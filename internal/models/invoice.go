package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice represents a persisted invoice header. Monetary columns are stored
// already rounded to the currency's minor unit.
type Invoice struct {
	InvoiceID        string          `json:"invoiceID" db:"invoice_id"` // Primary Key
	InvoiceNumber    string          `json:"invoiceNumber" db:"invoice_number"`
	ClientID         string          `json:"clientID" db:"client_id"`
	CompanyProfileID string          `json:"companyProfileID" db:"company_profile_id"`
	Subtotal         decimal.Decimal `json:"subtotal" db:"subtotal"`
	TaxRate          decimal.Decimal `json:"taxRate" db:"tax_rate"` // Percentage, e.g. 27 for 27%
	Tax              decimal.Decimal `json:"tax" db:"tax"`
	Total            decimal.Decimal `json:"total" db:"total"`
	CurrencyCode     string          `json:"currencyCode" db:"currency_code"`
	Status           string          `json:"status" db:"status"` // DRAFT, SENT, PAID, OVERDUE, CANCELLED
	IssueDate        time.Time       `json:"issueDate" db:"issue_date"`
	DueDate          time.Time       `json:"dueDate" db:"due_date"`
	FulfillmentDate  time.Time       `json:"fulfillmentDate" db:"fulfillment_date"`
	PaymentMethod    string          `json:"paymentMethod" db:"payment_method"`
	AuditFields
}

// InvoiceLineItem represents one billable row of an invoice.
type InvoiceLineItem struct {
	LineItemID  string          `json:"lineItemID" db:"line_item_id"` // Primary Key
	InvoiceID   string          `json:"invoiceID" db:"invoice_id"`    // FK -> Invoice.invoice_id
	Description string          `json:"description" db:"description"`
	Quantity    decimal.Decimal `json:"quantity" db:"quantity"`
	Rate        decimal.Decimal `json:"rate" db:"rate"`
	Amount      decimal.Decimal `json:"amount" db:"amount"` // quantity * rate, unrounded
	Position    int             `json:"position" db:"position"`
}

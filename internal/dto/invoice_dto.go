package dto

import (
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LineItemRequest is one billable row in an invoice creation request. Amount
// is intentionally absent: the server recomputes quantity × rate and ignores
// any client-side arithmetic.
type LineItemRequest struct {
	Description string          `json:"description" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	Rate        decimal.Decimal `json:"rate" binding:"required"`
}

// CreateInvoiceRequest defines the payload for creating a new invoice.
type CreateInvoiceRequest struct {
	ClientID         string            `json:"clientID" binding:"required"`
	CompanyProfileID string            `json:"companyProfileID" binding:"required"`
	CurrencyCode     string            `json:"currencyCode" binding:"required,currencycode"`
	TaxRate          decimal.Decimal   `json:"taxRate"`
	Discount         decimal.Decimal   `json:"discount"`
	LineItems        []LineItemRequest `json:"lineItems" binding:"required,min=1,dive"`
	Status           string            `json:"status"`
	IssueDate        time.Time         `json:"issueDate" binding:"required"`
	DueDate          time.Time         `json:"dueDate"`
	FulfillmentDate  time.Time         `json:"fulfillmentDate"`
	PaymentMethod    string            `json:"paymentMethod"`
}

// UpdateInvoiceStatusRequest changes an invoice's status label.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// LineItemResponse mirrors a persisted line item.
type LineItemResponse struct {
	LineItemID  string          `json:"lineItemID"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Rate        decimal.Decimal `json:"rate"`
	Amount      decimal.Decimal `json:"amount"`
}

// InvoiceResponse defines the API shape of an invoice.
type InvoiceResponse struct {
	InvoiceID        string             `json:"invoiceID"`
	InvoiceNumber    string             `json:"invoiceNumber"`
	ClientID         string             `json:"clientID"`
	CompanyProfileID string             `json:"companyProfileID"`
	LineItems        []LineItemResponse `json:"lineItems"`
	Subtotal         decimal.Decimal    `json:"subtotal"`
	TaxRate          decimal.Decimal    `json:"taxRate"`
	Tax              decimal.Decimal    `json:"tax"`
	Total            decimal.Decimal    `json:"total"`
	CurrencyCode     string             `json:"currencyCode"`
	Status           string             `json:"status"`
	IssueDate        time.Time          `json:"issueDate"`
	DueDate          time.Time          `json:"dueDate"`
	FulfillmentDate  time.Time          `json:"fulfillmentDate"`
	PaymentMethod    string             `json:"paymentMethod"`
	CreatedAt        time.Time          `json:"createdAt"`
	LastUpdatedAt    time.Time          `json:"lastUpdatedAt"`
}

// ToInvoiceResponse converts a domain.Invoice to its API shape.
func ToInvoiceResponse(invoice *domain.Invoice) InvoiceResponse {
	items := make([]LineItemResponse, len(invoice.LineItems))
	for i, item := range invoice.LineItems {
		items[i] = LineItemResponse{
			LineItemID:  item.LineItemID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Rate:        item.Rate,
			Amount:      item.Amount,
		}
	}
	return InvoiceResponse{
		InvoiceID:        invoice.InvoiceID,
		InvoiceNumber:    invoice.InvoiceNumber,
		ClientID:         invoice.ClientID,
		CompanyProfileID: invoice.CompanyProfileID,
		LineItems:        items,
		Subtotal:         invoice.Subtotal,
		TaxRate:          invoice.TaxRate,
		Tax:              invoice.Tax,
		Total:            invoice.Total,
		CurrencyCode:     invoice.CurrencyCode,
		Status:           string(invoice.Status),
		IssueDate:        invoice.IssueDate,
		DueDate:          invoice.DueDate,
		FulfillmentDate:  invoice.FulfillmentDate,
		PaymentMethod:    invoice.PaymentMethod,
		CreatedAt:        invoice.CreatedAt,
		LastUpdatedAt:    invoice.LastUpdatedAt,
	}
}

// ToListInvoiceResponse converts a slice of invoices to API shapes.
func ToListInvoiceResponse(invoices []domain.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}

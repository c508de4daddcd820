package mapping

import (
	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/flowlance/finplan_backend/internal/models"
)

// ToModelInvoice converts a domain Invoice header to a model Invoice.
// Line items are mapped separately because they live in their own table.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:        d.InvoiceID,
		InvoiceNumber:    d.InvoiceNumber,
		ClientID:         d.ClientID,
		CompanyProfileID: d.CompanyProfileID,
		Subtotal:         d.Subtotal,
		TaxRate:          d.TaxRate,
		Tax:              d.Tax,
		Total:            d.Total,
		CurrencyCode:     d.CurrencyCode,
		Status:           string(d.Status),
		IssueDate:        d.IssueDate,
		DueDate:          d.DueDate,
		FulfillmentDate:  d.FulfillmentDate,
		PaymentMethod:    d.PaymentMethod,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a model Invoice and its line items to a domain
// Invoice.
func ToDomainInvoice(m models.Invoice, items []models.InvoiceLineItem) domain.Invoice {
	domainItems := make([]domain.LineItem, len(items))
	for i, item := range items {
		domainItems[i] = ToDomainLineItem(item)
	}
	return domain.Invoice{
		InvoiceID:        m.InvoiceID,
		InvoiceNumber:    m.InvoiceNumber,
		ClientID:         m.ClientID,
		CompanyProfileID: m.CompanyProfileID,
		LineItems:        domainItems,
		Subtotal:         m.Subtotal,
		TaxRate:          m.TaxRate,
		Tax:              m.Tax,
		Total:            m.Total,
		CurrencyCode:     m.CurrencyCode,
		Status:           domain.InvoiceStatus(m.Status),
		IssueDate:        m.IssueDate,
		DueDate:          m.DueDate,
		FulfillmentDate:  m.FulfillmentDate,
		PaymentMethod:    m.PaymentMethod,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelLineItem converts a domain LineItem to a model InvoiceLineItem.
func ToModelLineItem(d domain.LineItem, invoiceID string, position int) models.InvoiceLineItem {
	return models.InvoiceLineItem{
		LineItemID:  d.LineItemID,
		InvoiceID:   invoiceID,
		Description: d.Description,
		Quantity:    d.Quantity,
		Rate:        d.Rate,
		Amount:      d.Amount,
		Position:    position,
	}
}

// ToDomainLineItem converts a model InvoiceLineItem to a domain LineItem.
func ToDomainLineItem(m models.InvoiceLineItem) domain.LineItem {
	return domain.LineItem{
		LineItemID:  m.LineItemID,
		Description: m.Description,
		Quantity:    m.Quantity,
		Rate:        m.Rate,
		Amount:      m.Amount,
	}
}

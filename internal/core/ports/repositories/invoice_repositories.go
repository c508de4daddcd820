package repositories

import (
	"context"

	"github.com/flowlance/finplan_backend/internal/core/domain"
)

// InvoiceRepository persists invoices together with their line items.
type InvoiceRepository interface {
	// SaveInvoice stores the invoice and its line items atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice) error

	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	ListInvoices(ctx context.Context) ([]domain.Invoice, error)

	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updatedBy string) error
}

// SequenceRepository issues persistently incrementing counters scoped by
// (companyID, year). Counters are strictly monotonic and never reused, even
// when invoices are deleted.
type SequenceRepository interface {
	// NextSequence increments and returns the counter in a single atomic
	// statement.
	NextSequence(ctx context.Context, companyID string, year int) (int64, error)
}

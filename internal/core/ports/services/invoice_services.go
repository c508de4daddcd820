package services

import (
	"context"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/flowlance/finplan_backend/internal/dto"
)

// InvoiceSvcFacade manages invoice lifecycle: totals calculation, number
// assignment and persistence.
type InvoiceSvcFacade interface {
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, creatorUserID string) (*domain.Invoice, error)
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)
	ListInvoices(ctx context.Context) ([]domain.Invoice, error)
	UpdateInvoiceStatus(ctx context.Context, invoiceID string, status domain.InvoiceStatus, updaterUserID string) (*domain.Invoice, error)
}

// SequenceSvcFacade issues formatted, gapless invoice numbers. Calling it
// speculatively and discarding the result leaves a permanent gap; the number
// must be requested exactly once per invoice creation.
type SequenceSvcFacade interface {
	NextInvoiceNumber(ctx context.Context, companyID string, year int) (string, error)
}

package services

import (
	"context"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ReportingSvcFacade computes revenue aggregates over the invoice collection,
// normalizing multi-currency totals into one reporting currency.
type ReportingSvcFacade interface {
	// TotalByStatus sums converted invoice totals. A nil statusFilter means
	// all invoices. Conversion happens per invoice before summing.
	TotalByStatus(ctx context.Context, statusFilter *domain.InvoiceStatus, targetCurrency string) (decimal.Decimal, error)

	// BreakdownByCurrency groups invoice totals by their native currency with
	// no conversion applied.
	BreakdownByCurrency(ctx context.Context, statusFilter *domain.InvoiceStatus) (map[string]decimal.Decimal, error)

	// RevenueSummary computes the four policy aggregates (total invoiced,
	// paid, pending, overdue) in the target currency. Draft and cancelled
	// invoices are excluded from all of them.
	RevenueSummary(ctx context.Context, targetCurrency string) (*domain.RevenueSummary, error)
}

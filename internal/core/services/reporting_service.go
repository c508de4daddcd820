package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

// reportingService implements the invoice aggregation engine. Filtering and
// currency normalization are independent concerns: every matching invoice is
// converted on its own and only then summed, never the other way around.
type reportingService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepository
	converter   portssvc.Converter
}

// ReportingServiceOption is a functional option for configuring the reporting
// service.
type ReportingServiceOption func(*reportingService)

// NewReportingService creates a new reporting service.
func NewReportingService(invoiceRepo portsrepo.InvoiceRepository, converter portssvc.Converter, options ...ReportingServiceOption) portssvc.ReportingSvcFacade {
	svc := &reportingService{
		invoiceRepo: invoiceRepo,
		converter:   converter,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure reportingService implements the ReportingSvcFacade interface.
var _ portssvc.ReportingSvcFacade = (*reportingService)(nil)

// TotalByStatus sums converted invoice totals for the filter. A nil filter
// matches every invoice regardless of status.
func (s *reportingService) TotalByStatus(ctx context.Context, statusFilter *domain.InvoiceStatus, targetCurrency string) (decimal.Decimal, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for status total")
		return decimal.Zero, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	target := strings.ToUpper(targetCurrency)
	total := decimal.Zero
	for _, invoice := range invoices {
		if statusFilter != nil && invoice.Status != *statusFilter {
			continue
		}
		total = total.Add(s.converter.Convert(ctx, invoice.Total, invoice.CurrencyCode, target))
	}
	return total, nil
}

// BreakdownByCurrency groups invoice totals by their native currency, with no
// conversion applied. The converted sum of the breakdown always matches
// TotalByStatus for the same filter.
func (s *reportingService) BreakdownByCurrency(ctx context.Context, statusFilter *domain.InvoiceStatus) (map[string]decimal.Decimal, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for currency breakdown")
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	breakdown := make(map[string]decimal.Decimal)
	for _, invoice := range invoices {
		if statusFilter != nil && invoice.Status != *statusFilter {
			continue
		}
		code := strings.ToUpper(invoice.CurrencyCode)
		breakdown[code] = breakdown[code].Add(invoice.Total)
	}
	return breakdown, nil
}

// RevenueSummary computes the four policy aggregates. The predicates are
// mutually exclusive over {paid, sent, overdue} except for TotalInvoiced,
// which is their union by definition; draft and cancelled invoices count
// toward nothing.
func (s *reportingService) RevenueSummary(ctx context.Context, targetCurrency string) (*domain.RevenueSummary, error) {
	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for revenue summary")
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	target := strings.ToUpper(targetCurrency)
	summary := &domain.RevenueSummary{
		CurrencyCode:  target,
		TotalInvoiced: decimal.Zero,
		Paid:          decimal.Zero,
		Pending:       decimal.Zero,
		Overdue:       decimal.Zero,
	}

	for _, invoice := range invoices {
		var converted decimal.Decimal
		switch invoice.Status {
		case domain.StatusPaid:
			converted = s.converter.Convert(ctx, invoice.Total, invoice.CurrencyCode, target)
			summary.Paid = summary.Paid.Add(converted)
		case domain.StatusSent:
			converted = s.converter.Convert(ctx, invoice.Total, invoice.CurrencyCode, target)
			summary.Pending = summary.Pending.Add(converted)
		case domain.StatusOverdue:
			converted = s.converter.Convert(ctx, invoice.Total, invoice.CurrencyCode, target)
			summary.Overdue = summary.Overdue.Add(converted)
		default:
			// draft and cancelled invoices are not revenue
			continue
		}
		summary.TotalInvoiced = summary.TotalInvoiced.Add(converted)
	}

	s.LogInfo(ctx, "Revenue summary computed",
		slog.String("currency", target),
		slog.Int("invoice_count", len(invoices)))
	return summary, nil
}

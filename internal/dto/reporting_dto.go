package dto

import (
	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RevenueSummaryResponse carries the four revenue aggregates in one reporting
// currency.
type RevenueSummaryResponse struct {
	CurrencyCode  string          `json:"currencyCode"`
	TotalInvoiced decimal.Decimal `json:"totalInvoiced"`
	Paid          decimal.Decimal `json:"paid"`
	Pending       decimal.Decimal `json:"pending"`
	Overdue       decimal.Decimal `json:"overdue"`
}

// CurrencyBreakdownResponse groups invoice totals by their native currency,
// unconverted.
type CurrencyBreakdownResponse struct {
	Status string                     `json:"status,omitempty"`
	Sums   map[string]decimal.Decimal `json:"sums"`
}

// ToRevenueSummaryResponse converts a domain.RevenueSummary to its API shape.
func ToRevenueSummaryResponse(summary *domain.RevenueSummary) RevenueSummaryResponse {
	return RevenueSummaryResponse{
		CurrencyCode:  summary.CurrencyCode,
		TotalInvoiced: summary.TotalInvoiced,
		Paid:          summary.Paid,
		Pending:       summary.Pending,
		Overdue:       summary.Overdue,
	}
}

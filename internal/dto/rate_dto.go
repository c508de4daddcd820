package dto

import (
	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SetRateRequest upserts one exchange rate, expressed as units of the base
// currency per 1 unit of the given code.
type SetRateRequest struct {
	CurrencyCode string          `json:"currencyCode" binding:"required,currencycode"`
	Rate         decimal.Decimal `json:"rate" binding:"required"`
}

// RateTableResponse is the full conversion table.
type RateTableResponse struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
}

// RefreshResultResponse reports the outcome of an external rate refresh.
type RefreshResultResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RateCount int    `json:"rateCount"`
}

// ToRateTableResponse converts a domain.RateTable to its API shape.
func ToRateTableResponse(table domain.RateTable) RateTableResponse {
	return RateTableResponse{
		BaseCurrency: table.BaseCurrency,
		Rates:        table.Rates,
	}
}

// ToRefreshResultResponse converts a domain.RefreshResult to its API shape.
func ToRefreshResultResponse(result domain.RefreshResult) RefreshResultResponse {
	return RefreshResultResponse{
		Success:   result.Success,
		Message:   result.Message,
		RateCount: result.RateCount,
	}
}

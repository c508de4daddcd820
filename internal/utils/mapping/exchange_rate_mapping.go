package mapping

import (
	"github.com/flowlance/finplan_backend/internal/models"
	"github.com/shopspring/decimal"
)

// ToDomainRates flattens persisted rate rows into the in-memory table shape.
func ToDomainRates(rows []models.ExchangeRate) map[string]decimal.Decimal {
	rates := make(map[string]decimal.Decimal, len(rows))
	for _, row := range rows {
		rates[row.CurrencyCode] = row.Rate
	}
	return rates
}

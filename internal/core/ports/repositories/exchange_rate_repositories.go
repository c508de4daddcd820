package repositories

import (
	"context"

	"github.com/shopspring/decimal"
)

// ExchangeRateRepository persists the exchange rate table. Rates are stored
// as "units of base currency per 1 unit of code"; the base currency itself is
// never stored.
type ExchangeRateRepository interface {
	// LoadRates returns the full persisted table.
	LoadRates(ctx context.Context) (map[string]decimal.Decimal, error)

	// SaveRate upserts a single rate.
	SaveRate(ctx context.Context, currencyCode string, rate decimal.Decimal, updatedBy string) error

	// ReplaceRates swaps the whole persisted table in one transaction. Either
	// every rate lands or none does; refresh failures must never leave a
	// partially written table behind.
	ReplaceRates(ctx context.Context, rates map[string]decimal.Decimal, updatedBy string) error
}

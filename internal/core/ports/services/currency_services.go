package services

import (
	"context"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// Converter is the currency conversion engine. All cross-currency arithmetic
// in the application routes through this interface; amounts are never
// combined across currencies any other way.
type Converter interface {
	// LoadRates hydrates the table from persistence. Called once at startup.
	LoadRates(ctx context.Context) error

	// Convert translates amount from one currency to another through the base
	// currency. Identity conversions return the amount unchanged, with no
	// rounding applied.
	Convert(ctx context.Context, amount decimal.Decimal, fromCode, toCode string) decimal.Decimal

	// GetRate returns the stored rate for code in units of base per 1 unit of
	// code. Unknown codes fall back to 1 and are logged; the fallback keeps a
	// single bad record from aborting a whole aggregation.
	GetRate(ctx context.Context, code string) decimal.Decimal

	// SetRate mutates the table in place, affecting all subsequent
	// conversions. Overwriting the base currency with a non-1 rate is
	// rejected.
	SetRate(ctx context.Context, code string, rate decimal.Decimal, updatedBy string) error

	// RefreshRates replaces the table from the configured external source.
	// On failure the table is left untouched and the result carries the
	// reason; no partial update is ever observable.
	RefreshRates(ctx context.Context) domain.RefreshResult

	// RateTable returns a copy of the current table.
	RateTable(ctx context.Context) domain.RateTable

	// BaseCurrency returns the code whose rate is implicitly 1.
	BaseCurrency() string
}

package domain

import (
	"github.com/shopspring/decimal"
)

// RateTable maps currency codes to their exchange rate expressed as units of
// the base currency per 1 unit of the foreign currency. The base currency has
// an implicit rate of 1 and is never stored with a conflicting value.
//
// The table is a value object owned by the conversion service; it is created
// at startup from persisted rates and replaced wholesale on refresh. It is
// never reachable through package-level state.
type RateTable struct {
	BaseCurrency string                     `json:"baseCurrency"`
	Rates        map[string]decimal.Decimal `json:"rates"`
}

// NewRateTable builds a table for the given base currency.
func NewRateTable(baseCurrency string, rates map[string]decimal.Decimal) RateTable {
	if rates == nil {
		rates = make(map[string]decimal.Decimal)
	}
	return RateTable{BaseCurrency: baseCurrency, Rates: rates}
}

// Clone returns a deep copy so callers can hand the table out without
// exposing the service's internal map to mutation.
func (t RateTable) Clone() RateTable {
	rates := make(map[string]decimal.Decimal, len(t.Rates))
	for code, rate := range t.Rates {
		rates[code] = rate
	}
	return RateTable{BaseCurrency: t.BaseCurrency, Rates: rates}
}

// RefreshResult reports the outcome of an external rate refresh. On failure
// the previous table stays in effect untouched; callers surface Message to
// the user instead of handling an error chain.
type RefreshResult struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	RateCount int    `json:"rateCount"`
}

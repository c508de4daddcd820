package models

import "github.com/shopspring/decimal"

// ExchangeRate represents a persisted conversion rate: how many units of the
// base currency one unit of currency_code is worth. The base currency itself
// is never stored; its rate is definitionally 1.
type ExchangeRate struct {
	CurrencyCode string          `json:"currencyCode" db:"currency_code"` // Primary Key (e.g., "EUR")
	Rate         decimal.Decimal `json:"rate" db:"rate"`                  // Units of base per 1 unit of currency_code
	AuditFields
}

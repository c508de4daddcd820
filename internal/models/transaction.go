package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a persisted income/expense record. Recurring masters
// and their materialized history occurrences share this table; kind tells
// them apart and origin_id links an occurrence back to its master.
type Transaction struct {
	TransactionID string          `json:"transactionID" db:"transaction_id"` // Primary Key
	Type          string          `json:"type" db:"type"`                    // INCOME or EXPENSE
	Amount        decimal.Decimal `json:"amount" db:"amount"`                // Positive value
	CurrencyCode  string          `json:"currencyCode" db:"currency_code"`
	Date          time.Time       `json:"date" db:"date"`
	Category      string          `json:"category" db:"category"`
	Description   string          `json:"description" db:"description"`
	Period        string          `json:"period" db:"period"`                // ONE_TIME, DAILY, WEEKLY, MONTHLY, YEARLY
	Kind          string          `json:"kind" db:"kind"`                    // MASTER or HISTORY
	OriginID      string          `json:"originID" db:"origin_id"`           // FK -> Transaction.transaction_id; empty for masters
	AuditFields
}

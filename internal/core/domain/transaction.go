package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	Income  TransactionType = "INCOME"
	Expense TransactionType = "EXPENSE"
)

// TransactionKind separates recurring templates from the dated occurrences
// they generate. A MasterTransaction is the template whose date is advanced
// after each materialization pass; a HistoryTransaction is an immutable
// snapshot of one past occurrence and is never itself recurring.
type TransactionKind string

const (
	MasterTransaction  TransactionKind = "MASTER"
	HistoryTransaction TransactionKind = "HISTORY"
)

// RecurrencePeriod is the interval at which a master transaction repeats.
type RecurrencePeriod string

const (
	PeriodOneTime RecurrencePeriod = "ONE_TIME"
	PeriodDaily   RecurrencePeriod = "DAILY"
	PeriodWeekly  RecurrencePeriod = "WEEKLY"
	PeriodMonthly RecurrencePeriod = "MONTHLY"
	PeriodYearly  RecurrencePeriod = "YEARLY"
)

// NextAfter returns the next occurrence date after t for this period.
// Monthly and yearly steps use calendar arithmetic, so month-length
// normalization (e.g. Jan 31 + 1 month) follows time.AddDate semantics.
func (p RecurrencePeriod) NextAfter(t time.Time) (time.Time, error) {
	switch p {
	case PeriodDaily:
		return t.AddDate(0, 0, 1), nil
	case PeriodWeekly:
		return t.AddDate(0, 0, 7), nil
	case PeriodMonthly:
		return t.AddDate(0, 1, 0), nil
	case PeriodYearly:
		return t.AddDate(1, 0, 0), nil
	default:
		return time.Time{}, fmt.Errorf("period %q does not recur", p)
	}
}

// IsRecurring reports whether the period produces repeated occurrences.
func (p RecurrencePeriod) IsRecurring() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// Transaction is a single income or expense record. Master transactions act
// as recurring templates; history transactions are the materialized
// occurrences pointing back at their master via OriginID.
type Transaction struct {
	TransactionID string           `json:"transactionID"`
	Type          TransactionType  `json:"type"`
	Amount        decimal.Decimal  `json:"amount"`
	CurrencyCode  string           `json:"currencyCode"`
	Date          time.Time        `json:"date"`
	Category      string           `json:"category"`
	Description   string           `json:"description"`
	Period        RecurrencePeriod `json:"period"`
	Kind          TransactionKind  `json:"kind"`
	OriginID      string           `json:"originID,omitempty"` // master's ID, set on history records only
	AuditFields
}

// OccurrenceID derives the deterministic identifier of the history occurrence
// of a master transaction on the given date. Re-running the materializer can
// never duplicate an occurrence because the ID is a pure function of
// (master, date).
func OccurrenceID(masterID string, date time.Time) string {
	return masterID + "_" + date.Format("2006-01-02")
}

// MaterializeResult reports the outcome of one materializer pass.
type MaterializeResult struct {
	Skipped        bool `json:"skipped"` // a pass was already in flight
	CreatedCount   int  `json:"createdCount"`
	AdvancedCount  int  `json:"advancedCount"`  // masters whose date moved forward
	ResumableCount int  `json:"resumableCount"` // masters that hit the catch-up cap
}

package repositories

import (
	"context"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
)

// TransactionRepository persists income/expense transactions, both recurring
// masters and their materialized history occurrences.
type TransactionRepository interface {
	SaveTransaction(ctx context.Context, txn domain.Transaction) error

	// SaveTransactions persists a batch atomically; used by the materializer
	// so one pass commits all of its occurrences or none.
	SaveTransactions(ctx context.Context, txns []domain.Transaction) error

	FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error)

	ListTransactions(ctx context.Context) ([]domain.Transaction, error)

	// ListRecurringMasters returns master transactions with a recurring period.
	ListRecurringMasters(ctx context.Context) ([]domain.Transaction, error)

	// ListOccurrenceIDs returns the IDs of all history transactions as a set,
	// keyed by the deterministic {masterID}_{date} identifier.
	ListOccurrenceIDs(ctx context.Context) (map[string]struct{}, error)

	// UpdateTransactionDate moves a master's anchor date forward after a
	// materialization pass.
	UpdateTransactionDate(ctx context.Context, transactionID string, date time.Time, updatedBy string) error
}

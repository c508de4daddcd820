package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	"github.com/flowlance/finplan_backend/internal/models"
	"github.com/flowlance/finplan_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const transactionColumns = `transaction_id, type, amount, currency_code, date, category, description, period, kind, origin_id, created_at, created_by, last_updated_at, last_updated_by`

const insertTransactionQuery = `
	INSERT INTO transactions (` + transactionColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	ON CONFLICT (transaction_id) DO NOTHING;
`

// PgxTransactionRepository implements the ports.TransactionRepository
// interface using pgxpool.
type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new PgxTransactionRepository.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepository {
	return &PgxTransactionRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.TransactionRepository = (*PgxTransactionRepository)(nil)

// SaveTransaction inserts a single transaction. Conflicting IDs are ignored
// rather than rejected; occurrence IDs are deterministic and a replay of an
// already materialized occurrence is not an error.
func (r *PgxTransactionRepository) SaveTransaction(ctx context.Context, txn domain.Transaction) error {
	m := mapping.ToModelTransaction(txn)
	_, err := r.Pool.Exec(ctx, insertTransactionQuery, transactionArgs(m)...)
	if err != nil {
		return fmt.Errorf("failed to save transaction %s: %w", m.TransactionID, err)
	}
	return nil
}

// SaveTransactions inserts a batch inside one transaction so a materializer
// pass commits all of its occurrences or none.
func (r *PgxTransactionRepository) SaveTransactions(ctx context.Context, txns []domain.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelTransaction(txn)
		batch.Queue(insertTransactionQuery, transactionArgs(m)...)
	}

	return r.execInTx(ctx, func(tx pgx.Tx) error {
		results := tx.SendBatch(ctx, batch)
		for range txns {
			if _, err := results.Exec(); err != nil {
				_ = results.Close()
				return fmt.Errorf("failed to save transaction batch: %w", err)
			}
		}
		if err := results.Close(); err != nil {
			return fmt.Errorf("failed to close transaction batch: %w", err)
		}
		return nil
	})
}

// FindTransactionByID retrieves a transaction by its ID.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE transaction_id = $1;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, transactionID).Scan(transactionScanTargets(&m)...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find transaction %s: %w", transactionID, err)
	}

	d := mapping.ToDomainTransaction(m)
	return &d, nil
}

// ListTransactions returns every transaction, masters and history alike,
// newest first.
func (r *PgxTransactionRepository) ListTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions ORDER BY date DESC, transaction_id;`
	return r.queryTransactions(ctx, query)
}

// ListRecurringMasters returns master transactions with a repeating period.
func (r *PgxTransactionRepository) ListRecurringMasters(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT ` + transactionColumns + `
		FROM transactions
		WHERE kind = 'MASTER' AND period <> 'ONE_TIME'
		ORDER BY date, transaction_id;
	`
	return r.queryTransactions(ctx, query)
}

// ListOccurrenceIDs returns the IDs of all history transactions as a set.
func (r *PgxTransactionRepository) ListOccurrenceIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := r.Pool.Query(ctx, `SELECT transaction_id FROM transactions WHERE kind = 'HISTORY';`)
	if err != nil {
		return nil, fmt.Errorf("failed to list occurrence IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan occurrence ID: %w", err)
		}
		ids[id] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating occurrence IDs: %w", err)
	}
	return ids, nil
}

// UpdateTransactionDate moves a master's anchor date forward after a
// materialization pass.
func (r *PgxTransactionRepository) UpdateTransactionDate(ctx context.Context, transactionID string, date time.Time, updatedBy string) error {
	query := `
		UPDATE transactions
		SET date = $1, last_updated_at = $2, last_updated_by = $3
		WHERE transaction_id = $4;
	`
	tag, err := r.Pool.Exec(ctx, query, date, time.Now(), updatedBy, transactionID)
	if err != nil {
		return fmt.Errorf("failed to update transaction date %s: %w", transactionID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxTransactionRepository) queryTransactions(ctx context.Context, query string) ([]domain.Transaction, error) {
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(transactionScanTargets(&m)...); err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, mapping.ToDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating transaction rows: %w", err)
	}
	return txns, nil
}

func transactionArgs(m models.Transaction) []any {
	return []any{
		m.TransactionID, m.Type, m.Amount, m.CurrencyCode, m.Date,
		m.Category, m.Description, m.Period, m.Kind, m.OriginID,
		m.CreatedAt, m.CreatedBy, m.LastUpdatedAt, m.LastUpdatedBy,
	}
}

func transactionScanTargets(m *models.Transaction) []any {
	return []any{
		&m.TransactionID, &m.Type, &m.Amount, &m.CurrencyCode, &m.Date,
		&m.Category, &m.Description, &m.Period, &m.Kind, &m.OriginID,
		&m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy,
	}
}

package pgsql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/flowlance/finplan_backend/internal/apperrors"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	"github.com/flowlance/finplan_backend/internal/models"
	"github.com/flowlance/finplan_backend/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxExchangeRateRepository implements the ports.ExchangeRateRepository
// interface using pgxpool.
type PgxExchangeRateRepository struct {
	BaseRepository
}

// newPgxExchangeRateRepository creates a new PgxExchangeRateRepository.
func newPgxExchangeRateRepository(pool *pgxpool.Pool) portsrepo.ExchangeRateRepository {
	return &PgxExchangeRateRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.ExchangeRateRepository = (*PgxExchangeRateRepository)(nil)

// LoadRates retrieves the full persisted rate table.
func (r *PgxExchangeRateRepository) LoadRates(ctx context.Context) (map[string]decimal.Decimal, error) {
	query := `
		SELECT currency_code, rate, created_at, created_by, last_updated_at, last_updated_by
		FROM exchange_rates;
	`
	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load exchange rates: %w", err)
	}
	defer rows.Close()

	var modelRates []models.ExchangeRate
	for rows.Next() {
		var m models.ExchangeRate
		if err := rows.Scan(&m.CurrencyCode, &m.Rate, &m.CreatedAt, &m.CreatedBy, &m.LastUpdatedAt, &m.LastUpdatedBy); err != nil {
			return nil, fmt.Errorf("failed to scan exchange rate row: %w", err)
		}
		modelRates = append(modelRates, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed iterating exchange rate rows: %w", err)
	}

	return mapping.ToDomainRates(modelRates), nil
}

// SaveRate upserts a single rate keyed by currency code.
func (r *PgxExchangeRateRepository) SaveRate(ctx context.Context, currencyCode string, rate decimal.Decimal, updatedBy string) error {
	code := strings.ToUpper(currencyCode)
	if !rate.IsPositive() {
		return apperrors.NewValidationError(fmt.Sprintf("rate for %s must be positive", code))
	}

	now := time.Now()
	query := `
		INSERT INTO exchange_rates (currency_code, rate, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (currency_code) DO UPDATE SET
			rate = EXCLUDED.rate,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query, code, rate, now, updatedBy, now, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to save exchange rate %s: %w", code, err)
	}
	return nil
}

// ReplaceRates swaps the whole persisted table in one transaction, so a
// failed refresh never leaves a half-written table.
func (r *PgxExchangeRateRepository) ReplaceRates(ctx context.Context, rates map[string]decimal.Decimal, updatedBy string) error {
	return r.execInTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM exchange_rates;`); err != nil {
			return fmt.Errorf("failed to clear exchange rates: %w", err)
		}

		now := time.Now()
		insert := `
			INSERT INTO exchange_rates (currency_code, rate, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		for code, rate := range rates {
			if _, err := tx.Exec(ctx, insert, strings.ToUpper(code), rate, now, updatedBy, now, updatedBy); err != nil {
				return fmt.Errorf("failed to insert exchange rate %s: %w", code, err)
			}
		}
		return nil
	})
}

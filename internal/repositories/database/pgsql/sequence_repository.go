package pgsql

import (
	"context"
	"fmt"
	"time"

	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxSequenceRepository implements the ports.SequenceRepository interface
// using pgxpool.
type PgxSequenceRepository struct {
	BaseRepository
}

// newPgxSequenceRepository creates a new PgxSequenceRepository.
func newPgxSequenceRepository(pool *pgxpool.Pool) portsrepo.SequenceRepository {
	return &PgxSequenceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure implementation matches interface
var _ portsrepo.SequenceRepository = (*PgxSequenceRepository)(nil)

// NextSequence increments and returns the (companyID, year) counter in a
// single upsert, so concurrent callers never observe the same value. Row
// locking inside the statement is what keeps the counters gapless without an
// explicit transaction.
func (r *PgxSequenceRepository) NextSequence(ctx context.Context, companyID string, year int) (int64, error) {
	query := `
		INSERT INTO invoice_sequences (company_profile_id, year, current_value, last_updated_at)
		VALUES ($1, $2, 1, $3)
		ON CONFLICT (company_profile_id, year) DO UPDATE SET
			current_value = invoice_sequences.current_value + 1,
			last_updated_at = EXCLUDED.last_updated_at
		RETURNING current_value;
	`
	var value int64
	err := r.Pool.QueryRow(ctx, query, companyID, year, time.Now()).Scan(&value)
	if err != nil {
		return 0, fmt.Errorf("failed to advance sequence for %s/%d: %w", companyID, year, err)
	}
	return value, nil
}

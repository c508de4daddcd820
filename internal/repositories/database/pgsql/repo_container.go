package pgsql

import (
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		ExchangeRateRepo: newPgxExchangeRateRepository(dbPool),
		TransactionRepo:  newPgxTransactionRepository(dbPool),
		InvoiceRepo:      newPgxInvoiceRepository(dbPool),
		SequenceRepo:     newPgxSequenceRepository(dbPool),
	}
}

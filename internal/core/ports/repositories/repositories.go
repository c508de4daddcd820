package repositories

// RepositoryProvider bundles every repository implementation handed to the
// service container. Concrete constructors live in the pgsql package.
type RepositoryProvider struct {
	ExchangeRateRepo ExchangeRateRepository
	TransactionRepo  TransactionRepository
	InvoiceRepo      InvoiceRepository
	SequenceRepo     SequenceRepository
}

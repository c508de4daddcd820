package services

import (
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly
// initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	// Conversion engine first; reporting and forecasting depend on it.
	container.Converter = NewCurrencyService(
		cfg.BaseCurrency,
		repos.ExchangeRateRepo,
		WithRefreshSource(cfg.RatesRefreshURL),
	)

	container.Sequence = NewSequenceService(repos.SequenceRepo)

	container.Invoice = NewInvoiceService(
		repos.InvoiceRepo,
		container.Sequence,
	)

	container.Recurring = NewRecurringService(repos.TransactionRepo)

	container.Transaction = NewTransactionService(
		repos.TransactionRepo,
		WithMaterializer(container.Recurring),
	)

	container.Reporting = NewReportingService(
		repos.InvoiceRepo,
		container.Converter,
	)

	container.Forecast = NewForecastService(
		repos.InvoiceRepo,
		repos.TransactionRepo,
		container.Converter,
	)

	return container
}

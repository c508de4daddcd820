package services

// ServiceContainer holds instances of all the application services. Handlers
// and the ops CLI reach every capability through this container.
type ServiceContainer struct {
	Converter   Converter
	Invoice     InvoiceSvcFacade
	Transaction TransactionSvcFacade
	Recurring   RecurringSvcFacade
	Reporting   ReportingSvcFacade
	Forecast    ForecastSvcFacade
	Sequence    SequenceSvcFacade
}

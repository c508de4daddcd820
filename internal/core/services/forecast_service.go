package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	portsrepo "github.com/flowlance/finplan_backend/internal/core/ports/repositories"
	portssvc "github.com/flowlance/finplan_backend/internal/core/ports/services"
	"github.com/flowlance/finplan_backend/internal/utils/finmath"
)

const monthLabelLayout = "2006-01"

// forecastService implements the forecasting engine: monthly revenue
// bucketing, regression-based projection and burn/runway analytics. Money is
// aggregated in decimal upstream and only crosses into float64 here, at the
// statistics boundary.
type forecastService struct {
	BaseService
	invoiceRepo portsrepo.InvoiceRepository
	txnRepo     portsrepo.TransactionRepository
	converter   portssvc.Converter
}

// ForecastServiceOption is a functional option for configuring the forecast
// service.
type ForecastServiceOption func(*forecastService)

// NewForecastService creates a new forecasting service.
func NewForecastService(invoiceRepo portsrepo.InvoiceRepository, txnRepo portsrepo.TransactionRepository, converter portssvc.Converter, options ...ForecastServiceOption) portssvc.ForecastSvcFacade {
	svc := &forecastService{
		invoiceRepo: invoiceRepo,
		txnRepo:     txnRepo,
		converter:   converter,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure forecastService implements the ForecastSvcFacade interface.
var _ portssvc.ForecastSvcFacade = (*forecastService)(nil)

// GenerateForecast buckets revenue invoices (paid, sent, overdue) by calendar
// month of their issue date, fits an OLS line over the non-zero months and
// extends the series monthCount months past now. Months with no invoices stay
// at zero rather than being interpolated; invoices with a zero issue date are
// skipped entirely.
func (s *forecastService) GenerateForecast(ctx context.Context, targetCurrency string, monthCount int, now time.Time) (*domain.Forecast, error) {
	if monthCount < 0 {
		monthCount = 0
	}
	target := strings.ToUpper(targetCurrency)

	invoices, err := s.invoiceRepo.ListInvoices(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list invoices for forecast")
		return nil, fmt.Errorf("failed to retrieve invoices: %w", err)
	}

	buckets := make(map[string]float64)
	earliest := time.Time{}
	for _, invoice := range invoices {
		switch invoice.Status {
		case domain.StatusPaid, domain.StatusSent, domain.StatusOverdue:
		default:
			continue
		}
		if invoice.IssueDate.IsZero() {
			s.LogWarn(ctx, "Skipping invoice with invalid issue date from forecast",
				slog.String("invoice_id", invoice.InvoiceID))
			continue
		}
		converted := s.converter.Convert(ctx, invoice.Total, invoice.CurrencyCode, target)
		label := invoice.IssueDate.Format(monthLabelLayout)
		buckets[label] += converted.InexactFloat64()
		if earliest.IsZero() || invoice.IssueDate.Before(earliest) {
			earliest = invoice.IssueDate
		}
	}

	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	startMonth := currentMonth
	if !earliest.IsZero() {
		startMonth = time.Date(earliest.Year(), earliest.Month(), 1, 0, 0, 0, 0, time.UTC)
	}

	// historical window: startMonth..currentMonth inclusive
	var labels []string
	var actuals []float64
	for month := startMonth; !month.After(currentMonth); month = month.AddDate(0, 1, 0) {
		label := month.Format(monthLabelLayout)
		labels = append(labels, label)
		actuals = append(actuals, buckets[label])
	}

	var xs, ys []float64
	for i, value := range actuals {
		if value != 0 {
			xs = append(xs, float64(i))
			ys = append(ys, value)
		}
	}
	reg := finmath.LinearRegression(xs, ys)

	points := make([]domain.ForecastPoint, 0, len(labels)+monthCount)
	for i, label := range labels {
		actual := actuals[i]
		predicted := reg.Predict(float64(i))
		points = append(points, domain.ForecastPoint{
			PeriodLabel: label,
			Actual:      &actual,
			Predicted:   &predicted,
		})
	}
	for i := 1; i <= monthCount; i++ {
		month := currentMonth.AddDate(0, i, 0)
		predicted := reg.Predict(float64(len(labels) - 1 + i))
		points = append(points, domain.ForecastPoint{
			PeriodLabel: month.Format(monthLabelLayout),
			Predicted:   &predicted,
		})
	}

	return &domain.Forecast{
		CurrencyCode: target,
		Points:       points,
		Slope:        reg.Slope,
		Intercept:    reg.Intercept,
	}, nil
}

// CashMetrics averages the expense outflow of the trailing months window into
// a monthly burn rate and derives the runway the balance sustains at it.
// Recurring masters are templates, not cash movements, so only history
// occurrences and one-time transactions count.
func (s *forecastService) CashMetrics(ctx context.Context, targetCurrency string, balance float64, months int, now time.Time) (*domain.CashMetrics, error) {
	if months <= 0 {
		return nil, fmt.Errorf("months window must be positive, got %d", months)
	}
	target := strings.ToUpper(targetCurrency)

	txns, err := s.txnRepo.ListTransactions(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list transactions for cash metrics")
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	windowStart := now.AddDate(0, -months, 0)
	var totalOutflow float64
	for _, txn := range txns {
		if txn.Type != domain.Expense {
			continue
		}
		if txn.Kind == domain.MasterTransaction && txn.Period.IsRecurring() {
			continue
		}
		if txn.Date.IsZero() || txn.Date.Before(windowStart) || txn.Date.After(now) {
			continue
		}
		totalOutflow += s.converter.Convert(ctx, txn.Amount, txn.CurrencyCode, target).InexactFloat64()
	}

	burn := finmath.BurnRate(totalOutflow, months)
	return &domain.CashMetrics{
		CurrencyCode:    target,
		MonthlyBurnRate: burn,
		Balance:         balance,
		RunwayMonths:    finmath.Runway(balance, burn),
	}, nil
}

package services

import (
	"context"
	"time"

	"github.com/flowlance/finplan_backend/internal/core/domain"
)

// ForecastSvcFacade produces the projected revenue series and the derived
// cash analytics.
type ForecastSvcFacade interface {
	// GenerateForecast buckets historical invoice totals by calendar month,
	// fits a regression over the non-zero months and extrapolates monthCount
	// months past now. Months without data stay at zero, never interpolated.
	GenerateForecast(ctx context.Context, targetCurrency string, monthCount int, now time.Time) (*domain.Forecast, error)

	// CashMetrics computes the average monthly expense outflow over the
	// trailing months window and the runway the balance sustains at that
	// burn.
	CashMetrics(ctx context.Context, targetCurrency string, balance float64, months int, now time.Time) (*domain.CashMetrics, error)
}

package dto

import (
	"math"

	"github.com/flowlance/finplan_backend/internal/core/domain"
)

// ForecastResponse is the {labels, actual, predicted} bundle the UI charts
// from. Entries in Actual are null for future months; Predicted is null for
// months before the regression window.
type ForecastResponse struct {
	CurrencyCode string     `json:"currencyCode"`
	Labels       []string   `json:"labels"`
	Actual       []*float64 `json:"actual"`
	Predicted    []*float64 `json:"predicted"`
	Slope        float64    `json:"slope"`
	Intercept    float64    `json:"intercept"`
}

// CashMetricsResponse carries burn rate and runway. RunwayMonths is null when
// the burn rate is zero (infinite runway), since JSON has no +Inf.
type CashMetricsResponse struct {
	CurrencyCode    string   `json:"currencyCode"`
	MonthlyBurnRate float64  `json:"monthlyBurnRate"`
	Balance         float64  `json:"balance"`
	RunwayMonths    *float64 `json:"runwayMonths"`
}

// NPVRequest carries a discount rate and a cash flow series. Every flow is
// discounted, starting from period 1: CashFlows[0] lands one period out.
type NPVRequest struct {
	Rate      float64   `json:"rate"`
	CashFlows []float64 `json:"cashFlows" binding:"required,min=1"`
}

// IRRRequest carries the cash flow series to solve for the internal rate of
// return. Guess seeds the iteration; zero (unset) falls back to 0.1.
type IRRRequest struct {
	CashFlows []float64 `json:"cashFlows" binding:"required,min=2"`
	Guess     float64   `json:"guess"`
}

// FutureValueRequest projects a present value at a periodic rate.
type FutureValueRequest struct {
	PresentValue float64 `json:"presentValue"`
	Rate         float64 `json:"rate"`
	Periods      int     `json:"periods" binding:"min=0"`
}

// ToForecastResponse converts a domain.Forecast to its API shape.
func ToForecastResponse(forecast *domain.Forecast) ForecastResponse {
	resp := ForecastResponse{
		CurrencyCode: forecast.CurrencyCode,
		Labels:       make([]string, len(forecast.Points)),
		Actual:       make([]*float64, len(forecast.Points)),
		Predicted:    make([]*float64, len(forecast.Points)),
		Slope:        forecast.Slope,
		Intercept:    forecast.Intercept,
	}
	for i, point := range forecast.Points {
		resp.Labels[i] = point.PeriodLabel
		resp.Actual[i] = point.Actual
		resp.Predicted[i] = point.Predicted
	}
	return resp
}

// ToCashMetricsResponse converts domain.CashMetrics to its API shape.
func ToCashMetricsResponse(metrics *domain.CashMetrics) CashMetricsResponse {
	resp := CashMetricsResponse{
		CurrencyCode:    metrics.CurrencyCode,
		MonthlyBurnRate: metrics.MonthlyBurnRate,
		Balance:         metrics.Balance,
	}
	if !math.IsInf(metrics.RunwayMonths, 1) {
		runway := metrics.RunwayMonths
		resp.RunwayMonths = &runway
	}
	return resp
}

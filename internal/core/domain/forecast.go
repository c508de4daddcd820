package domain

// ForecastPoint is one month of the revenue forecast. Actual is the observed
// bucketed total, Predicted the regression output; future months carry only
// Predicted. Both may be populated for back-testing.
type ForecastPoint struct {
	PeriodLabel string   `json:"periodLabel"` // YYYY-MM
	Actual      *float64 `json:"actual"`
	Predicted   *float64 `json:"predicted"`
}

// Forecast is a labeled projection of monthly revenue in one reporting
// currency.
type Forecast struct {
	CurrencyCode string          `json:"currencyCode"`
	Points       []ForecastPoint `json:"points"`
	Slope        float64         `json:"slope"`
	Intercept    float64         `json:"intercept"`
}

// CashMetrics bundles the derived burn/runway figures. RunwayMonths is +Inf
// when the burn rate is zero; the JSON layer renders that as null.
type CashMetrics struct {
	CurrencyCode    string  `json:"currencyCode"`
	MonthlyBurnRate float64 `json:"monthlyBurnRate"`
	Balance         float64 `json:"balance"`
	RunwayMonths    float64 `json:"runwayMonths"`
}

package invoicing

import (
	"testing"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func item(quantity, rate int64) domain.LineItem {
	return domain.LineItem{
		Quantity: decimal.NewFromInt(quantity),
		Rate:     decimal.NewFromInt(rate),
	}
}

func TestCalculateTotals_TwoDecimalCurrency(t *testing.T) {
	totals := CalculateTotals([]domain.LineItem{item(2, 100)}, decimal.NewFromInt(20), "USD", decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(200)), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(40)), "tax: %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(240)), "total: %s", totals.Total)
	assert.Equal(t, int32(2), totals.FractionDigits)
}

func TestCalculateTotals_ZeroDecimalCurrency(t *testing.T) {
	totals := CalculateTotals([]domain.LineItem{item(3, 1000)}, decimal.NewFromInt(27), "HUF", decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(3000)), "subtotal: %s", totals.Subtotal)
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(810)), "tax: %s", totals.TaxAmount)
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(3810)), "total: %s", totals.Total)
	assert.Equal(t, int32(0), totals.FractionDigits)
}

func TestCalculateTotals_DiscountReducesTaxableAmount(t *testing.T) {
	totals := CalculateTotals([]domain.LineItem{item(1, 100)}, decimal.NewFromInt(10), "USD", decimal.NewFromInt(20))

	// taxable = 80, tax = 8, total = 88; subtotal stays at the undiscounted sum
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(100)))
	assert.True(t, totals.TaxAmount.Equal(decimal.NewFromInt(8)))
	assert.True(t, totals.Total.Equal(decimal.NewFromInt(88)))
}

func TestCalculateTotals_DiscountLargerThanSubtotal(t *testing.T) {
	totals := CalculateTotals([]domain.LineItem{item(1, 50)}, decimal.NewFromInt(25), "USD", decimal.NewFromInt(100))

	// taxable clamps to zero, never negative
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
	assert.True(t, totals.Subtotal.Equal(decimal.NewFromInt(50)))
}

func TestCalculateTotals_EmptyItems(t *testing.T) {
	totals := CalculateTotals(nil, decimal.NewFromInt(27), "EUR", decimal.Zero)

	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.TaxAmount.IsZero())
	assert.True(t, totals.Total.IsZero())
}

func TestCalculateTotals_IndependentRounding(t *testing.T) {
	// quantity 1 × rate 0.105 at 50% tax in HUF: subtotal rounds to 0,
	// tax rounds to 0, total (0.105 + 0.0525 = 0.1575) also rounds to 0.
	// With values that straddle the rounding boundary the three fields can
	// disagree by one minor unit; the calculator must keep them independent.
	items := []domain.LineItem{{
		Quantity: decimal.NewFromInt(1),
		Rate:     decimal.RequireFromString("10.105"),
	}}
	totals := CalculateTotals(items, decimal.NewFromInt(5), "USD", decimal.Zero)

	assert.True(t, totals.Subtotal.Equal(decimal.RequireFromString("10.11")), "subtotal: %s", totals.Subtotal)
	// tax = 10.105 * 0.05 = 0.50525 -> 0.51 (round half up on the raw value)
	assert.True(t, totals.TaxAmount.Equal(decimal.RequireFromString("0.51")), "tax: %s", totals.TaxAmount)
	// total = 10.105 + 0.50525 = 10.61025 -> 10.61, one cent below Subtotal+TaxAmount
	assert.True(t, totals.Total.Equal(decimal.RequireFromString("10.61")), "total: %s", totals.Total)
	assert.False(t, totals.Subtotal.Add(totals.TaxAmount).Equal(totals.Total))
}

func TestFractionDigits(t *testing.T) {
	assert.Equal(t, int32(2), FractionDigits("USD"))
	assert.Equal(t, int32(2), FractionDigits("EUR"))
	assert.Equal(t, int32(0), FractionDigits("HUF"))
	assert.Equal(t, int32(0), FractionDigits("JPY"))
	assert.Equal(t, int32(2), FractionDigits("XTS"), "unknown codes default to two decimals")
	assert.Equal(t, int32(0), FractionDigits("huf"), "lookup is case-insensitive")
	assert.Equal(t, int32(0), FractionDigits("Jpy"))
}

func TestLineAmount(t *testing.T) {
	amount := LineAmount(domain.LineItem{
		Quantity: decimal.RequireFromString("2.5"),
		Rate:     decimal.NewFromInt(40),
	})
	assert.True(t, amount.Equal(decimal.NewFromInt(100)))
}

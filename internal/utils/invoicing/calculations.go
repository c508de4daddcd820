// Package invoicing holds the pure line-item arithmetic shared by the invoice
// service and its handlers. Everything here is a function of its inputs so it
// can be tested without repositories or rate tables.
package invoicing

import (
	"strings"

	"github.com/flowlance/finplan_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// zeroDecimalCurrencies are ISO 4217 currencies with no minor unit; totals in
// these round to whole units instead of two decimals.
var zeroDecimalCurrencies = map[string]struct{}{
	"HUF": {},
	"JPY": {},
	"KRW": {},
	"VND": {},
	"CLP": {},
	"ISK": {},
	"TWD": {},
}

// FractionDigits returns the rounding precision for a currency code,
// whatever its case.
func FractionDigits(currencyCode string) int32 {
	if _, ok := zeroDecimalCurrencies[strings.ToUpper(currencyCode)]; ok {
		return 0
	}
	return 2
}

// LineAmount recomputes a line's amount as quantity × rate.
func LineAmount(item domain.LineItem) decimal.Decimal {
	return item.Quantity.Mul(item.Rate)
}

// CalculateTotals computes subtotal, tax and total for the given line items.
//
//	subtotal      = Σ quantity × rate
//	taxableAmount = max(0, subtotal − discount)
//	taxAmount     = taxableAmount × taxRate/100
//	total         = taxableAmount + taxAmount
//
// Each of the three results is rounded independently to the currency's
// fraction digits. Subtotal + TaxAmount can therefore differ from Total by
// one minor unit; callers must not re-derive one field from the others.
func CalculateTotals(items []domain.LineItem, taxRate decimal.Decimal, currencyCode string, discount decimal.Decimal) domain.InvoiceTotals {
	digits := FractionDigits(currencyCode)

	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineAmount(item))
	}

	taxable := subtotal.Sub(discount)
	if taxable.IsNegative() {
		taxable = decimal.Zero
	}

	taxAmount := taxable.Mul(taxRate).Div(decimal.NewFromInt(100))
	total := taxable.Add(taxAmount)

	return domain.InvoiceTotals{
		Subtotal:       subtotal.Round(digits),
		TaxAmount:      taxAmount.Round(digits),
		Total:          total.Round(digits),
		FractionDigits: digits,
	}
}

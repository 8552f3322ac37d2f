// Package billing holds the pure invoice arithmetic and the status
// state machine. Nothing in here touches storage or the network.
package billing

import (
	"github.com/shopspring/decimal"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

// moneyPlaces is the fixed-point precision of all monetary strings
const moneyPlaces = 2

// Totals is the computed monetary summary of an invoice
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// SubtotalString returns the subtotal as a fixed-point string
func (t Totals) SubtotalString() string { return t.Subtotal.StringFixed(moneyPlaces) }

// TaxAmountString returns the tax amount as a fixed-point string
func (t Totals) TaxAmountString() string { return t.TaxAmount.StringFixed(moneyPlaces) }

// TotalString returns the total as a fixed-point string
func (t Totals) TotalString() string { return t.Total.StringFixed(moneyPlaces) }

// ItemAmount computes quantity*rate rounded to two places
func ItemAmount(quantity, rate float64) decimal.Decimal {
	q := decimal.NewFromFloat(quantity)
	r := decimal.NewFromFloat(rate)
	return q.Mul(r).Round(moneyPlaces)
}

// CalculateTotals recomputes every item amount from quantity and rate and
// sums them into invoice totals. Tax is fixed at zero: there is no tax
// engine, only the schema slot for one. The function is pure; the input
// slice is not modified.
func CalculateTotals(items []models.InvoiceItem) ([]models.InvoiceItem, Totals, error) {
	if len(items) == 0 {
		return nil, Totals{}, errs.Validation("invoice must have at least one line item")
	}

	out := make([]models.InvoiceItem, len(items))
	subtotal := decimal.Zero

	for i, item := range items {
		if item.Quantity < 0 {
			return nil, Totals{}, errs.Validation("line item quantity must not be negative")
		}
		if item.Rate < 0 {
			return nil, Totals{}, errs.Validation("line item rate must not be negative")
		}

		amount := ItemAmount(item.Quantity, item.Rate)

		out[i] = item
		out[i].Amount = amount.StringFixed(moneyPlaces)
		subtotal = subtotal.Add(amount)
	}

	tax := decimal.Zero
	totals := Totals{
		Subtotal:  subtotal,
		TaxAmount: tax,
		Total:     subtotal.Add(tax),
	}

	return out, totals, nil
}

// MinorUnits converts a fixed-point amount string to integral minor units
// (e.g. "125.00" -> 12500) for the payment gateway.
func MinorUnits(amount string) (int64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, errs.Validation("invalid monetary amount %q", amount)
	}
	return d.Shift(2).Round(0).IntPart(), nil
}

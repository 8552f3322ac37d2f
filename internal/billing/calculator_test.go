package billing

import (
	"errors"
	"testing"

	"invoicely-backend/internal/errs"
	"invoicely-backend/internal/models"
)

func TestCalculateTotals(t *testing.T) {
	items := []models.InvoiceItem{
		{Description: "Design work", Quantity: 2, Rate: 50},
		{Description: "Hosting", Quantity: 1, Rate: 25},
	}

	out, totals, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out[0].Amount != "100.00" {
		t.Errorf("item 0 amount: expected 100.00, got %s", out[0].Amount)
	}
	if out[1].Amount != "25.00" {
		t.Errorf("item 1 amount: expected 25.00, got %s", out[1].Amount)
	}
	if totals.SubtotalString() != "125.00" {
		t.Errorf("subtotal: expected 125.00, got %s", totals.SubtotalString())
	}
	if totals.TaxAmountString() != "0.00" {
		t.Errorf("tax: expected 0.00, got %s", totals.TaxAmountString())
	}
	if totals.TotalString() != "125.00" {
		t.Errorf("total: expected 125.00, got %s", totals.TotalString())
	}
}

func TestCalculateTotalsIgnoresCallerAmounts(t *testing.T) {
	// A tampered amount must be recomputed, not trusted
	items := []models.InvoiceItem{
		{Description: "Consulting", Quantity: 1, Rate: 100, Amount: "1.00"},
	}

	out, totals, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Amount != "100.00" {
		t.Errorf("expected recomputed amount 100.00, got %s", out[0].Amount)
	}
	if totals.TotalString() != "100.00" {
		t.Errorf("expected total 100.00, got %s", totals.TotalString())
	}
}

func TestCalculateTotalsIdempotent(t *testing.T) {
	items := []models.InvoiceItem{
		{Description: "A", Quantity: 3, Rate: 19.99},
		{Description: "B", Quantity: 0.5, Rate: 80},
	}

	once, totals1, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	twice, totals2, err := CalculateTotals(once)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if totals1.TotalString() != totals2.TotalString() {
		t.Errorf("totals drifted: %s vs %s", totals1.TotalString(), totals2.TotalString())
	}
	for i := range once {
		if once[i].Amount != twice[i].Amount {
			t.Errorf("item %d amount drifted: %s vs %s", i, once[i].Amount, twice[i].Amount)
		}
	}
}

func TestCalculateTotalsRounding(t *testing.T) {
	// 3 * 33.335 = 100.005 -> 100.01 (half away from zero)
	items := []models.InvoiceItem{
		{Description: "Odd rate", Quantity: 3, Rate: 33.335},
	}

	out, totals, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Amount != "100.01" {
		t.Errorf("expected 100.01, got %s", out[0].Amount)
	}
	if totals.TotalString() != "100.01" {
		t.Errorf("expected total 100.01, got %s", totals.TotalString())
	}
}

func TestCalculateTotalsNoFloatDrift(t *testing.T) {
	// 0.1 + 0.2 style inputs must not produce 0.30000000000000004
	items := []models.InvoiceItem{
		{Description: "A", Quantity: 1, Rate: 0.1},
		{Description: "B", Quantity: 1, Rate: 0.2},
	}

	_, totals, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if totals.SubtotalString() != "0.30" {
		t.Errorf("expected 0.30, got %s", totals.SubtotalString())
	}
}

func TestCalculateTotalsValidation(t *testing.T) {
	cases := []struct {
		name  string
		items []models.InvoiceItem
	}{
		{"empty", nil},
		{"negative quantity", []models.InvoiceItem{{Description: "X", Quantity: -1, Rate: 10}}},
		{"negative rate", []models.InvoiceItem{{Description: "X", Quantity: 1, Rate: -10}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := CalculateTotals(tc.items)
			var verr *errs.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestCalculateTotalsZeroQuantity(t *testing.T) {
	// Zero is allowed; only negatives are rejected
	items := []models.InvoiceItem{
		{Description: "Placeholder", Quantity: 0, Rate: 100},
	}
	out, totals, err := CalculateTotals(items)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out[0].Amount != "0.00" || totals.TotalString() != "0.00" {
		t.Errorf("expected zero amounts, got %s / %s", out[0].Amount, totals.TotalString())
	}
}

func TestMinorUnits(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"125.00", 12500},
		{"0.01", 1},
		{"99.99", 9999},
		{"1000.50", 100050},
	}

	for _, tc := range cases {
		got, err := MinorUnits(tc.in)
		if err != nil {
			t.Fatalf("MinorUnits(%q): unexpected error %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("MinorUnits(%q): expected %d, got %d", tc.in, tc.want, got)
		}
	}

	if _, err := MinorUnits("not-a-number"); err == nil {
		t.Error("expected error for malformed amount")
	}
}

package services

import (
	"testing"

	"deal-hunter/models"
)

func TestExtractFinancials(t *testing.T) {
	deal := &models.Deal{}
	text := "Asking Price: $2,200,000. Gross Revenue: $4.5M. EBITDA: $620,000. " +
		"Cash Flow: $580,000. Established 1987. Employees: 24."

	ExtractFinancials(deal, text)

	assertFloat(t, "AskingPrice", deal.AskingPrice, 2200000)
	assertFloat(t, "Revenue", deal.Revenue, 4500000)
	assertFloat(t, "EBITDA", deal.EBITDA, 620000)
	assertFloat(t, "CashFlowSDE", deal.CashFlowSDE, 580000)
	assertInt(t, "YearEstablished", deal.YearEstablished, 1987)
	assertInt(t, "Employees", deal.Employees, 24)
}

func TestExtractAskingPriceLabeledWins(t *testing.T) {
	deal := &models.Deal{}
	// The labeled amount must win over the earlier, larger unlabeled one.
	ExtractFinancials(deal, "Revenue of $9,000,000 last year. Asking $2,500,000.")

	assertFloat(t, "AskingPrice", deal.AskingPrice, 2500000)
}

func TestExtractAskingPriceFallback(t *testing.T) {
	deal := &models.Deal{}
	// No label anywhere; the first dollar amount with at least six digits
	// qualifies, smaller amounts do not.
	ExtractFinancials(deal, "Turnkey operation. $85,000 in equipment included. Valued at $1,750,000 by the owner.")

	assertFloat(t, "AskingPrice", deal.AskingPrice, 1750000)
}

func TestExtractAskingPriceFallbackTooSmall(t *testing.T) {
	deal := &models.Deal{}
	ExtractFinancials(deal, "Equipment worth $85,000 conveys with the sale.")

	if deal.AskingPrice != nil {
		t.Errorf("AskingPrice = %.0f; want nil for sub-six-digit amounts", *deal.AskingPrice)
	}
}

func TestExtractCashFlowAnchors(t *testing.T) {
	tests := []struct {
		text string
		want float64
	}{
		{"Cash Flow: $450,000", 450000},
		{"SDE of $390,000", 390000},
		{"Seller's discretionary earnings: $510,000", 510000},
		{"Sellers discretionary earnings $275,000", 275000},
	}

	for _, tt := range tests {
		deal := &models.Deal{}
		ExtractFinancials(deal, tt.text)
		assertFloat(t, "CashFlowSDE("+tt.text+")", deal.CashFlowSDE, tt.want)
	}
}

func TestExtractYearBounds(t *testing.T) {
	deal := &models.Deal{}
	ExtractFinancials(deal, "Established in 2003 by the current owner.")
	assertInt(t, "YearEstablished", deal.YearEstablished, 2003)

	deal = &models.Deal{}
	ExtractFinancials(deal, "Established 1750 copies sold.")
	if deal.YearEstablished != nil {
		t.Errorf("YearEstablished = %d; want nil for a non-19xx/20xx year", *deal.YearEstablished)
	}
}

func TestExtractNeverOverwrites(t *testing.T) {
	existing := 3000000.0
	deal := &models.Deal{AskingPrice: &existing}

	ExtractFinancials(deal, "Asking Price: $1,500,000")

	assertFloat(t, "AskingPrice", deal.AskingPrice, 3000000)
}

func TestExtractEmptyText(t *testing.T) {
	deal := &models.Deal{}
	ExtractFinancials(deal, "   ")

	if deal.AskingPrice != nil || deal.Revenue != nil || deal.EBITDA != nil {
		t.Errorf("expected all fields nil on blank text, got %+v", deal)
	}
}

func assertFloat(t *testing.T, name string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil; want %.2f", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %.2f; want %.2f", name, *got, want)
	}
}

func assertInt(t *testing.T, name string, got *int, want int) {
	t.Helper()
	if got == nil {
		t.Errorf("%s = nil; want %d", name, want)
		return
	}
	if *got != want {
		t.Errorf("%s = %d; want %d", name, *got, want)
	}
}

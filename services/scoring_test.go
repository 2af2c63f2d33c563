package services

import (
	"testing"

	"deal-hunter/config"
	"deal-hunter/models"
)

func fptr(v float64) *float64 { return &v }

func TestComputeMultiple(t *testing.T) {
	tests := []struct {
		name     string
		asking   *float64
		ebitda   *float64
		cashFlow *float64
		want     *float64
	}{
		{"ebitda preferred", fptr(2200000), fptr(620000), fptr(100000), fptr(3.55)},
		{"falls back to SDE", fptr(1800000), nil, fptr(600000), fptr(3)},
		{"no asking price", nil, fptr(620000), nil, nil},
		{"no earnings", fptr(2200000), nil, nil, nil},
		{"zero earnings", fptr(2200000), fptr(0), nil, nil},
		{"negative earnings", fptr(2200000), fptr(-50000), nil, nil},
	}

	for _, tt := range tests {
		deal := &models.Deal{AskingPrice: tt.asking, EBITDA: tt.ebitda, CashFlowSDE: tt.cashFlow}
		got := ComputeMultiple(deal)

		switch {
		case tt.want == nil && got != nil:
			t.Errorf("%s: multiple = %.2f; want nil", tt.name, *got)
		case tt.want != nil && got == nil:
			t.Errorf("%s: multiple = nil; want %.2f", tt.name, *tt.want)
		case tt.want != nil && *got != *tt.want:
			t.Errorf("%s: multiple = %.2f; want %.2f", tt.name, *got, *tt.want)
		}
	}
}

func TestScoreDealBands(t *testing.T) {
	criteria := config.DefaultCriteria()

	// No traits, non-target industry: only the multiple component and the
	// industry floor (20 × 0.2 = 4) contribute.
	tests := []struct {
		multiple *float64
		want     int
	}{
		{fptr(2.5), 34}, // 100×0.3 + 4
		{fptr(3.0), 31}, // 90×0.3 + 4
		{fptr(3.5), 27}, // 75×0.3 + 4 = 26.5 → 27
		{fptr(4.0), 19}, // 50×0.3 + 4
		{fptr(4.5), 4},  // band 0
		{nil, 4},        // absent multiple scores 0, not a middle band
	}

	for _, tt := range tests {
		deal := &models.Deal{Industry: OtherIndustry, Multiple: tt.multiple}
		if got := ScoreDeal(criteria, deal); got != tt.want {
			t.Errorf("ScoreDeal(multiple=%v) = %d; want %d", tt.multiple, got, tt.want)
		}
	}
}

func TestScoreDealTraitClamp(t *testing.T) {
	criteria := config.DefaultCriteria()

	// Heavy avoid-trait penalties floor the trait component at 0 rather than
	// dragging the total negative.
	deal := &models.Deal{
		Industry:    OtherIndustry,
		AvoidTraits: []string{"commodity_exposure", "cyclical_demand", "construction_tied"},
	}
	if got := ScoreDeal(criteria, deal); got != 4 {
		t.Errorf("ScoreDeal(all avoid traits) = %d; want 4", got)
	}
}

func TestScoreDealBounds(t *testing.T) {
	criteria := config.DefaultCriteria()

	deal := &models.Deal{
		Industry: "Commercial Laundry",
		Traits:   criteria.PreferredTraits,
		Multiple: fptr(2.0),
	}
	got := ScoreDeal(criteria, deal)
	if got < 0 || got > 100 {
		t.Fatalf("ScoreDeal = %d; want within [0,100]", got)
	}
	if got != 100 {
		t.Errorf("ScoreDeal(perfect deal) = %d; want 100", got)
	}
}

func TestScoreDealMonotonicity(t *testing.T) {
	criteria := config.DefaultCriteria()

	base := &models.Deal{
		Industry: "Commercial Laundry",
		Traits:   []string{"recurring_revenue"},
		Multiple: fptr(3.0),
	}
	baseScore := ScoreDeal(criteria, base)

	more := &models.Deal{
		Industry: base.Industry,
		Traits:   append([]string{"regulatory_moat"}, base.Traits...),
		Multiple: base.Multiple,
	}
	if got := ScoreDeal(criteria, more); got < baseScore {
		t.Errorf("adding a preferred trait decreased score: %d -> %d", baseScore, got)
	}

	worse := &models.Deal{
		Industry:    base.Industry,
		Traits:      base.Traits,
		AvoidTraits: []string{"cyclical_demand"},
		Multiple:    base.Multiple,
	}
	if got := ScoreDeal(criteria, worse); got > baseScore {
		t.Errorf("adding an avoid trait increased score: %d -> %d", baseScore, got)
	}
}

func TestPassesFilters(t *testing.T) {
	criteria := config.DefaultCriteria()

	tests := []struct {
		name string
		deal *models.Deal
		want bool
	}{
		{"all absent passes", &models.Deal{}, true},
		{"in range", &models.Deal{AskingPrice: fptr(2000000), EBITDA: fptr(500000), Multiple: fptr(4.0)}, true},
		{"asking at lower bound", &models.Deal{AskingPrice: fptr(1000000)}, true},
		{"asking at upper bound", &models.Deal{AskingPrice: fptr(5000000)}, true},
		{"asking just over upper bound", &models.Deal{AskingPrice: fptr(5000000.01)}, false},
		{"asking below lower bound", &models.Deal{AskingPrice: fptr(999999)}, false},
		{"earnings below minimum", &models.Deal{EBITDA: fptr(250000)}, false},
		{"SDE stands in for EBITDA", &models.Deal{CashFlowSDE: fptr(250000)}, false},
		{"multiple at maximum", &models.Deal{Multiple: fptr(4.0)}, true},
		{"multiple over maximum", &models.Deal{Multiple: fptr(4.01)}, false},
	}

	for _, tt := range tests {
		if got := PassesFilters(criteria, tt.deal); got != tt.want {
			t.Errorf("%s: PassesFilters = %v; want %v", tt.name, got, tt.want)
		}
	}
}

package services

import (
	"strings"
	"testing"

	"deal-hunter/models"
)

func TestDigestReport(t *testing.T) {
	s := NewDigestService(newTestLogger())

	deals := []*models.Deal{
		{Title: "A", Industry: "Commercial Laundry", Score: 62, Multiple: fptr(3.0)},
		{Title: "B", Industry: "Fire Protection", Score: 81, Multiple: fptr(2.5)},
		{Title: "C", Industry: "Commercial Laundry", Score: 47},
	}

	r := s.Report(deals)

	if r.TotalDeals != 3 || r.PassedFilter != 3 {
		t.Errorf("totals = %d/%d; want 3/3", r.TotalDeals, r.PassedFilter)
	}
	if r.TopScore != 81 {
		t.Errorf("TopScore = %d; want 81", r.TopScore)
	}
	if len(r.TopDeals) != 3 || r.TopDeals[0].Title != "B" {
		t.Errorf("TopDeals not ranked by score: %+v", r.TopDeals)
	}
	if r.AverageMultiple != 2.75 {
		t.Errorf("AverageMultiple = %.2f; want 2.75 (nil multiples excluded)", r.AverageMultiple)
	}
	if r.DealsByIndustry["Commercial Laundry"] != 2 {
		t.Errorf("DealsByIndustry = %v", r.DealsByIndustry)
	}

	// Input order is preserved.
	if deals[0].Title != "A" || deals[2].Title != "C" {
		t.Errorf("input slice reordered: %v", deals)
	}
}

func TestDigestReportEmpty(t *testing.T) {
	s := NewDigestService(newTestLogger())

	r := s.Report(nil)
	if r.TotalDeals != 0 || r.TopScore != 0 || len(r.TopDeals) != 0 {
		t.Errorf("empty report not zeroed: %+v", r)
	}
}

func TestDigestReportCapsTopDeals(t *testing.T) {
	s := NewDigestService(newTestLogger())

	deals := make([]*models.Deal, 40)
	for i := range deals {
		deals[i] = &models.Deal{Title: "deal", Score: i}
	}

	r := s.Report(deals)
	if len(r.TopDeals) != maxDigestDeals {
		t.Errorf("TopDeals = %d entries; want %d", len(r.TopDeals), maxDigestDeals)
	}
	if r.TopDeals[0].Score != 39 {
		t.Errorf("TopDeals[0].Score = %d; want 39", r.TopDeals[0].Score)
	}
}

func TestDigestRenderHTML(t *testing.T) {
	s := NewDigestService(newTestLogger())

	deals := []*models.Deal{
		{
			Title:       "ABC Commercial Laundry Services",
			URL:         "https://www.bizbuysell.com/business-opportunity/abc/2276601/",
			Industry:    "Commercial Laundry",
			Location:    "Tampa, FL",
			Score:       49,
			AskingPrice: fptr(2200000),
			EBITDA:      fptr(620000),
			Multiple:    fptr(3.55),
		},
	}

	html, err := s.RenderHTML(s.Report(deals), "January 5, 2026")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}

	for _, want := range []string{
		"ABC Commercial Laundry Services",
		"$2.2M",
		"$620K",
		"3.5x",
		"JANUARY 5, 2026",
		"https://www.bizbuysell.com/business-opportunity/abc/2276601/",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("digest HTML missing %q", want)
		}
	}
}

func TestScoreHexColor(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{95, "#059669"},
		{80, "#059669"},
		{60, "#2563eb"},
		{40, "#d97706"},
		{10, "#6b7280"},
	}

	for _, tt := range tests {
		if got := ScoreHexColor(tt.score); got != tt.want {
			t.Errorf("ScoreHexColor(%d) = %q; want %q", tt.score, got, tt.want)
		}
	}
}

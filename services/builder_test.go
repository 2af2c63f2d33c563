package services

import (
	"errors"
	"strings"
	"testing"

	"deal-hunter/models"
)

const laundryCardHTML = `
<article class="listing">
  <h3><a href="/business-opportunity/abc-commercial-laundry/2276601/">ABC Commercial Laundry Services</a></h3>
  <div class="listing-location">Tampa, FL</div>
  <p class="listing-description">Commercial laundry with long-term hospital contracts.</p>
  <div class="financials">Asking Price: $2,200,000 &middot; EBITDA: $620,000</div>
</article>`

func TestBuildDealFromCardMarkup(t *testing.T) {
	frag := &models.RawFragment{HTML: laundryCardHTML}

	deal, err := BuildDeal(frag)
	if err != nil {
		t.Fatalf("BuildDeal: %v", err)
	}

	if deal.Title != "ABC Commercial Laundry Services" {
		t.Errorf("Title = %q", deal.Title)
	}
	if want := "https://www.bizbuysell.com/business-opportunity/abc-commercial-laundry/2276601/"; deal.URL != want {
		t.Errorf("URL = %q; want %q", deal.URL, want)
	}
	if deal.ListingID != "2276601" {
		t.Errorf("ListingID = %q; want %q", deal.ListingID, "2276601")
	}
	if deal.Location != "Tampa, FL" {
		t.Errorf("Location = %q", deal.Location)
	}
	if !strings.Contains(deal.Description, "hospital contracts") {
		t.Errorf("Description = %q", deal.Description)
	}
	assertFloat(t, "AskingPrice", deal.AskingPrice, 2200000)
	assertFloat(t, "EBITDA", deal.EBITDA, 620000)
	if deal.DateFound == "" {
		t.Errorf("DateFound not set")
	}
}

func TestBuildDealTextFallback(t *testing.T) {
	frag := &models.RawFragment{
		Text: "Gulf Coast Fire Sprinkler Inspections\nAsking $1,800,000. Cash Flow: $520,000.",
	}

	deal, err := BuildDeal(frag)
	if err != nil {
		t.Fatalf("BuildDeal: %v", err)
	}
	if deal.Title != "Gulf Coast Fire Sprinkler Inspections" {
		t.Errorf("Title = %q", deal.Title)
	}
	assertFloat(t, "AskingPrice", deal.AskingPrice, 1800000)
	assertFloat(t, "CashFlowSDE", deal.CashFlowSDE, 520000)
}

func TestBuildDealNoTitle(t *testing.T) {
	_, err := BuildDeal(&models.RawFragment{Text: "$$\n??"})
	if !errors.Is(err, ErrNoTitle) {
		t.Errorf("err = %v; want ErrNoTitle", err)
	}
}

func TestBuildDealCardWinsOverDetail(t *testing.T) {
	frag := &models.RawFragment{
		HTML:       laundryCardHTML,
		DetailHTML: `<main><p>Full listing.</p><div>Asking Price: $9,999,999. Established 1987.</div></main>`,
	}

	deal, err := BuildDeal(frag)
	if err != nil {
		t.Fatalf("BuildDeal: %v", err)
	}

	// Card price survives; the detail page only fills what is still absent.
	assertFloat(t, "AskingPrice", deal.AskingPrice, 2200000)
	assertInt(t, "YearEstablished", deal.YearEstablished, 1987)
}

func TestBuildDealBrokerSource(t *testing.T) {
	frag := &models.RawFragment{
		Title:      "Metro Janitorial Routes",
		Text:       "Metro Janitorial Routes\nAsking $1,200,000",
		SourceName: "SomeBrokerSite",
	}

	deal, err := BuildDeal(frag)
	if err != nil {
		t.Fatalf("BuildDeal: %v", err)
	}
	if deal.Source != "SomeBrokerSite" || deal.Broker != "SomeBrokerSite" {
		t.Errorf("Source = %q, Broker = %q; want broker site in both", deal.Source, deal.Broker)
	}
}

func TestNormalizeListingURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/business-opportunity/x/123/", "https://www.bizbuysell.com/business-opportunity/x/123/"},
		{"https://example.com/listing/9", "https://example.com/listing/9"},
		{"  /franchise/5/ ", "https://www.bizbuysell.com/franchise/5/"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeListingURL(tt.in); got != tt.want {
			t.Errorf("NormalizeListingURL(%q) = %q; want %q", tt.in, got, tt.want)
		}
	}
}

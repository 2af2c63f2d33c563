package models

import "time"

// RawFragment holds one unprocessed listing card as harvested from a search
// results page. Everything is optional except that a usable title must be
// recoverable from Title, HTML, or Text for a Deal to be produced.
type RawFragment struct {
	Title      string
	Href       string
	Text       string
	HTML       string
	DetailHTML string
	SourceName string
	Category   string
	ScrapedAt  time.Time
}

// Deal is the canonical, scored acquisition opportunity. Optional financials
// are pointers: nil means the field could not be extracted, which is distinct
// from an extracted zero.
type Deal struct {
	ID              int64    `json:"-"`
	Title           string   `json:"title"`
	URL             string   `json:"url"`
	Location        string   `json:"location"`
	AskingPrice     *float64 `json:"asking_price"`
	Revenue         *float64 `json:"revenue"`
	EBITDA          *float64 `json:"ebitda"`
	CashFlowSDE     *float64 `json:"cash_flow_sde"`
	YearEstablished *int     `json:"year_established"`
	Employees       *int     `json:"employees"`
	Description     string   `json:"description"`
	Source          string   `json:"source"`
	Industry        string   `json:"industry"`
	DateFound       string   `json:"date_found"`
	Traits          []string `json:"traits"`
	AvoidTraits     []string `json:"avoid_traits"`
	Score           int      `json:"score"`
	Multiple        *float64 `json:"multiple"`
	Broker          string   `json:"broker"`
	ListingID       string   `json:"listing_id"`
	Category        string   `json:"category"`

	CreatedAt time.Time `json:"-"`
}

// Earnings returns the preferred earnings proxy: EBITDA when present,
// otherwise cash flow / SDE.
func (d *Deal) Earnings() *float64 {
	if d.EBITDA != nil {
		return d.EBITDA
	}
	return d.CashFlowSDE
}

// FragmentResult is the per-fragment outcome of the processing pipeline.
// Exactly one of Deal or Reason is meaningful: a skipped fragment carries a
// diagnostic reason and never aborts the batch.
type FragmentResult struct {
	Deal    *Deal
	Skipped bool
	Reason  string
}

// DigestReport holds the aggregate stats rendered into the weekly digest and
// the console summary.
type DigestReport struct {
	TotalDeals      int
	PassedFilter    int
	TopScore        int
	AverageMultiple float64
	DealsByIndustry map[string]int
	TopDeals        []*Deal
}

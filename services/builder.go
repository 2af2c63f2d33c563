package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"deal-hunter/models"
)

const (
	// MarketplaceOrigin is the canonical origin root-relative listing links
	// are resolved against.
	MarketplaceOrigin = "https://www.bizbuysell.com"

	// DefaultSource is the marketplace name assumed when a fragment carries
	// no source of its own.
	DefaultSource = "BizBuySell"

	maxCardDescription = 500
)

// ErrNoTitle marks a fragment from which no usable title could be recovered.
// Such fragments never become deals.
var ErrNoTitle = errors.New("no usable title in fragment")

var listingIDRe = regexp.MustCompile(`/(\d+)/?$`)

// Listing card selectors, ordered broadest-known-markup first. The comma
// groups make goquery try each alternative in document order.
const (
	titleSelector       = `a.diamond-header, h3 a, .listing-title a, a[href*="business-opportunity"]`
	locationSelector    = `.listing-location, .location`
	descriptionSelector = `.listing-description, .listing-text, p`
)

// BuildDeal assembles a Deal from a raw fragment. Extraction runs as a fixed
// priority pipeline — structured markup parse, raw title/href fallback,
// financial patterns over the text blob, then detail-page enrichment — where
// each later stage only fills fields the earlier stages left empty.
// It returns ErrNoTitle when no source yields a title, and a wrapped error
// when the markup is too broken to parse at all.
func BuildDeal(frag *models.RawFragment) (*models.Deal, error) {
	deal := &models.Deal{
		Source:   DefaultSource,
		Category: frag.Category,
	}

	if frag.HTML != "" {
		if err := parseCardMarkup(deal, frag.HTML); err != nil {
			return nil, err
		}
	}

	// Raw fragment fallbacks for anything the markup didn't provide.
	fillString(&deal.Title, frag.Title)
	if deal.URL == "" && frag.Href != "" {
		deal.URL = NormalizeListingURL(frag.Href)
	}
	fillString(&deal.Title, titleFromText(frag.Text))
	fillString(&deal.Description, truncate(strings.TrimSpace(frag.Text), maxCardDescription))

	if strings.TrimSpace(deal.Title) == "" {
		return nil, ErrNoTitle
	}

	if deal.ListingID == "" {
		deal.ListingID = extractListingID(deal.URL)
	}

	text := frag.Text
	if text == "" {
		text = deal.Description
	}
	ExtractFinancials(deal, text)

	if frag.DetailHTML != "" {
		if err := enrichFromDetailPage(deal, frag.DetailHTML); err != nil {
			return nil, err
		}
	}

	if frag.SourceName != "" && frag.SourceName != DefaultSource {
		deal.Source = frag.SourceName
		deal.Broker = frag.SourceName
	}

	if deal.DateFound == "" {
		deal.DateFound = time.Now().Format("2006-01-02")
	}

	return deal, nil
}

// parseCardMarkup runs the structured selector pass over a listing card.
func parseCardMarkup(deal *models.Deal, markup string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("builder: parse card markup: %w", err)
	}

	titleEl := doc.Find(titleSelector).First()
	if titleEl.Length() > 0 {
		deal.Title = strings.TrimSpace(titleEl.Text())
		if href, ok := titleEl.Attr("href"); ok {
			deal.URL = NormalizeListingURL(href)
			deal.ListingID = extractListingID(deal.URL)
		}
	}

	fillString(&deal.Location, doc.Find(locationSelector).First().Text())

	doc.Find(descriptionSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		desc := strings.TrimSpace(sel.Text())
		if desc == "" {
			return true
		}
		deal.Description = truncate(desc, maxCardDescription)
		return false
	})

	ExtractFinancials(deal, doc.Text())
	return nil
}

// enrichFromDetailPage applies the same extraction rules to the secondary
// detail-page markup, filling only the fields still absent after the card
// pass.
func enrichFromDetailPage(deal *models.Deal, markup string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return fmt.Errorf("builder: parse detail markup: %w", err)
	}

	fillString(&deal.Location, doc.Find(locationSelector).First().Text())
	if deal.Description == "" {
		doc.Find(descriptionSelector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			desc := strings.TrimSpace(sel.Text())
			if desc == "" {
				return true
			}
			deal.Description = truncate(desc, maxCardDescription)
			return false
		})
	}

	ExtractFinancials(deal, doc.Text())
	return nil
}

// NormalizeListingURL resolves root-relative listing links against the
// marketplace origin. Absolute links and anything unrecognized pass through
// unchanged.
func NormalizeListingURL(href string) string {
	href = strings.TrimSpace(href)
	if strings.HasPrefix(href, "/") {
		return MarketplaceOrigin + href
	}
	return href
}

// extractListingID pulls the trailing numeric path segment out of a listing
// URL, the marketplace's stable listing identifier.
func extractListingID(url string) string {
	m := listingIDRe.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// titleFromText falls back to the first plausible line of the raw text blob.
func titleFromText(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if len(line) >= 5 {
			return line
		}
	}
	return ""
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

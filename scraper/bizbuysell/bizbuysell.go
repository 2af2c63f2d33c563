package bizbuysell

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/chromedp"

	"deal-hunter/config"
	"deal-hunter/models"
	"deal-hunter/utils"
)

const (
	baseURL    = "https://www.bizbuysell.com"
	sourceName = "BizBuySell"
)

// Scraper harvests business-for-sale listing cards from BizBuySell search
// result pages and enriches them with detail-page markup.
type Scraper struct {
	cfg      *config.Config
	criteria *config.Criteria
	logger   *utils.Logger
	pool     *utils.WorkerPool
	seen     *utils.SeenSet
	retry    *utils.RetryConfig

	mu        sync.Mutex
	fragments []*models.RawFragment
}

// New creates a ready-to-use BizBuySell Scraper.
func New(cfg *config.Config, criteria *config.Criteria, logger *utils.Logger) *Scraper {
	return &Scraper{
		cfg:      cfg,
		criteria: criteria,
		logger:   logger,
		pool:     utils.NewWorkerPool(cfg.MaxConcurrency, cfg.RateLimitMs),
		seen:     utils.NewSeenSet(),
		retry: &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		},
		fragments: make([]*models.RawFragment, 0),
	}
}

// BuildSearchURLs expands the criteria into the list of search pages to
// visit: one per category, then one per search keyword with the enterprise
// value range applied as a price filter. The list is capped by
// MAX_SEARCH_URLS so a broad keyword set cannot turn one run into hundreds
// of page loads.
func BuildSearchURLs(criteria *config.Criteria, maxURLs int) []string {
	priceParams := fmt.Sprintf("price_min=%.0f&price_max=%.0f", criteria.EVMin, criteria.EVMax)

	var urls []string
	for _, category := range criteria.SearchCategories {
		urls = append(urls, fmt.Sprintf("%s/%s/?%s", baseURL, category, priceParams))
	}
	for _, keyword := range criteria.SearchKeywords {
		urls = append(urls, fmt.Sprintf("%s/businesses-for-sale/?q=%s&%s",
			baseURL, url.QueryEscape(keyword), priceParams))
	}

	if maxURLs > 0 && len(urls) > maxURLs {
		urls = urls[:maxURLs]
	}
	return urls
}

// Scrape drives the full harvest: every search URL in sequence, then detail
// pages concurrently for the fragments that survived deduplication.
func (s *Scraper) Scrape(ctx context.Context) ([]*models.RawFragment, error) {
	searchURLs := BuildSearchURLs(s.criteria, s.cfg.MaxSearchURLs)
	s.logger.Info("[bizbuysell] Starting scrape — %d search URLs", len(searchURLs))

	chromeBin := findChromeBinary()
	if chromeBin != "" {
		s.logger.Info("[bizbuysell] Using browser binary: %s", chromeBin)
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-setuid-sandbox", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	silentCtx, cancelSilent := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelSilent()
	allocCtx = silentCtx

	for i, searchURL := range searchURLs {
		select {
		case <-ctx.Done():
			s.logger.Warn("[bizbuysell] Scrape cancelled after %d/%d search pages", i, len(searchURLs))
			return s.fragments, ctx.Err()
		default:
		}

		s.logger.Info("[bizbuysell] Search page %d/%d — %s", i+1, len(searchURLs), searchURL)

		category := categoryFromURL(searchURL)
		pageFrags, err := s.scrapeSearchPage(allocCtx, searchURL, category)
		if err != nil {
			s.logger.Error("[bizbuysell] Search page failed: %v", err)
			continue
		}

		s.mu.Lock()
		s.fragments = append(s.fragments, pageFrags...)
		total := len(s.fragments)
		s.mu.Unlock()

		s.logger.Info("[bizbuysell] Page %d done — %d new cards, %d total", i+1, len(pageFrags), total)

		if i < len(searchURLs)-1 {
			time.Sleep(time.Duration(s.cfg.RateLimitMs) * time.Millisecond)
		}
	}

	s.enrichFragments(allocCtx)

	s.logger.Info("[bizbuysell] Scrape complete — %d raw fragments", len(s.fragments))
	return s.fragments, nil
}

// scrapeSearchPage loads one search results page and extracts listing cards.
// Cards are deduplicated by title across all pages: keyword searches overlap
// heavily and the same listing routinely appears under several queries.
func (s *Scraper) scrapeSearchPage(allocCtx context.Context, pageURL, category string) ([]*models.RawFragment, error) {
	var fragments []*models.RawFragment

	err := s.retry.Do(allocCtx, "search-page", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 90*time.Second)
		defer cancelTimeout()

		type cardData struct {
			Title string `json:"title"`
			Href  string `json:"href"`
			Text  string `json:"text"`
			HTML  string `json:"html"`
		}

		var cards []cardData

		err := chromedp.Run(ctx,
			chromedp.Navigate(pageURL),
			chromedp.Sleep(5*time.Second),

			// Scroll to trigger lazy-loaded cards
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight / 2)`, nil),
			chromedp.Sleep(2*time.Second),
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(2*time.Second),

			chromedp.Evaluate(`
				(function() {
					var results = [];
					var seen = {};

					var links = document.querySelectorAll(
						'a[href*="/businesses-for-sale/"], a[href*="business-opportunity"]'
					);

					for (var i = 0; i < links.length; i++) {
						var link = links[i];
						var href = link.href || '';
						if (!href || seen[href]) continue;

						// Climb to the card container so the text blob carries
						// price, cash flow and location, not just the title.
						var card = link.closest('app-listing-showcase') ||
						           link.closest('div[class*="listing"]') ||
						           link.closest('article') ||
						           link.closest('li') ||
						           link.parentElement;

						var container = card || link;
						var text = (container.innerText || '').trim();
						if (text.length < 10) continue;

						seen[href] = true;

						var titleEl = container.querySelector('a.diamond-header') ||
						              container.querySelector('h3 a') ||
						              container.querySelector('.listing-title a') ||
						              link;

						results.push({
							title: (titleEl.innerText || '').trim(),
							href:  href,
							text:  text.substring(0, 3000),
							html:  (container.outerHTML || '').substring(0, 20000)
						});
					}

					return results;
				})()
			`, &cards),
		)
		if err != nil {
			return fmt.Errorf("chromedp search extract: %w", err)
		}

		s.logger.Debug("[bizbuysell] %s — found %d cards", pageURL, len(cards))

		for _, c := range cards {
			key := strings.ToLower(strings.TrimSpace(c.Title))
			if key == "" {
				key = c.Href
			}
			if !s.seen.Add(key) {
				s.logger.Debug("[bizbuysell] Skipping duplicate: %s", c.Title)
				continue
			}

			fragments = append(fragments, &models.RawFragment{
				Title:      c.Title,
				Href:       c.Href,
				Text:       c.Text,
				HTML:       c.HTML,
				SourceName: sourceName,
				Category:   category,
				ScrapedAt:  time.Now(),
			})
		}

		return nil
	})

	return fragments, err
}

// enrichFragments visits detail pages concurrently and attaches the full
// listing markup. Failures leave the fragment as-is; the card blob alone is
// usually enough to build a deal.
func (s *Scraper) enrichFragments(allocCtx context.Context) {
	s.mu.Lock()
	frags := s.fragments
	s.mu.Unlock()

	for _, frag := range frags {
		f := frag
		if f.Href == "" {
			continue
		}

		s.pool.Submit(func() {
			detailHTML, err := s.scrapeDetailPage(allocCtx, f.Href)
			if err != nil {
				s.logger.Warn("[bizbuysell] Detail page failed for %s: %v", f.Href, err)
				return
			}
			f.DetailHTML = detailHTML
			s.logger.Debug("[bizbuysell] Enriched: %s", f.Title)
		})
	}
	s.pool.Wait()
}

// scrapeDetailPage loads a listing detail page and returns the main content
// markup.
func (s *Scraper) scrapeDetailPage(allocCtx context.Context, listingURL string) (string, error) {
	var detailHTML string

	err := s.retry.Do(allocCtx, "detail-page", func() error {
		ctx, cancel := chromedp.NewContext(allocCtx)
		defer cancel()

		ctx, cancelTimeout := context.WithTimeout(ctx, 60*time.Second)
		defer cancelTimeout()

		var html string

		err := chromedp.Run(ctx,
			chromedp.Navigate(listingURL),
			chromedp.Sleep(4*time.Second),

			chromedp.Evaluate(`
				(function() {
					var main = document.querySelector('main') ||
					           document.querySelector('.listing-details') ||
					           document.querySelector('#listing-container') ||
					           document.body;
					return (main.outerHTML || '').substring(0, 100000);
				})()
			`, &html),
		)
		if err != nil {
			return fmt.Errorf("chromedp detail extract: %w", err)
		}

		detailHTML = html
		return nil
	})

	return detailHTML, err
}

// categoryFromURL recovers the category slug from a category search URL.
// Keyword searches return an empty category.
func categoryFromURL(searchURL string) string {
	u, err := url.Parse(searchURL)
	if err != nil {
		return ""
	}
	if u.Query().Get("q") != "" {
		return ""
	}
	return strings.Trim(u.Path, "/")
}

// findChromeBinary locates a Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
		"/opt/google/chrome/google-chrome",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

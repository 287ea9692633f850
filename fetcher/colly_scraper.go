package fetcher

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"housing-scraper/pagerange"
)

// CollyFetcher implements the Fetcher interface using colly
type CollyFetcher struct {
	userAgent string
	timeout   time.Duration
	observer  Observer
}

// Option configures a CollyFetcher
type Option func(*CollyFetcher)

// WithUserAgent overrides colly's default User-Agent header
func WithUserAgent(ua string) Option {
	return func(cf *CollyFetcher) {
		cf.userAgent = ua
	}
}

// WithTimeout sets the HTTP request timeout. Zero keeps the client default.
func WithTimeout(d time.Duration) Option {
	return func(cf *CollyFetcher) {
		cf.timeout = d
	}
}

// WithObserver registers an observer for page progress
func WithObserver(o Observer) Option {
	return func(cf *CollyFetcher) {
		cf.observer = o
	}
}

// NewCollyFetcher creates a new CollyFetcher instance
func NewCollyFetcher(opts ...Option) *CollyFetcher {
	cf := &CollyFetcher{}
	for _, opt := range opts {
		opt(cf)
	}
	return cf
}

// newCollector builds a synchronous collector that hands every status code to
// OnResponse, so non-200 pages can be dropped here rather than inside colly.
func (cf *CollyFetcher) newCollector() *colly.Collector {
	options := []colly.CollectorOption{
		colly.AllowURLRevisit(),
		colly.ParseHTTPErrorResponse(),
	}
	if cf.userAgent != "" {
		options = append(options, colly.UserAgent(cf.userAgent))
	}

	c := colly.NewCollector(options...)
	if cf.timeout > 0 {
		c.SetRequestTimeout(cf.timeout)
	}
	return c
}

// Fetch implements the Fetcher interface
func (cf *CollyFetcher) Fetch(ctx context.Context, baseURL string, start, end int) ([]Page, error) {
	pageURLs, err := pagerange.Generate(baseURL, start, end)
	if err != nil {
		return nil, err
	}

	total := pagerange.Count(start, end)
	c := cf.newCollector()

	var current *colly.Response
	c.OnResponse(func(r *colly.Response) {
		current = r
	})

	pages := make([]Page, 0, len(pageURLs))

	for _, pu := range pageURLs {
		if err := ctx.Err(); err != nil {
			return pages, fmt.Errorf("fetch interrupted before page %d: %w", pu.Number, err)
		}

		if cf.observer != nil {
			cf.observer.PageStarted(pu.Number, pu.URL)
		}

		current = nil
		page := Page{Number: pu.Number, URL: pu.URL}

		visitErr := c.Visit(pu.URL)
		switch {
		case visitErr != nil:
			log.Printf("Warning: Failed to fetch page %d (%s): %v\n", pu.Number, pu.URL, visitErr)
			cf.pageFailed(page, visitErr)
		case current == nil:
			log.Printf("Warning: No response for page %d (%s)\n", pu.Number, pu.URL)
			cf.pageFailed(page, fmt.Errorf("no response"))
		case current.StatusCode != http.StatusOK:
			page.StatusCode = current.StatusCode
			log.Printf("Warning: Page %d returned status %d\n", pu.Number, current.StatusCode)
			cf.pageFailed(page, nil)
		default:
			page.StatusCode = current.StatusCode
			page.Body = current.Body
			if page.Body == nil {
				page.Body = []byte{}
			}
			log.Printf("Fetched page %d/%d: %s\n", pu.Number-start+1, total, pu.URL)
		}

		pages = append(pages, page)
	}

	return pages, nil
}

func (cf *CollyFetcher) pageFailed(page Page, err error) {
	if cf.observer != nil {
		cf.observer.PageFailed(page.Number, page.StatusCode, err)
	}
}

package fetcher

import "context"

// Page is the outcome of fetching one page of search results.
// Body is nil when the page could not be retrieved.
type Page struct {
	Number     int
	URL        string
	StatusCode int
	Body       []byte
}

// OK reports whether the page contributed content
func (p Page) OK() bool {
	return p.Body != nil
}

// Fetcher interface defines the contract for fetching implementations
type Fetcher interface {
	// Fetch retrieves every page in the inclusive range [start, end] of baseURL,
	// one request per page in ascending order. Pages that fail are returned
	// without a body. An invalid range returns an error and makes no request.
	Fetch(ctx context.Context, baseURL string, start, end int) ([]Page, error)
}

// Observer is notified as pages are fetched
type Observer interface {
	PageStarted(number int, url string)
	PageFailed(number int, statusCode int, err error)
}

// OKCount returns how many pages carry a body
func OKCount(pages []Page) int {
	n := 0
	for _, p := range pages {
		if p.OK() {
			n++
		}
	}
	return n
}

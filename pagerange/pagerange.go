package pagerange

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

// PageParam is the query parameter carrying the page number
const PageParam = "page"

// ErrInvalidRange is returned when a page range is non-positive or inverted
var ErrInvalidRange = errors.New("invalid page range")

// PageURL represents a search results URL for a single page
type PageURL struct {
	Number int
	URL    string
}

// Validate checks that start and end are positive and end >= start
func Validate(start, end int) error {
	if start <= 0 || end <= 0 {
		return fmt.Errorf("%w: pages must be positive (start=%d, end=%d)", ErrInvalidRange, start, end)
	}
	if end < start {
		return fmt.Errorf("%w: end page %d is before start page %d", ErrInvalidRange, end, start)
	}
	return nil
}

// Count returns how many pages the inclusive range covers, or 0 if it is invalid
func Count(start, end int) int {
	if Validate(start, end) != nil {
		return 0
	}
	return end - start + 1
}

// Generate takes a base search URL and builds one URL per page in [start, end].
// Query parameters already on the base URL are kept; page is set on each URL.
func Generate(baseURL string, start, end int) ([]PageURL, error) {
	if err := Validate(start, end); err != nil {
		return nil, err
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", baseURL)
	}

	query := parsedURL.Query()
	pages := make([]PageURL, 0, end-start+1)

	for n := start; n <= end; n++ {
		newQuery := make(url.Values, len(query)+1)
		for k, v := range query {
			newQuery[k] = v
		}
		newQuery.Set(PageParam, strconv.Itoa(n))

		pageURL := *parsedURL
		pageURL.RawQuery = newQuery.Encode()

		pages = append(pages, PageURL{
			Number: n,
			URL:    pageURL.String(),
		})
	}

	return pages, nil
}

package parser

import (
	"bytes"
	"errors"
	"fmt"
	"log"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"housing-scraper/fetcher"
	"housing-scraper/filter"
	"housing-scraper/models"
)

// idSegmentFromEnd is the position of the property id in a listing path,
// counted from the end: /<kind>/<id>/<lang>/<city>/<slug> style links.
const idSegmentFromEnd = 4

// attributeCount is how many attribute items carry price, specs and availability
const attributeCount = 3

// Options configures a Parser
type Options struct {
	// Origin is prefixed to relative listing links, e.g. "https://housinganywhere.com"
	Origin string
	// Strict aborts on the first malformed listing instead of skipping it
	Strict bool
}

// Stats counts what happened to the containers seen while parsing
type Stats struct {
	Pages       int
	Containers  int
	MissingLink int
	Malformed   int
	Duplicates  int
	Listings    int
}

// Add accumulates other into s
func (s *Stats) Add(other Stats) {
	s.Pages += other.Pages
	s.Containers += other.Containers
	s.MissingLink += other.MissingLink
	s.Malformed += other.Malformed
	s.Duplicates += other.Duplicates
	s.Listings += other.Listings
}

// Result holds the unique listings of a run and the parse counters
type Result struct {
	Listings []models.Listing
	Stats    Stats
}

// Parser extracts listing data from HTML
type Parser struct {
	extractor Extractor
	opts      Options
}

// NewParser creates a new Parser instance
func NewParser(extractor Extractor, opts Options) *Parser {
	return &Parser{
		extractor: extractor,
		opts:      opts,
	}
}

// ParseHTML extracts listings from one page of HTML, in document order.
// Duplicates are kept here; ParsePages removes them across the whole run.
func (p *Parser) ParseHTML(body []byte) ([]models.Listing, Stats, error) {
	var stats Stats

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, stats, fmt.Errorf("failed to parse HTML: %w", err)
	}
	stats.Pages = 1

	var listings []models.Listing
	for i, container := range p.extractor.Containers(root) {
		stats.Containers++

		listing, err := p.ExtractListing(container)
		switch {
		case err == nil:
			listings = append(listings, listing)
		case errors.Is(err, ErrLinkNotFound):
			stats.MissingLink++
		case errors.Is(err, ErrMalformedListing):
			if p.opts.Strict {
				return listings, stats, fmt.Errorf("container %d: %w", i+1, err)
			}
			stats.Malformed++
			log.Printf("Warning: Skipping container %d: %v\n", i+1, err)
		default:
			return listings, stats, fmt.Errorf("container %d: %w", i+1, err)
		}
	}

	return listings, stats, nil
}

// ParsePages parses every fetched page and removes duplicate rows across the run.
// Pages without a body contribute nothing.
func (p *Parser) ParsePages(pages []fetcher.Page) (Result, error) {
	var result Result
	dedup := filter.NewDedup()

	for _, page := range pages {
		if !page.OK() {
			continue
		}

		listings, stats, err := p.ParseHTML(page.Body)
		result.Stats.Add(stats)
		if err != nil {
			return result, fmt.Errorf("page %d: %w", page.Number, err)
		}

		for _, l := range listings {
			if !dedup.Add(l) {
				result.Stats.Duplicates++
			}
		}
	}

	result.Listings = dedup.Listings()
	result.Stats.Listings = dedup.Len()
	return result, nil
}

// ExtractListing builds a listing from one container
func (p *Parser) ExtractListing(container *html.Node) (models.Listing, error) {
	href, err := p.extractor.Href(container)
	if err != nil {
		return models.Listing{}, err
	}

	// Links carry the search query string, which is not part of the listing
	href = StripQuery(href)

	id, err := ListingID(href)
	if err != nil {
		return models.Listing{}, err
	}

	attributes, err := p.extractor.Attributes(container)
	if err != nil {
		return models.Listing{}, err
	}
	if len(attributes) < attributeCount {
		return models.Listing{}, fmt.Errorf("%w: attribute list has %d items, need %d", ErrMalformedListing, len(attributes), attributeCount)
	}

	return models.Listing{
		ID:           id,
		URL:          AbsoluteURL(p.opts.Origin, href),
		Price:        attributes[0],
		Specs:        attributes[1],
		Availability: attributes[2],
	}, nil
}

// StripQuery removes everything from the first '?' on
func StripQuery(href string) string {
	if idx := strings.Index(href, "?"); idx != -1 {
		return href[:idx]
	}
	return href
}

// ListingID returns the fourth '/'-separated segment from the end of href
func ListingID(href string) (string, error) {
	segments := strings.Split(href, "/")
	if len(segments) < idSegmentFromEnd {
		return "", fmt.Errorf("%w: link %q has too few path segments for an id", ErrMalformedListing, href)
	}
	return segments[len(segments)-idSegmentFromEnd], nil
}

// AbsoluteURL resolves href against origin. Absolute and protocol-relative
// hrefs keep their own host.
func AbsoluteURL(origin, href string) string {
	base, err := url.Parse(origin)
	if err != nil || base.Scheme == "" {
		return strings.TrimRight(origin, "/") + href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return strings.TrimRight(origin, "/") + href
	}
	return base.ResolveReference(ref).String()
}

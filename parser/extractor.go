package parser

import (
	"errors"
	"fmt"

	"golang.org/x/net/html"

	"housing-scraper/config"
)

var (
	// ErrMalformedListing marks a container whose markup does not carry the expected fields
	ErrMalformedListing = errors.New("malformed listing")
	// ErrLinkNotFound is returned when a container has no listing hyperlink
	ErrLinkNotFound = errors.New("listing link not found")
	// ErrAttributesNotFound is returned when a container has no attribute list
	ErrAttributesNotFound = fmt.Errorf("%w: attribute list not found", ErrMalformedListing)
)

// Extractor isolates everything that depends on the site's markup.
// A markup change on the site means replacing the Extractor, not the Parser.
type Extractor interface {
	// Containers returns every listing container under root, in document order
	Containers(root *html.Node) []*html.Node
	// Href returns the raw href of the container's listing link, or ErrLinkNotFound
	Href(container *html.Node) (string, error)
	// Attributes returns the text of each item in the container's attribute list,
	// in order, or ErrAttributesNotFound
	Attributes(container *html.Node) ([]string, error)
}

// NewExtractor builds the extractor for the configured engine
func NewExtractor(cfg config.ParserConfig) (Extractor, error) {
	switch config.NormalizeEngine(cfg.Engine) {
	case config.EngineCSS:
		return NewCSSExtractor(cfg.Selectors)
	case config.EngineXPath:
		return NewXPathExtractor(cfg.XPath)
	default:
		return nil, fmt.Errorf("unknown parser engine %q", cfg.Engine)
	}
}

// elementChildren returns the direct element children of n
func elementChildren(n *html.Node) []*html.Node {
	var children []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			children = append(children, c)
		}
	}
	return children
}

package parser

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"housing-scraper/config"
)

// CSSExtractor locates listing fields with CSS selectors
type CSSExtractor struct {
	container  cascadia.Selector
	link       cascadia.Selector
	attributes cascadia.Selector
}

// NewCSSExtractor compiles the configured selectors
func NewCSSExtractor(sel config.SelectorConfig) (*CSSExtractor, error) {
	container, err := cascadia.Compile(sel.Container)
	if err != nil {
		return nil, fmt.Errorf("invalid container selector %q: %w", sel.Container, err)
	}
	link, err := cascadia.Compile(sel.Link)
	if err != nil {
		return nil, fmt.Errorf("invalid link selector %q: %w", sel.Link, err)
	}
	attributes, err := cascadia.Compile(sel.Attributes)
	if err != nil {
		return nil, fmt.Errorf("invalid attributes selector %q: %w", sel.Attributes, err)
	}

	return &CSSExtractor{
		container:  container,
		link:       link,
		attributes: attributes,
	}, nil
}

// Containers implements the Extractor interface
func (e *CSSExtractor) Containers(root *html.Node) []*html.Node {
	return goquery.NewDocumentFromNode(root).FindMatcher(e.container).Nodes
}

// Href implements the Extractor interface
func (e *CSSExtractor) Href(container *html.Node) (string, error) {
	link := goquery.NewDocumentFromNode(container).FindMatcher(e.link).First()
	if link.Length() == 0 {
		return "", ErrLinkNotFound
	}
	href, ok := link.Attr("href")
	if !ok {
		return "", ErrLinkNotFound
	}
	return href, nil
}

// Attributes implements the Extractor interface
func (e *CSSExtractor) Attributes(container *html.Node) ([]string, error) {
	list := goquery.NewDocumentFromNode(container).FindMatcher(e.attributes).First()
	if list.Length() == 0 {
		return nil, ErrAttributesNotFound
	}

	var values []string
	list.Children().Each(func(i int, s *goquery.Selection) {
		values = append(values, s.Text())
	})
	return values, nil
}

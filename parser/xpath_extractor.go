package parser

import (
	"fmt"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"

	"housing-scraper/config"
)

// XPathExtractor locates listing fields with XPath expressions.
// Link and attribute expressions are evaluated relative to the container.
type XPathExtractor struct {
	container  *xpath.Expr
	link       *xpath.Expr
	attributes *xpath.Expr
}

// NewXPathExtractor compiles the configured expressions
func NewXPathExtractor(sel config.SelectorConfig) (*XPathExtractor, error) {
	container, err := xpath.Compile(sel.Container)
	if err != nil {
		return nil, fmt.Errorf("invalid container expression %q: %w", sel.Container, err)
	}
	link, err := xpath.Compile(sel.Link)
	if err != nil {
		return nil, fmt.Errorf("invalid link expression %q: %w", sel.Link, err)
	}
	attributes, err := xpath.Compile(sel.Attributes)
	if err != nil {
		return nil, fmt.Errorf("invalid attributes expression %q: %w", sel.Attributes, err)
	}

	return &XPathExtractor{
		container:  container,
		link:       link,
		attributes: attributes,
	}, nil
}

// Containers implements the Extractor interface
func (e *XPathExtractor) Containers(root *html.Node) []*html.Node {
	return htmlquery.QuerySelectorAll(root, e.container)
}

// Href implements the Extractor interface
func (e *XPathExtractor) Href(container *html.Node) (string, error) {
	link := htmlquery.QuerySelector(container, e.link)
	if link == nil || !htmlquery.ExistsAttr(link, "href") {
		return "", ErrLinkNotFound
	}
	return htmlquery.SelectAttr(link, "href"), nil
}

// Attributes implements the Extractor interface
func (e *XPathExtractor) Attributes(container *html.Node) ([]string, error) {
	list := htmlquery.QuerySelector(container, e.attributes)
	if list == nil {
		return nil, ErrAttributesNotFound
	}

	var values []string
	for _, child := range elementChildren(list) {
		values = append(values, htmlquery.InnerText(child))
	}
	return values, nil
}

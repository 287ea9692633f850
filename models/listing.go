package models

// Columns is the output column order for listing rows
var Columns = []string{"Id", "URL", "Price", "Specs", "Availability"}

// Listing represents a single property card scraped from a search results page.
// All fields hold the raw display text; nothing is parsed or normalized.
type Listing struct {
	ID           string
	URL          string
	Price        string
	Specs        string
	Availability string
}

// Row returns the listing fields in Columns order
func (l Listing) Row() []string {
	return []string{l.ID, l.URL, l.Price, l.Specs, l.Availability}
}

// ListingFromRow builds a Listing from a row in Columns order.
// Missing trailing cells are left empty.
func ListingFromRow(row []string) Listing {
	cell := func(i int) string {
		if i < len(row) {
			return row[i]
		}
		return ""
	}
	return Listing{
		ID:           cell(0),
		URL:          cell(1),
		Price:        cell(2),
		Specs:        cell(3),
		Availability: cell(4),
	}
}

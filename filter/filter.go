package filter

import (
	"housing-scraper/models"
)

// Dedup keeps the first occurrence of each listing, comparing all five fields
type Dedup struct {
	seen     map[models.Listing]struct{}
	listings []models.Listing
}

// NewDedup creates an empty Dedup
func NewDedup() *Dedup {
	return &Dedup{
		seen: make(map[models.Listing]struct{}),
	}
}

// Add appends the listing if an identical one has not been added yet.
// It reports whether the listing was kept.
func (d *Dedup) Add(listing models.Listing) bool {
	if _, ok := d.seen[listing]; ok {
		return false
	}
	d.seen[listing] = struct{}{}
	d.listings = append(d.listings, listing)
	return true
}

// Len returns the number of unique listings kept
func (d *Dedup) Len() int {
	return len(d.listings)
}

// Listings returns the unique listings in the order they were first added
func (d *Dedup) Listings() []models.Listing {
	return append([]models.Listing(nil), d.listings...)
}

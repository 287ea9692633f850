package models

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Table is an ordered, column-labelled set of rows
type Table struct {
	Columns []string
	Rows    [][]string
}

// NewTable builds a table from listings, keeping their order
func NewTable(columns []string, listings []Listing) Table {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		rows = append(rows, l.Row())
	}
	return Table{
		Columns: append([]string(nil), columns...),
		Rows:    rows,
	}
}

// Len returns the number of data rows
func (t Table) Len() int {
	return len(t.Rows)
}

// Head returns a table holding at most the first n rows
func (t Table) Head(n int) Table {
	if n < 0 {
		n = 0
	}
	if n > len(t.Rows) {
		n = len(t.Rows)
	}
	return Table{Columns: t.Columns, Rows: t.Rows[:n]}
}

// Listings converts the rows back into listings
func (t Table) Listings() []Listing {
	listings := make([]Listing, 0, len(t.Rows))
	for _, row := range t.Rows {
		listings = append(listings, ListingFromRow(row))
	}
	return listings
}

// String renders the table with a leading index column, one line per row
func (t Table) String() string {
	if len(t.Columns) == 0 {
		return "Empty table\n"
	}

	header := append([]string{""}, t.Columns...)
	lines := [][]string{header}
	for i, row := range t.Rows {
		line := make([]string, len(header))
		line[0] = fmt.Sprintf("%d", i)
		for j := range t.Columns {
			if j < len(row) {
				line[j+1] = row[j]
			}
		}
		lines = append(lines, line)
	}

	widths := make([]int, len(header))
	for _, line := range lines {
		for j, cell := range line {
			if w := utf8.RuneCountInString(cell); w > widths[j] {
				widths[j] = w
			}
		}
	}

	var sb strings.Builder
	for _, line := range lines {
		for j, cell := range line {
			if j > 0 {
				sb.WriteString("  ")
			}
			sb.WriteString(cell)
			if j < len(line)-1 {
				sb.WriteString(strings.Repeat(" ", widths[j]-utf8.RuneCountInString(cell)))
			}
		}
		sb.WriteString("\n")
	}
	if len(t.Rows) == 0 {
		sb.WriteString("(no rows)\n")
	}
	return sb.String()
}

package report

import (
	"fmt"
	"io"
	"os"
	"strings"

	"housing-scraper/models"
)

// DefaultPreviewRows is the number of sample rows printed after a run
const DefaultPreviewRows = 5

const ruleWidth = 41

// Reporter prints human readable progress and the run summary.
// It satisfies fetcher.Observer.
type Reporter struct {
	Out         io.Writer
	PreviewRows int
}

// NewReporter creates a reporter writing to out, or to stdout when out is nil
func NewReporter(out io.Writer, previewRows int) *Reporter {
	if out == nil {
		out = os.Stdout
	}
	if previewRows <= 0 {
		previewRows = DefaultPreviewRows
	}
	return &Reporter{Out: out, PreviewRows: previewRows}
}

// Start announces the beginning of a run
func (r *Reporter) Start() {
	fmt.Fprintln(r.Out, "Scraping data. Please wait.")
}

// PageStarted prints the progress line for a page
func (r *Reporter) PageStarted(number int, url string) {
	fmt.Fprintf(r.Out, "Scraping page %d...\n", number)
}

// PageFailed prints a line for a page that yielded no content
func (r *Reporter) PageFailed(number int, statusCode int, err error) {
	switch {
	case err != nil:
		fmt.Fprintf(r.Out, "Attempt to access page data failed. (page %d: %v)\n", number, err)
	case statusCode != 0:
		fmt.Fprintf(r.Out, "Attempt to access page data failed. (page %d: status %d)\n", number, statusCode)
	default:
		fmt.Fprintf(r.Out, "Attempt to access page data failed. (page %d)\n", number)
	}
}

// Summary prints the completion message, the row count and a sample of the table
func (r *Reporter) Summary(table models.Table) {
	fmt.Fprintln(r.Out)
	fmt.Fprintln(r.Out, "Data scraping completed successfully.")
	fmt.Fprintf(r.Out, "Number of extracted properties: %d\n\n", table.Len())
	fmt.Fprintln(r.Out, "Sample data")
	fmt.Fprintln(r.Out, strings.Repeat("*", ruleWidth))
	fmt.Fprint(r.Out, table.Head(r.PreviewRows).String())
}

// Failure prints the single failure line for a run
func (r *Reporter) Failure(err error) {
	fmt.Fprintf(r.Out, "Something went wrong!\n%v\n", err)
}

// Exported prints where an optional sink stored the table
func (r *Reporter) Exported(destination string, rows int) {
	fmt.Fprintf(r.Out, "Successfully wrote %d listings to %s\n", rows, destination)
}

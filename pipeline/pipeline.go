package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"housing-scraper/db"
	"housing-scraper/fetcher"
	"housing-scraper/models"
	"housing-scraper/parser"
	"housing-scraper/report"
)

var (
	// ErrNoPageData is returned when the fetch stage produced nothing to work on,
	// e.g. for an invalid page range
	ErrNoPageData = errors.New("could not extract page data")
	// ErrNoContent is returned when no page in the range yielded a body
	ErrNoContent = errors.New("could not parse content")
)

// TableWriter persists the final table. It is the primary output of a run.
type TableWriter interface {
	Write(table models.Table) error
	Path() string
}

// SheetExporter copies the table into a new spreadsheet tab
type SheetExporter interface {
	CreateSheetAndWriteTable(ctx context.Context, sheetName string, table models.Table, sourceURL, pagesInfo string) (string, int64, error)
}

// RunStore records runs and their listings
type RunStore interface {
	CreateRun(ctx context.Context, baseURL string, startPage, endPage int) (*db.Run, error)
	UpdateRunStatus(ctx context.Context, runID int, status string) error
	UpdateRunCounts(ctx context.Context, runID int, pagesCount, listingsCount int) error
	SaveListings(ctx context.Context, runID int, listings []models.Listing) error
}

// Pipeline runs fetch, parse, dedup and write for one page range
type Pipeline struct {
	BaseURL   string
	StartPage int
	EndPage   int

	Fetcher  fetcher.Fetcher
	Parser   *parser.Parser
	Writer   TableWriter
	Reporter *report.Reporter

	// Optional sinks; a nil value disables them
	Sheets SheetExporter
	Store  RunStore
}

// Run executes the pipeline and returns the table that was written
func (p *Pipeline) Run(ctx context.Context) (models.Table, error) {
	p.Reporter.Start()

	runID := p.startRun(ctx)

	table, pagesOK, err := p.scrape(ctx)
	if err != nil {
		p.finishRun(ctx, runID, db.StatusFailed, pagesOK, nil)
		return models.Table{}, err
	}

	if err := p.Writer.Write(table); err != nil {
		p.finishRun(ctx, runID, db.StatusFailed, pagesOK, nil)
		return models.Table{}, fmt.Errorf("failed to write %s: %w", p.Writer.Path(), err)
	}
	log.Printf("Wrote %d listings to %s\n", table.Len(), p.Writer.Path())

	p.exportSheet(ctx, table)
	p.finishRun(ctx, runID, db.StatusDone, pagesOK, table.Listings())

	p.Reporter.Summary(table)
	return table, nil
}

// scrape fetches the range and turns the page bodies into a deduplicated table
func (p *Pipeline) scrape(ctx context.Context) (models.Table, int, error) {
	pages, err := p.Fetcher.Fetch(ctx, p.BaseURL, p.StartPage, p.EndPage)
	if err != nil {
		return models.Table{}, 0, fmt.Errorf("%w: %w", ErrNoPageData, err)
	}

	pagesOK := fetcher.OKCount(pages)
	if pagesOK == 0 {
		return models.Table{}, 0, fmt.Errorf("%w: none of %d pages returned data, 0 properties processed", ErrNoContent, len(pages))
	}

	result, err := p.Parser.ParsePages(pages)
	if err != nil {
		return models.Table{}, pagesOK, fmt.Errorf("%w: %w", ErrNoContent, err)
	}

	stats := result.Stats
	log.Printf("Parsed %d pages: %d containers, %d without link, %d malformed, %d duplicates, %d listings\n",
		stats.Pages, stats.Containers, stats.MissingLink, stats.Malformed, stats.Duplicates, stats.Listings)

	return models.NewTable(models.Columns, result.Listings), pagesOK, nil
}

func (p *Pipeline) pagesInfo() string {
	return fmt.Sprintf("%d-%d", p.StartPage, p.EndPage)
}

func (p *Pipeline) exportSheet(ctx context.Context, table models.Table) {
	if p.Sheets == nil {
		return
	}

	sheetName := fmt.Sprintf("Housing_%s", time.Now().Format("20060102_150405"))
	name, _, err := p.Sheets.CreateSheetAndWriteTable(ctx, sheetName, table, p.BaseURL, p.pagesInfo())
	if err != nil {
		log.Printf("Warning: Failed to write to Google Sheets: %v\n", err)
		return
	}
	p.Reporter.Exported(fmt.Sprintf("Google Sheets (%s)", name), table.Len())
}

// startRun records the run, returning 0 when there is no store or it failed
func (p *Pipeline) startRun(ctx context.Context) int {
	if p.Store == nil {
		return 0
	}

	run, err := p.Store.CreateRun(ctx, p.BaseURL, p.StartPage, p.EndPage)
	if err != nil {
		log.Printf("Warning: Failed to record run: %v\n", err)
		return 0
	}
	if err := p.Store.UpdateRunStatus(ctx, run.ID, db.StatusInProgress); err != nil {
		log.Printf("Warning: Failed to update run %d status: %v\n", run.ID, err)
	}
	return run.ID
}

func (p *Pipeline) finishRun(ctx context.Context, runID int, status string, pagesOK int, listings []models.Listing) {
	if p.Store == nil || runID == 0 {
		return
	}

	if err := p.Store.SaveListings(ctx, runID, listings); err != nil {
		log.Printf("Warning: Failed to save listings for run %d: %v\n", runID, err)
		status = db.StatusFailed
	}
	if err := p.Store.UpdateRunCounts(ctx, runID, pagesOK, len(listings)); err != nil {
		log.Printf("Warning: Failed to update run %d counts: %v\n", runID, err)
	}
	if err := p.Store.UpdateRunStatus(ctx, runID, status); err != nil {
		log.Printf("Warning: Failed to update run %d status: %v\n", runID, err)
	}
}

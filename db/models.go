package db

import (
	"context"
	"fmt"
	"time"

	"housing-scraper/models"
)

// Run statuses
const (
	StatusCreated    = "created"
	StatusInProgress = "in_progress"
	StatusDone       = "done"
	StatusFailed     = "failed"
)

// Run represents one execution of the scraper
type Run struct {
	ID            int
	BaseURL       string
	StartPage     int
	EndPage       int
	Status        string
	PagesCount    int
	ListingsCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreateRun records a new run with status 'created'
func (db *DB) CreateRun(ctx context.Context, baseURL string, startPage, endPage int) (*Run, error) {
	run := &Run{
		BaseURL:   baseURL,
		StartPage: startPage,
		EndPage:   endPage,
		Status:    StatusCreated,
	}
	err := db.conn.QueryRowContext(ctx, `
		INSERT INTO scrape_runs (base_url, start_page, end_page, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, baseURL, startPage, endPage, StatusCreated).Scan(&run.ID, &run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	return run, nil
}

// UpdateRunStatus updates the status of a run
func (db *DB) UpdateRunStatus(ctx context.Context, runID int, status string) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE scrape_runs
		SET status = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`, status, runID)
	if err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}
	return nil
}

// UpdateRunCounts updates the page and listing counters of a run
func (db *DB) UpdateRunCounts(ctx context.Context, runID int, pagesCount, listingsCount int) error {
	_, err := db.conn.ExecContext(ctx, `
		UPDATE scrape_runs
		SET pages_count = $1, listings_count = $2, updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
	`, pagesCount, listingsCount, runID)
	if err != nil {
		return fmt.Errorf("failed to update run counts: %w", err)
	}
	return nil
}

// SaveListings inserts the listings of a run in one transaction, keeping their order
func (db *DB) SaveListings(ctx context.Context, runID int, listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO listings (run_id, position, listing_id, url, price, specs, availability)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for i, l := range listings {
		if _, err := stmt.ExecContext(ctx, runID, i, l.ID, l.URL, l.Price, l.Specs, l.Availability); err != nil {
			return fmt.Errorf("failed to insert listing %s: %w", l.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

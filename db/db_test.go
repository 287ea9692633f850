package db

import (
	"context"
	"os"
	"strings"
	"testing"

	"housing-scraper/models"
)

func TestEnvConfigured(t *testing.T) {
	tests := []struct {
		name        string
		databaseURL string
		host        string
		want        bool
	}{
		{"nothing set", "", "", false},
		{"database url", "postgres://u:p@db:5432/housing", "", true},
		{"host only", "", "db.internal", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.databaseURL)
			t.Setenv("DB_HOST", tt.host)
			if got := EnvConfigured(); got != tt.want {
				t.Errorf("EnvConfigured() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestConnStringFromEnv(t *testing.T) {
	t.Run("database url wins", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/housing")
		if got := ConnStringFromEnv(); got != "postgres://u:p@db:5432/housing" {
			t.Errorf("ConnStringFromEnv() = %q", got)
		}
	})

	t.Run("components", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "")
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("DB_PORT", "6543")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_NAME", "")
		got := ConnStringFromEnv()
		for _, want := range []string{"host=db.internal", "port=6543", "user=housing", "dbname=housing", "sslmode=disable"} {
			if !strings.Contains(got, want) {
				t.Errorf("ConnStringFromEnv() = %q, missing %q", got, want)
			}
		}
	})
}

// TestRunLifecycle needs a real database: set TEST_DATABASE_URL to run it
func TestRunLifecycle(t *testing.T) {
	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	database, err := NewDB(ctx, connStr)
	if err != nil {
		t.Fatalf("NewDB() error = %v", err)
	}
	defer database.Close()

	run, err := database.CreateRun(ctx, "https://housinganywhere.com/s/Berlin--Germany", 1, 2)
	if err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}

	listings := []models.Listing{
		{ID: "ut2", URL: "https://housinganywhere.com/room/ut2", Price: "€700", Specs: "Studio", Availability: "June"},
		{ID: "ut1", URL: "https://housinganywhere.com/room/ut1", Price: "€650", Specs: "Room", Availability: "Now"},
	}
	if err := database.SaveListings(ctx, run.ID, listings); err != nil {
		t.Fatalf("SaveListings() error = %v", err)
	}
	if err := database.UpdateRunCounts(ctx, run.ID, 2, len(listings)); err != nil {
		t.Fatalf("UpdateRunCounts() error = %v", err)
	}
	if err := database.UpdateRunStatus(ctx, run.ID, StatusDone); err != nil {
		t.Fatalf("UpdateRunStatus() error = %v", err)
	}

	var status string
	var pagesCount, listingsCount int
	err = database.conn.QueryRowContext(ctx,
		`SELECT status, pages_count, listings_count FROM scrape_runs WHERE id = $1`, run.ID,
	).Scan(&status, &pagesCount, &listingsCount)
	if err != nil {
		t.Fatalf("select run: %v", err)
	}
	if status != StatusDone || listingsCount != 2 || pagesCount != 2 {
		t.Errorf("stored run status=%s pages=%d listings=%d", status, pagesCount, listingsCount)
	}

	rows, err := database.conn.QueryContext(ctx,
		`SELECT listing_id, url, price, specs, availability FROM listings WHERE run_id = $1 ORDER BY position`, run.ID)
	if err != nil {
		t.Fatalf("select listings: %v", err)
	}
	defer rows.Close()

	var got []models.Listing
	for rows.Next() {
		var l models.Listing
		if err := rows.Scan(&l.ID, &l.URL, &l.Price, &l.Specs, &l.Availability); err != nil {
			t.Fatalf("scan listing: %v", err)
		}
		got = append(got, l)
	}
	if len(got) != 2 || got[0] != listings[0] || got[1] != listings[1] {
		t.Errorf("saved listings = %+v, want %+v", got, listings)
	}
}

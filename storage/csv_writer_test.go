package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"housing-scraper/models"
)

func TestCSVRoundTrip(t *testing.T) {
	listing := models.Listing{
		ID:           "12345",
		URL:          "https://example.com/listing/12345/a/b",
		Price:        "€500",
		Specs:        "2 rooms, 30m²",
		Availability: "Available now",
	}
	table := models.NewTable(models.Columns, []models.Listing{listing})

	path := filepath.Join(t.TempDir(), "output", "housing.csv")
	writer := NewCSVWriter(path)
	if err := writer.Write(table); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := writer.Read()
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if strings.Join(got.Columns, ",") != "Id,URL,Price,Specs,Availability" {
		t.Errorf("Columns = %v", got.Columns)
	}
	listings := got.Listings()
	if len(listings) != 1 {
		t.Fatalf("Read() returned %d rows, want 1", len(listings))
	}
	if listings[0] != listing {
		t.Errorf("round trip = %+v, want %+v", listings[0], listing)
	}
}

func TestCSVLayout(t *testing.T) {
	table := models.NewTable(models.Columns, []models.Listing{
		{ID: "1", URL: "https://example.com/1", Price: "€500", Specs: "Room", Availability: "Now"},
		{ID: "2", URL: "https://example.com/2", Price: "€600", Specs: "Studio, 20m²", Availability: "May"},
	})

	path := filepath.Join(t.TempDir(), "housing.csv")
	if err := NewCSVWriter(path).Write(table); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}

	expected := ",Id,URL,Price,Specs,Availability\n" +
		"0,1,https://example.com/1,€500,Room,Now\n" +
		"1,2,https://example.com/2,€600,\"Studio, 20m²\",May\n"
	if string(data) != expected {
		t.Errorf("file contents =\n%s\nwant\n%s", data, expected)
	}
}

func TestCSVOverwritesExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "housing.csv")
	if err := os.WriteFile(path, []byte("old contents that are much longer than the new file\n"), 0644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	if err := NewCSVWriter(path).Write(models.NewTable(models.Columns, nil)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if string(data) != ",Id,URL,Price,Specs,Availability\n" {
		t.Errorf("file contents = %q", data)
	}
}

func TestCSVReadMissingFile(t *testing.T) {
	if _, err := NewCSVWriter(filepath.Join(t.TempDir(), "missing.csv")).Read(); err == nil {
		t.Error("Read() on missing file should fail")
	}
}

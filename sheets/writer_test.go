package sheets

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"housing-scraper/models"
)

func TestExtractSpreadsheetID(t *testing.T) {
	tests := []struct {
		name     string
		url      string
		expected string
	}{
		{"edit link", "https://docs.google.com/spreadsheets/d/abc123/edit", "abc123"},
		{"sharing link", "https://docs.google.com/spreadsheets/d/abc123/edit?usp=sharing", "abc123"},
		{"bare id path", "https://docs.google.com/spreadsheets/d/abc123", "abc123"},
		{"query right after id", "https://docs.google.com/spreadsheets/d/abc123?x=1", "abc123"},
		{"not a sheets link", "https://example.com/abc123", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractSpreadsheetID(tt.url); got != tt.expected {
				t.Errorf("ExtractSpreadsheetID() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSanitizeSheetName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"plain", "Housing_20261015_120000", "Housing_20261015_120000"},
		{"invalid chars", "Berlin/Mitte [1]?", "Berlin_Mitte _1__"},
		{"quote", "Tom's", "Tom_s"},
		{"blank", "   ", "Sheet1"},
		{"too long", strings.Repeat("x", 150), strings.Repeat("x", 100)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sanitizeSheetName(tt.input); got != tt.expected {
				t.Errorf("sanitizeSheetName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestBuildValues(t *testing.T) {
	table := models.NewTable(models.Columns, []models.Listing{
		{ID: "12345", URL: "https://example.com/listing/12345/a/b", Price: "€500", Specs: "2 rooms, 30m²", Availability: "Available now"},
	})

	values := buildValues(table, "https://housinganywhere.com/s/Berlin--Germany", "1-3")
	if len(values) != 3 {
		t.Fatalf("buildValues() returned %d rows, want 3", len(values))
	}
	if values[0][0] != "URL" || values[0][2] != "Pages" || values[0][3] != "1-3" {
		t.Errorf("metadata row = %v", values[0])
	}
	if values[1][0] != "Id" || len(values[1]) != 5 {
		t.Errorf("header row = %v", values[1])
	}
	if values[2][0] != "12345" || values[2][3] != "2 rooms, 30m²" {
		t.Errorf("data row = %v", values[2])
	}

	if got := buildValues(table, "", ""); len(got) != 2 {
		t.Errorf("without metadata buildValues() returned %d rows, want 2", len(got))
	}
}

func TestReadCredentials(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	if err := os.WriteFile(valid, []byte(`{"type": "service_account"}`), 0600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	wrongType := filepath.Join(dir, "user.json")
	if err := os.WriteFile(wrongType, []byte(`{"type": "authorized_user"}`), 0600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}
	broken := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(broken, []byte(`{`), 0600); err != nil {
		t.Fatalf("write credentials: %v", err)
	}

	tests := []struct {
		name    string
		path    string
		env     string
		wantErr bool
	}{
		{"file", valid, "", false},
		{"env", "", `{"type": "service_account"}`, false},
		{"wrong type", wrongType, "", true},
		{"broken json", broken, "", true},
		{"missing file", filepath.Join(dir, "missing.json"), "", true},
		{"nothing configured", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GOOGLE_SHEETS_CREDENTIALS", tt.env)
			_, err := readCredentials(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("readCredentials() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

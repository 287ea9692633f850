package pagerange

import (
	"errors"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		start   int
		end     int
		wantErr bool
	}{
		{"single page", 1, 1, false},
		{"several pages", 2, 5, false},
		{"zero start", 0, 3, true},
		{"zero end", 1, 0, true},
		{"negative start", -1, 3, true},
		{"inverted", 5, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRange) {
				t.Errorf("error %v is not ErrInvalidRange", err)
			}
		})
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		start, end, want int
	}{
		{1, 1, 1},
		{1, 50, 50},
		{3, 7, 5},
		{0, 7, 0},
		{7, 3, 0},
	}

	for _, tt := range tests {
		if got := Count(tt.start, tt.end); got != tt.want {
			t.Errorf("Count(%d, %d) = %d, want %d", tt.start, tt.end, got, tt.want)
		}
	}
}

func TestGenerate(t *testing.T) {
	pages, err := Generate("https://housinganywhere.com/s/Berlin--Germany", 2, 4)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	want := []PageURL{
		{Number: 2, URL: "https://housinganywhere.com/s/Berlin--Germany?page=2"},
		{Number: 3, URL: "https://housinganywhere.com/s/Berlin--Germany?page=3"},
		{Number: 4, URL: "https://housinganywhere.com/s/Berlin--Germany?page=4"},
	}
	if len(pages) != len(want) {
		t.Fatalf("Generate() returned %d pages, want %d", len(pages), len(want))
	}
	for i := range want {
		if pages[i] != want[i] {
			t.Errorf("pages[%d] = %+v, want %+v", i, pages[i], want[i])
		}
	}
}

func TestGenerateKeepsExistingQuery(t *testing.T) {
	pages, err := Generate("https://example.com/s/Berlin?page=9&sort=price", 1, 1)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if got, want := pages[0].URL, "https://example.com/s/Berlin?page=1&sort=price"; got != want {
		t.Errorf("URL = %q, want %q", got, want)
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		start   int
		end     int
		isRange bool
	}{
		{"zero start", "https://example.com", 0, 1, true},
		{"inverted", "https://example.com", 3, 1, true},
		{"relative url", "/s/Berlin", 1, 1, false},
		{"unparsable url", "://bad", 1, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages, err := Generate(tt.baseURL, tt.start, tt.end)
			if err == nil {
				t.Fatalf("Generate() expected error, got %d pages", len(pages))
			}
			if pages != nil {
				t.Errorf("Generate() pages = %v, want nil", pages)
			}
			if errors.Is(err, ErrInvalidRange) != tt.isRange {
				t.Errorf("errors.Is(ErrInvalidRange) = %v, want %v", errors.Is(err, ErrInvalidRange), tt.isRange)
			}
		})
	}
}

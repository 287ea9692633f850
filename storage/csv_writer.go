package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"housing-scraper/models"
)

// CSVWriter saves a table to a CSV file.
// The first column is an unnamed row index, the way a data frame is exported.
type CSVWriter struct {
	path string
}

// NewCSVWriter creates a writer for path
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Path returns the output file path
func (w *CSVWriter) Path() string {
	return w.path
}

// Write saves the table, creating the output directory if needed and
// overwriting any existing file.
func (w *CSVWriter) Write(table models.Table) error {
	if dir := filepath.Dir(w.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create output dir: %w", err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("could not create file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	header := append([]string{""}, table.Columns...)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	for i, row := range table.Rows {
		record := make([]string, 0, len(row)+1)
		record = append(record, strconv.Itoa(i))
		record = append(record, row...)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("csv write error: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}

	return file.Close()
}

// Read loads a file written by Write, dropping the index column
func (w *CSVWriter) Read() (models.Table, error) {
	file, err := os.Open(w.path)
	if err != nil {
		return models.Table{}, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return models.Table{}, fmt.Errorf("csv read error: %w", err)
	}
	if len(records) == 0 {
		return models.Table{}, fmt.Errorf("csv file %s has no header", w.path)
	}

	table := models.Table{Columns: records[0][1:]}
	for _, record := range records[1:] {
		table.Rows = append(table.Rows, record[1:])
	}
	return table, nil
}

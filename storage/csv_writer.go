package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"flowerstore-directory/models"
)

// CSVWriter writes rows under a fixed header to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
	rows   int
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string, header []string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// NewScrapeCSVWriter opens a writer with the scrape tool's artifact header.
func NewScrapeCSVWriter(path string) (*CSVWriter, error) {
	return NewCSVWriter(path, models.ScrapeHeader)
}

// NewTaggedCSVWriter opens a writer with the tagger's output header.
func NewTaggedCSVWriter(path string) (*CSVWriter, error) {
	return NewCSVWriter(path, models.TaggedHeader)
}

// WriteScraped appends scraped places.
func (c *CSVWriter) WriteScraped(places []*models.ScrapedPlace) error {
	rows := make([][]string, len(places))
	for i, p := range places {
		rows[i] = p.Row()
	}
	return c.WriteRows(rows)
}

// WriteTagged appends tagged rows.
func (c *CSVWriter) WriteTagged(tagged []*models.TaggedRow) error {
	rows := make([][]string, len(tagged))
	for i, t := range tagged {
		rows[i] = t.Row()
	}
	return c.WriteRows(rows)
}

// WriteRows appends raw rows and flushes.
func (c *CSVWriter) WriteRows(rows [][]string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, row := range rows {
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
		c.rows++
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Rows returns how many data rows have been written.
func (c *CSVWriter) Rows() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.rows
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writer.Flush()
	return c.file.Close()
}

package storage

import (
	"context"

	"flowerstore-directory/models"
)

// StoreWriter is the interface any publish target must satisfy.
type StoreWriter interface {
	Write(ctx context.Context, stores []*models.Store) error
	Close() error
}

// ScrapeWriter is the interface for persisting unprocessed scraped places.
type ScrapeWriter interface {
	WriteScraped(places []*models.ScrapedPlace) error
	Close() error
}

var (
	_ StoreWriter  = (*PostgresWriter)(nil)
	_ ScrapeWriter = (*CSVWriter)(nil)
)

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"flowerstore-directory/models"
	"flowerstore-directory/utils"
)

const storeColumns = 9

// PostgresWriter publishes normalized stores to PostgreSQL.
type PostgresWriter struct {
	db *sql.DB
}

// NewPostgresWriter opens a connection, pings it under the retry policy,
// runs schema migrations, and returns a ready-to-use PostgresWriter.
func NewPostgresWriter(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresWriter, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres-ping", func() error { return db.PingContext(ctx) }); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}

	pw := &PostgresWriter{db: db}
	if err := pw.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return pw, nil
}

func (pw *PostgresWriter) migrate(ctx context.Context) error {
	_, err := pw.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS flower_stores (
			id        INTEGER      PRIMARY KEY,
			name      TEXT         NOT NULL,
			rating    NUMERIC(4,2) NOT NULL DEFAULT 0,
			reviews   INTEGER      NOT NULL DEFAULT 0,
			address   TEXT         NOT NULL DEFAULT '',
			phone     TEXT         NOT NULL DEFAULT '',
			map_url   TEXT         NOT NULL DEFAULT '#',
			image_url TEXT         NOT NULL DEFAULT '',
			district  TEXT         NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_flower_stores_district ON flower_stores(district);
		CREATE INDEX IF NOT EXISTS idx_flower_stores_rating   ON flower_stores(rating);
	`)
	return err
}

// Write replaces the table contents with stores inside one transaction.
func (pw *PostgresWriter) Write(ctx context.Context, stores []*models.Store) error {
	if len(stores) == 0 {
		return nil
	}

	tx, err := pw.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("postgres: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM flower_stores"); err != nil {
		return fmt.Errorf("postgres: clear: %w", err)
	}

	const batchSize = 50
	for i := 0; i < len(stores); i += batchSize {
		end := i + batchSize
		if end > len(stores) {
			end = len(stores)
		}
		query, args := insertBatch(stores[i:end])
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("postgres: insert batch at %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("postgres: commit: %w", err)
	}
	return nil
}

// insertBatch builds a multi-row INSERT for batch.
func insertBatch(batch []*models.Store) (string, []any) {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*storeColumns)

	for idx, s := range batch {
		base := idx * storeColumns
		placeholders := make([]string, storeColumns)
		for c := range placeholders {
			placeholders[c] = fmt.Sprintf("$%d", base+c+1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(placeholders, ",")+")")
		valueArgs = append(valueArgs,
			s.ID, s.Name, s.Rating, s.Reviews, s.Address, s.Phone, s.MapURL, s.ImageURL, s.District)
	}

	query := fmt.Sprintf(`
		INSERT INTO flower_stores (id, name, rating, reviews, address, phone, map_url, image_url, district)
		VALUES %s
		ON CONFLICT (id) DO NOTHING
	`, strings.Join(valueStrings, ","))
	return query, valueArgs
}

func (pw *PostgresWriter) Close() error {
	return pw.db.Close()
}

// FetchAll retrieves all stored stores in id order.
func (pw *PostgresWriter) FetchAll(ctx context.Context) ([]*models.Store, error) {
	rows, err := pw.db.QueryContext(ctx, `
		SELECT id, name, rating, reviews, address, phone, map_url, image_url, district
		FROM flower_stores
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch all: %w", err)
	}
	defer rows.Close()

	var stores []*models.Store
	for rows.Next() {
		s := &models.Store{}
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Rating, &s.Reviews, &s.Address,
			&s.Phone, &s.MapURL, &s.ImageURL, &s.District,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		stores = append(stores, s)
	}
	return stores, rows.Err()
}

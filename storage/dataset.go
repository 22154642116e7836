package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"flowerstore-directory/models"
)

// DatasetLoader performs the single load of the dataset JSON, from a local
// path or an http(s) URL.
type DatasetLoader struct {
	Source string
	Client *http.Client
}

// LoadResult is the outcome of an asynchronous load.
type LoadResult struct {
	Records []models.RawRecord
	Err     error
}

// NewDatasetLoader creates a loader for source.
func NewDatasetLoader(source string) *DatasetLoader {
	return &DatasetLoader{Source: source, Client: http.DefaultClient}
}

// Start runs Load in the background. The channel receives exactly one
// result and is then closed.
func (l *DatasetLoader) Start(ctx context.Context) <-chan LoadResult {
	ch := make(chan LoadResult, 1)
	go func() {
		defer close(ch)
		records, err := l.Load(ctx)
		ch <- LoadResult{Records: records, Err: err}
	}()
	return ch
}

// Load reads and decodes the dataset. Entries that are not JSON objects
// come back as nil records so the normalizer drops them.
func (l *DatasetLoader) Load(ctx context.Context) ([]models.RawRecord, error) {
	body, err := l.open(ctx)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	return DecodeDataset(body)
}

// DecodeDataset decodes a JSON array of raw records. An empty array is a
// valid, empty dataset.
func DecodeDataset(r io.Reader) ([]models.RawRecord, error) {
	var entries []json.RawMessage
	if err := json.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("dataset: decode: %w", err)
	}

	records := make([]models.RawRecord, len(entries))
	for i, e := range entries {
		trimmed := bytes.TrimSpace(e)
		if len(trimmed) == 0 || trimmed[0] != '{' {
			continue
		}
		var rec models.RawRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			continue
		}
		records[i] = rec
	}
	return records, nil
}

func (l *DatasetLoader) open(ctx context.Context) (io.ReadCloser, error) {
	if !isRemote(l.Source) {
		f, err := os.Open(l.Source)
		if err != nil {
			return nil, fmt.Errorf("dataset: open %q: %w", l.Source, err)
		}
		return f, nil
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.Source, nil)
	if err != nil {
		return nil, fmt.Errorf("dataset: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("dataset: fetch %s: %w", l.Source, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("dataset: fetch %s: unexpected status %s", l.Source, resp.Status)
	}
	return resp.Body, nil
}

func isRemote(source string) bool {
	s := strings.ToLower(source)
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// WriteDataset writes v as pretty-printed JSON to path, creating the
// directory if needed.
func WriteDataset(path string, v any) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("dataset: create output dir: %w", err)
		}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("dataset: encode: %w", err)
	}

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("dataset: write %q: %w", path, err)
	}
	return nil
}

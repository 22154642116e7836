package storage

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// ErrSourceNotFound is returned when the CSV to convert does not exist.
var ErrSourceNotFound = errors.New("source file not found")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVTable is a header row plus data rows, as read from disk.
type CSVTable struct {
	Header []string
	Rows   [][]string
}

// Get returns the value in row under the given header, or "".
// With duplicate headers the first non-empty value wins.
func (t *CSVTable) Get(row []string, header string) string {
	for i, h := range t.Header {
		if h != header || i >= len(row) {
			continue
		}
		if v := strings.TrimSpace(row[i]); v != "" {
			return v
		}
	}
	return ""
}

// ReadCSV opens path and parses it, detecting ';' or ',' from the header line.
func ReadCSV(path string) (*CSVTable, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("csv: %w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	return ParseCSV(f)
}

// ParseCSV reads an RFC 4180 document with a header row.
func ParseCSV(r io.Reader) (*CSVTable, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(4096)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("csv: peek header: %w", err)
	}

	hasBOM := bytes.HasPrefix(head, utf8BOM)
	if hasBOM {
		head = head[len(utf8BOM):]
	}
	comma := DetectDelimiter(head)
	if hasBOM {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &CSVTable{}, nil
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}
	for i, h := range header {
		header[i] = strings.TrimSpace(h)
	}

	table := &CSVTable{Header: header}
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read row %d: %w", len(table.Rows)+2, err)
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// DetectDelimiter counts ';' and ',' outside quotes on the first line and
// returns the more frequent one, defaulting to ','.
func DetectDelimiter(sample []byte) rune {
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		sample = sample[:i]
	}

	inQuotes := false
	commas, semis := 0, 0
	for _, b := range sample {
		switch b {
		case '"':
			inQuotes = !inQuotes
		case ',':
			if !inQuotes {
				commas++
			}
		case ';':
			if !inQuotes {
				semis++
			}
		}
	}
	if semis > commas {
		return ';'
	}
	return ','
}

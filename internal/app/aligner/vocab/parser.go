// Package vocab reads and writes tab-separated vocabulary lists.
// Pure I/O: file paths or streams in, domain structs out. No database dependencies.
package vocab

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/evrys/hayauchi/internal/domain"
)

// minFields is the number of columns a vocabulary row must carry:
// orthography, reading, romaji, meaning.
const minFields = 4

// Stats summarises a parse. TotalLines counts records read, header included;
// the csv reader drops fully empty lines before they are counted.
type Stats struct {
	TotalLines int
	Entries    int
	Blank      int
	Malformed  int
}

// Parse reads the vocabulary file at path.
func Parse(path string) ([]domain.VocabEntry, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("open vocab file: %w", err)
	}
	defer f.Close()

	entries, stats, err := parse(f)
	if err != nil {
		return nil, stats, fmt.Errorf("parse vocab %s: %w", path, err)
	}
	return entries, stats, nil
}

// parse reads a tab-separated vocabulary list. The first row is a header and
// is skipped. Rows with fewer than four fields are counted as malformed.
// Line numbers are 1-based and count the header. The Japanese columns are
// normalised; romaji and meaning are only trimmed.
func parse(r io.Reader) ([]domain.VocabEntry, Stats, error) {
	reader := newReader(r)

	var stats Stats

	// Skip header row.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, nil
		}
		return nil, stats, fmt.Errorf("read header: %w", err)
	}
	stats.TotalLines++

	var entries []domain.VocabEntry
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, stats, fmt.Errorf("read row: %w", err)
		}
		stats.TotalLines++
		line, _ := reader.FieldPos(0)

		if isBlank(record) {
			stats.Blank++
			continue
		}
		if len(record) < minFields {
			stats.Malformed++
			continue
		}

		entries = append(entries, domain.VocabEntry{
			Line:        line,
			Orthography: domain.NormalizeText(record[0]),
			Reading:     domain.NormalizeText(record[1]),
			Romaji:      strings.TrimSpace(record[2]),
			Meaning:     strings.TrimSpace(record[3]),
		})
	}

	stats.Entries = len(entries)
	return entries, stats, nil
}

func newReader(r io.Reader) *csv.Reader {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // allow variable column count
	reader.ReuseRecord = true
	return reader
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

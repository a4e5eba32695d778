package vocab

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/evrys/hayauchi/internal/domain"
)

// Header is the column layout of an aligned vocabulary file.
var Header = []string{"Kanji", "Furigana", "Romaji", "Meaning"}

// RubyHeader names the optional bracket-notation column.
const RubyHeader = "Ruby"

// Writer writes aligned vocabulary rows as TSV.
type Writer struct {
	w      *csv.Writer
	ruby   bool
	header bool
}

// NewWriter returns a Writer on w. When ruby is set, every row carries a
// fifth column with the bracket rendering.
func NewWriter(w io.Writer, ruby bool) *Writer {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	return &Writer{w: cw, ruby: ruby}
}

// Write emits one aligned row, writing the header first if needed.
func (w *Writer) Write(a domain.Alignment) error {
	if !w.header {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}

	record := []string{a.SegmentedOrthography, a.SegmentedReading, a.Romaji, a.Meaning}
	if w.ruby {
		record = append(record, a.Furigana)
	}
	if err := w.w.Write(record); err != nil {
		return fmt.Errorf("write row: %w", err)
	}
	return nil
}

// WriteAll emits the header and every row, then flushes.
func (w *Writer) WriteAll(alignments []domain.Alignment) error {
	if !w.header {
		if err := w.writeHeader(); err != nil {
			return err
		}
	}
	for i := range alignments {
		if err := w.Write(alignments[i]); err != nil {
			return err
		}
	}
	return w.Flush()
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	w.w.Flush()
	if err := w.w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

func (w *Writer) writeHeader() error {
	header := Header
	if w.ruby {
		header = append(append([]string(nil), Header...), RubyHeader)
	}
	if err := w.w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	w.header = true
	return nil
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// VocabEntry is one row of a vocabulary list.
type VocabEntry struct {
	Line        int
	Orthography string
	Reading     string
	Romaji      string
	Meaning     string
}

// Validate checks that the fields needed for alignment are present.
func (e VocabEntry) Validate() error {
	var errs []FieldError
	if e.Orthography == "" {
		errs = append(errs, FieldError{Field: "orthography", Message: "required"})
	}
	if e.Reading == "" {
		errs = append(errs, FieldError{Field: "reading", Message: "required"})
	}
	return NewValidationError(errs...)
}

// Alignment is a segmented vocabulary entry as stored.
// SegmentedOrthography and SegmentedReading hold the segment sides joined
// by a single space; Furigana holds the bracket rendering.
type Alignment struct {
	ID                   uuid.UUID
	RunID                uuid.UUID
	Orthography          string
	Reading              string
	Romaji               string
	Meaning              string
	SegmentedOrthography string
	SegmentedReading     string
	Furigana             string
	SegmentCount         int
	CreatedAt            time.Time
}

// AlignmentRun records one batch execution over a vocabulary file.
type AlignmentRun struct {
	ID         uuid.UUID
	InputPath  string
	Total      int
	Aligned    int
	Skipped    int
	StartedAt  time.Time
	FinishedAt *time.Time
}

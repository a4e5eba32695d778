// Package align pairs the characters of an orthographic spelling with the
// reading that spells it out, grouping each run of logographs with the span
// of the reading it stands for.
//
// Build scores every pair of suffixes of the two sequences; Compute walks
// the scores from the head of both sequences and merges the resulting
// character pairs into segments.
package align

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Boundary is the header character of the sentinel row and column.
const Boundary = '#'

// Scoring constants of the recurrence.
const (
	matchBonus = 2
	gapPenalty = 1
)

var (
	// ErrInvalidInput is returned for inputs outside the aligner's
	// preconditions: a source longer than its target, or an empty sequence
	// where a path is requested.
	ErrInvalidInput = errors.New("invalid alignment input")

	// ErrSourceExhausted is returned when the backtrace consumes every source
	// character before the target is covered.
	ErrSourceExhausted = errors.New("source exhausted before target")
)

// Matrix is the scoring table for one (source, target) pair.
//
// Rows are indexed by target position j and columns by source position i,
// both 1-based for characters. Index 0 and the last index (M+1 / N+1) are
// the boundary: Score there holds the gap ramp, SourceAt/TargetAt return
// Boundary. Cell (j, i) is the best score for aligning source[i-1:] with
// target[j-1:].
type Matrix struct {
	source []rune
	target []rune
	cols   int
	cells  []int
}

// Build fills the scoring matrix for source against target, back to front.
// The source must not be longer than the target. An empty source is allowed
// and yields a matrix holding only the boundary ramp.
func Build(source, target []rune) (*Matrix, error) {
	n, m := len(source), len(target)
	if n > m {
		return nil, fmt.Errorf("build matrix: source length %d exceeds target length %d: %w", n, m, ErrInvalidInput)
	}

	mat := &Matrix{
		source: append([]rune(nil), source...),
		target: append([]rune(nil), target...),
		cols:   n + 2,
		cells:  make([]int, (m+2)*(n+2)),
	}

	// Gap ramp: a suffix aligned against nothing costs one per character.
	for i := 1; i <= n; i++ {
		mat.set(m+1, i, -(n - i + 1))
	}
	for j := 1; j <= m; j++ {
		mat.set(j, n+1, -(m - j + 1))
	}
	mat.set(m+1, n+1, 0)

	for i := n; i > 0; i-- {
		for j := m; j > 0; j-- {
			match := 0
			if source[i-1] == target[j-1] {
				match = matchBonus
			}
			mat.set(j, i, max(
				mat.at(j+1, i+1)+match,
				mat.at(j, i+1)-gapPenalty,
				mat.at(j+1, i)-gapPenalty,
			))
		}
	}

	return mat, nil
}

// SourceLen returns N.
func (m *Matrix) SourceLen() int { return len(m.source) }

// TargetLen returns M.
func (m *Matrix) TargetLen() int { return len(m.target) }

// Score returns the cell at target row j and source column i.
// Valid indexes are 1..M+1 and 1..N+1; anything else panics like an
// out-of-range slice access.
func (m *Matrix) Score(targetIndex, sourceIndex int) int {
	if targetIndex < 1 || targetIndex > len(m.target)+1 || sourceIndex < 1 || sourceIndex > len(m.source)+1 {
		panic(fmt.Sprintf("align: score index (%d, %d) out of range [1..%d, 1..%d]",
			targetIndex, sourceIndex, len(m.target)+1, len(m.source)+1))
	}
	return m.at(targetIndex, sourceIndex)
}

// SourceAt returns the source header character of column i (1-based).
// Column 0 and column N+1 hold Boundary.
func (m *Matrix) SourceAt(i int) rune {
	if i < 1 || i > len(m.source) {
		return Boundary
	}
	return m.source[i-1]
}

// TargetAt returns the target header character of row j (1-based).
// Row 0 and row M+1 hold Boundary.
func (m *Matrix) TargetAt(j int) rune {
	if j < 1 || j > len(m.target) {
		return Boundary
	}
	return m.target[j-1]
}

// String renders the table with its headers, one row per line, cells
// separated by tabs. Intended for debug logging.
func (m *Matrix) String() string {
	var b strings.Builder
	rows := len(m.target) + 2

	b.WriteRune(Boundary)
	for i := 1; i <= len(m.source)+1; i++ {
		b.WriteByte('\t')
		b.WriteRune(m.SourceAt(i))
	}
	for j := 1; j < rows; j++ {
		b.WriteByte('\n')
		b.WriteRune(m.TargetAt(j))
		for i := 1; i < m.cols; i++ {
			b.WriteByte('\t')
			b.WriteString(strconv.Itoa(m.at(j, i)))
		}
	}
	return b.String()
}

func (m *Matrix) at(j, i int) int {
	return m.cells[j*m.cols+i]
}

func (m *Matrix) set(j, i, v int) {
	m.cells[j*m.cols+i] = v
}

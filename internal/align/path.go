package align

import "fmt"

// Pair is one step of the alignment path: the source and target characters
// under the cursors when the step was taken.
type Pair struct {
	Source rune
	Target rune
}

// Path walks the matrix from its head corner and returns exactly
// TargetLen() pairs.
//
// Equal characters are paired and both cursors advance without consulting
// the scores. Otherwise the cursor moves toward the best neighbour: target
// only when that cell beats both others, source only when it beats the
// diagonal, and diagonally on any tie. A cursor that does not move keeps
// its character for the next pair.
func Path(m *Matrix) ([]Pair, error) {
	n, steps := m.SourceLen(), m.TargetLen()
	path := make([]Pair, 0, steps)

	i, j := 1, 1
	for step := 0; step < steps; step++ {
		if i > n {
			return nil, fmt.Errorf("path step %d of %d at target %q: %w", step+1, steps, m.TargetAt(j), ErrSourceExhausted)
		}

		s, t := m.SourceAt(i), m.TargetAt(j)
		path = append(path, Pair{Source: s, Target: t})

		if s == t {
			i++
			j++
			continue
		}

		down := m.Score(j+1, i)
		right := m.Score(j, i+1)
		diag := m.Score(j+1, i+1)
		switch {
		case down > max(right, diag):
			j++
		case right > diag:
			i++
		default:
			i++
			j++
		}
	}

	return path, nil
}

package align

import (
	"strings"

	"github.com/evrys/hayauchi/internal/kana"
)

// Segment pairs a span of the orthographic spelling with the span of the
// reading it stands for. A phonetic character is its own segment.
type Segment struct {
	Source string
	Target string
}

// Segments is an alignment in reading order.
type Segments []Segment

// Split merges consecutive pairs whose source is a logograph into one
// segment and keeps each phonetic pair as a singleton.
//
// Within a run the source side skips a character equal to the one just
// added (the same logograph paired with several readings); the target side
// takes every character.
func Split(path []Pair) Segments {
	var out Segments

	for i := 0; i < len(path); {
		var src, tgt strings.Builder
		var last rune
		run := false

		for i < len(path) && !kana.IsPhonetic(path[i].Source) {
			if !run || path[i].Source != last {
				src.WriteRune(path[i].Source)
				last = path[i].Source
			}
			tgt.WriteRune(path[i].Target)
			run = true
			i++
		}
		if run {
			out = append(out, Segment{Source: src.String(), Target: tgt.String()})
		}

		if i < len(path) {
			out = append(out, Segment{Source: string(path[i].Source), Target: string(path[i].Target)})
			i++
		}
	}

	return out
}

// Compute extracts the path of m and segments it.
func Compute(m *Matrix) (Segments, error) {
	path, err := Path(m)
	if err != nil {
		return nil, err
	}
	return Split(path), nil
}

package align

import (
	"fmt"
	"strings"

	"github.com/evrys/hayauchi/internal/kana"
)

// Align segments the orthographic spelling source against its reading
// target. Both must be non-empty and source must not have more characters
// than target.
func Align(source, target string) (Segments, error) {
	if source == "" || target == "" {
		return nil, fmt.Errorf("align %q/%q: empty sequence: %w", source, target, ErrInvalidInput)
	}

	m, err := Build([]rune(source), []rune(target))
	if err != nil {
		return nil, fmt.Errorf("align %q/%q: %w", source, target, err)
	}

	segs, err := Compute(m)
	if err != nil {
		return nil, fmt.Errorf("align %q/%q: %w", source, target, err)
	}
	return segs, nil
}

// Sources returns the orthographic side of every segment.
func (s Segments) Sources() []string {
	out := make([]string, len(s))
	for i, seg := range s {
		out[i] = seg.Source
	}
	return out
}

// Targets returns the reading side of every segment.
func (s Segments) Targets() []string {
	out := make([]string, len(s))
	for i, seg := range s {
		out[i] = seg.Target
	}
	return out
}

// SourceText joins the orthographic sides with sep.
func (s Segments) SourceText(sep string) string {
	return strings.Join(s.Sources(), sep)
}

// TargetText joins the reading sides with sep.
func (s Segments) TargetText(sep string) string {
	return strings.Join(s.Targets(), sep)
}

// Reconstructs reports whether the segments concatenate back to exactly
// source on one side and target on the other.
func (s Segments) Reconstructs(source, target string) bool {
	return s.SourceText("") == source && s.TargetText("") == target
}

// Compact merges neighbouring pass-through segments (phonetic characters
// paired with themselves) into one, so お兄さん yields お / 兄 / さん.
// Logograph segments are left as they are.
func (s Segments) Compact() Segments {
	out := make(Segments, 0, len(s))
	for _, seg := range s {
		if n := len(out); n > 0 && passThrough(seg) && passThrough(out[n-1]) {
			out[n-1].Source += seg.Source
			out[n-1].Target += seg.Target
			continue
		}
		out = append(out, seg)
	}
	return out
}

// Furigana renders the segments in bracket notation: every segment whose
// reading differs from its spelling is written as spelling[reading], set off
// by a space from whatever precedes it.
//
//	可愛[かわい]い
//	買[か]い 物[もの]
func (s Segments) Furigana() string {
	var b strings.Builder
	for _, seg := range s {
		if seg.Source == seg.Target {
			b.WriteString(seg.Source)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(seg.Source)
		b.WriteByte('[')
		b.WriteString(seg.Target)
		b.WriteByte(']')
	}
	return b.String()
}

func passThrough(seg Segment) bool {
	return seg.Source == seg.Target && kana.IsPhoneticString(seg.Source)
}

package vocab

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evrys/hayauchi/internal/domain"
)

func sampleAlignments() []domain.Alignment {
	return []domain.Alignment{
		{
			Orthography:          "食べる",
			Reading:              "たべる",
			Romaji:               "taberu",
			Meaning:              "to eat",
			SegmentedOrthography: "食 べ る",
			SegmentedReading:     "た べ る",
			Furigana:             "食[た]べる",
		},
		{
			Orthography:          "先生",
			Reading:              "せんせい",
			Romaji:               "sensei",
			Meaning:              "teacher",
			SegmentedOrthography: "先生",
			SegmentedReading:     "せんせい",
			Furigana:             "先生[せんせい]",
		},
	}
}

func TestWriter_WriteAll(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	require.NoError(t, w.WriteAll(sampleAlignments()))

	want := "Kanji\tFurigana\tRomaji\tMeaning\n" +
		"食 べ る\tた べ る\ttaberu\tto eat\n" +
		"先生\tせんせい\tsensei\tteacher\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_RubyColumn(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, true)

	require.NoError(t, w.WriteAll(sampleAlignments()[:1]))

	want := "Kanji\tFurigana\tRomaji\tMeaning\tRuby\n" +
		"食 べ る\tた べ る\ttaberu\tto eat\t食[た]べる\n"
	assert.Equal(t, want, buf.String())
}

func TestWriter_HeaderOnlyOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	for _, a := range sampleAlignments() {
		require.NoError(t, w.Write(a))
	}
	require.NoError(t, w.Flush())

	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Kanji\t")))
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestWriter_EmptyWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, false).WriteAll(nil))
	assert.Equal(t, "Kanji\tFurigana\tRomaji\tMeaning\n", buf.String())
}

func TestWriter_QuotesSpecialFields(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, false)

	a := sampleAlignments()[0]
	a.Meaning = `to "eat"`
	require.NoError(t, w.WriteAll([]domain.Alignment{a}))

	assert.Contains(t, buf.String(), "\t\"to \"\"eat\"\"\"\n")
}

func TestWriter_RoundTripThroughParser(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewWriter(&buf, false).WriteAll(sampleAlignments()))

	entries, stats, err := parse(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, "食 べ る", entries[0].Orthography)
	assert.Equal(t, "た べ る", entries[0].Reading)
	assert.Equal(t, "to eat", entries[0].Meaning)
}

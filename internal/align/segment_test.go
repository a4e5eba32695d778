package align

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// vocabulary used by the property tests; every pair aligns cleanly.
var words = [][2]string{
	{"食べる", "たべる"},
	{"大きい", "おおきい"},
	{"山", "やまだ"},
	{"お兄さん", "おにいさん"},
	{"可愛い", "かわいい"},
	{"一人", "ひとり"},
	{"大人", "おとな"},
	{"今日", "きょう"},
	{"先生", "せんせい"},
	{"食べ物", "たべもの"},
	{"勉強する", "べんきょうする"},
	{"静か", "しずか"},
	{"お茶", "おちゃ"},
	{"上手", "じょうず"},
	{"毎日", "まいにち"},
	{"買い物", "かいもの"},
	{"引き出し", "ひきだし"},
	{"持って", "もって"},
	{"たべる", "たべる"},
	{"ありがとう", "ありがとう"},
}

func mustPath(t *testing.T, source, target string) []Pair {
	t.Helper()
	m, err := Build([]rune(source), []rune(target))
	require.NoError(t, err)
	path, err := Path(m)
	require.NoError(t, err)
	return path
}

func TestPath_RepeatsSourceWhileTargetAdvances(t *testing.T) {
	got := mustPath(t, "大きい", "おおきい")
	want := []Pair{{'大', 'お'}, {'大', 'お'}, {'き', 'き'}, {'い', 'い'}}
	assert.Equal(t, want, got)

	got = mustPath(t, "勉強する", "べんきょうする")
	want = []Pair{
		{'勉', 'べ'}, {'勉', 'ん'}, {'勉', 'き'}, {'勉', 'ょ'},
		{'強', 'う'}, {'す', 'す'}, {'る', 'る'},
	}
	assert.Equal(t, want, got)
}

func TestPath_IdentityShortcut(t *testing.T) {
	got := mustPath(t, "たべる", "たべる")
	assert.Equal(t, []Pair{{'た', 'た'}, {'べ', 'べ'}, {'る', 'る'}}, got)
}

func TestPath_TargetAdvanceThenIdentity(t *testing.T) {
	// The source cursor stays on あ while the target moves past い, so the
	// same source character is paired twice.
	got := mustPath(t, "あ", "いあ")
	assert.Equal(t, []Pair{{'あ', 'い'}, {'あ', 'あ'}}, got)
}

func TestPath_LengthAndOrder(t *testing.T) {
	for _, w := range words {
		t.Run(w[0], func(t *testing.T) {
			path := mustPath(t, w[0], w[1])
			target := []rune(w[1])
			require.Len(t, path, len(target))

			// Every source character shows up, in order, without transpositions.
			source := []rune(w[0])
			k := 0
			for _, p := range path {
				if k < len(source) && p.Source == source[k] {
					k++
				}
			}
			assert.Equal(t, len(source), k, "source characters missing from path")

			for j, p := range path {
				assert.Equal(t, target[j], p.Target, "target position %d", j)
			}
		})
	}
}

func TestPath_SourceExhausted(t *testing.T) {
	tests := []struct {
		name   string
		source string
		target string
	}{
		{"kana prefix", "たべ", "たべる"},
		{"empty source", "", "たべ"},
		{"early match", "か", "あいかかきう"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Build([]rune(tt.source), []rune(tt.target))
			require.NoError(t, err)

			_, err = Path(m)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSourceExhausted))
		})
	}
}

func TestPath_EmptyBoth(t *testing.T) {
	m, err := Build(nil, nil)
	require.NoError(t, err)

	path, err := Path(m)
	require.NoError(t, err)
	assert.Empty(t, path)
}

func TestCompute_Scenarios(t *testing.T) {
	tests := []struct {
		source string
		target string
		want   Segments
	}{
		{"食べる", "たべる", Segments{{"食", "た"}, {"べ", "べ"}, {"る", "る"}}},
		{"大きい", "おおきい", Segments{{"大", "おお"}, {"き", "き"}, {"い", "い"}}},
		{"たべる", "たべる", Segments{{"た", "た"}, {"べ", "べ"}, {"る", "る"}}},
		{"山", "やまだ", Segments{{"山", "やまだ"}}},
		{"お兄さん", "おにいさん", Segments{{"お", "お"}, {"兄", "にい"}, {"さ", "さ"}, {"ん", "ん"}}},
		{"可愛い", "かわいい", Segments{{"可愛", "かわい"}, {"い", "い"}}},
		{"先生", "せんせい", Segments{{"先生", "せんせい"}}},
		{"食べ物", "たべもの", Segments{{"食", "た"}, {"べ", "べ"}, {"物", "もの"}}},
		{"お茶", "おちゃ", Segments{{"お", "お"}, {"茶", "ちゃ"}}},
		{"持って", "もって", Segments{{"持っ", "もっ"}, {"て", "て"}}},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			m, err := Build([]rune(tt.source), []rune(tt.target))
			require.NoError(t, err)

			got, err := Compute(m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompute_RoundTrip(t *testing.T) {
	for _, w := range words {
		t.Run(w[0], func(t *testing.T) {
			segs, err := Align(w[0], w[1])
			require.NoError(t, err)
			assert.True(t, segs.Reconstructs(w[0], w[1]), "segments %v", segs)
		})
	}
}

func TestCompute_PhoneticPassthrough(t *testing.T) {
	for _, w := range []string{"たべる", "ありがとう", "がんばる"} {
		segs, err := Align(w, w)
		require.NoError(t, err)

		runes := []rune(w)
		require.Len(t, segs, len(runes))
		for i, seg := range segs {
			assert.Equal(t, string(runes[i]), seg.Source)
			assert.Equal(t, string(runes[i]), seg.Target)
		}
	}
}

func TestSplit_DeduplicatesRepeatedLogograph(t *testing.T) {
	path := []Pair{{'人', 'ひ'}, {'人', 'と'}, {'人', 'び'}, {'と', 'と'}}
	got := Split(path)
	assert.Equal(t, Segments{{"人", "ひとび"}, {"と", "と"}}, got)
}

func TestSplit_AdjacentDistinctLogographsMerge(t *testing.T) {
	path := []Pair{{'一', 'ひ'}, {'一', 'と'}, {'人', 'り'}}
	assert.Equal(t, Segments{{"一人", "ひとり"}}, Split(path))
}

func TestSplit_Empty(t *testing.T) {
	assert.Empty(t, Split(nil))
}

func TestSplit_MismatchedKanaStaysSingleton(t *testing.T) {
	path := []Pair{{'あ', 'い'}, {'あ', 'あ'}}
	got := Split(path)
	assert.Equal(t, Segments{{"あ", "い"}, {"あ", "あ"}}, got)
	assert.False(t, got.Reconstructs("あ", "いあ"))
}

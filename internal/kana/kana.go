// Package kana holds the closed hiragana inventory used to tell phonetic
// characters apart from logographic ones.
package kana

import (
	"slices"
	"strings"
)

// Inventory rows: base syllables, voiced (dakuten), semi-voiced (handakuten)
// and the small vowels. Small ya/yu/yo and the small tsu are not phonetic
// here; in an orthographic spelling they are grouped like logographs.
var inventory = []string{
	"あいうえお",
	"かきくけこ",
	"さしすせそ",
	"たちつてと",
	"なにぬねの",
	"はひふへほ",
	"まみむめも",
	"やゆよ",
	"らりるれろ",
	"わゐゑを",
	"ん",
	"がぎぐげご",
	"ざじずぜぞ",
	"だぢづでど",
	"ばびぶべぼ",
	"ぱぴぷぺぽ",
	"ぁぃぅぇぉ",
}

// phonetic indexes every rune of inventory. Built at init time.
var phonetic map[rune]struct{}

func init() {
	phonetic = make(map[rune]struct{}, 80)
	for _, row := range inventory {
		for _, r := range row {
			phonetic[r] = struct{}{}
		}
	}
}

// IsPhonetic reports whether r belongs to the phonetic inventory.
func IsPhonetic(r rune) bool {
	_, ok := phonetic[r]
	return ok
}

// IsPhoneticString reports whether s is non-empty and made only of
// phonetic characters.
func IsPhoneticString(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !IsPhonetic(r) {
			return false
		}
	}
	return true
}

// ContainsLogograph reports whether s has at least one character outside
// the phonetic inventory.
func ContainsLogograph(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !IsPhonetic(r) }) >= 0
}

// Phonetic returns the inventory in code point order.
func Phonetic() []rune {
	out := make([]rune, 0, len(phonetic))
	for r := range phonetic {
		out = append(out, r)
	}
	slices.Sort(out)
	return out
}

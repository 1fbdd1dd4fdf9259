// Package textutil holds the small text helpers the skill leans on:
// Russian numeral pluralization, case transforms, fuzzy string matching and
// randomized selection. Everything taking randomness receives an explicit
// *rand.Rand so callers can seed it in tests.
package textutil

import (
	"iter"
	"math/rand"
	"strconv"
	"strings"
	"unicode"
)

// Plural picks the word form matching num under Russian pluralization rules:
// one for 1, few for 2–4, many for 0, 5–20 and all teens. Counts above 20
// are decided by their last one or two digits.
func Plural(num int, one, few, many string) string {
	if num < 0 {
		num = 0
	}
	switch {
	case num < 10:
		if num == 1 {
			return one
		}
		if num > 1 && num < 5 {
			return few
		}
		return many
	case num <= 20:
		return many
	case num <= 99:
		return Plural(num%10, one, few, many)
	default:
		return Plural(num%100, one, few, many)
	}
}

// ToPhrase renders num together with its correctly pluralized noun,
// e.g. ToPhrase(2, "очко", "очка", "очков") == "2 очка".
func ToPhrase(num int, one, few, many string) string {
	return strconv.Itoa(num) + " " + Plural(num, one, few, many)
}

// UpperFirst capitalizes the first letter, leaving the rest untouched.
// Safe on empty strings.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// LowerFirst lowercases the first letter, leaving the rest untouched.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Capitalize normalizes free-text input (player names) to a single
// capitalized form: first letter upper, the rest lower.
func Capitalize(s string) string {
	if s == "" {
		return s
	}
	return UpperFirst(strings.ToLower(s))
}

// Levenshtein computes the classic edit distance between a and b over runes.
func Levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	cur := make([]int, len(rb)+1)
	for j := 0; j <= len(rb); j++ {
		prev[j] = j
	}
	for i := 1; i <= len(ra); i++ {
		cur[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, min(cur[j-1]+1, prev[j-1]+cost))
		}
		prev, cur = cur, prev
	}
	return prev[len(rb)]
}

// SimilarityRatio is the normalized inverse edit distance in [0, 1].
// Two empty strings have ratio 0, not 1; existing callers depend on that.
func SimilarityRatio(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 0
	}
	return 1 - float64(Levenshtein(a, b))/float64(longest)
}

// PickRandom returns a uniformly random element of items.
// Panics on an empty slice, same as indexing would.
func PickRandom[T any](rng *rand.Rand, items []T) T {
	return items[rng.Intn(len(items))]
}

// Shuffle yields the elements of items in uniformly random order without
// materializing the whole permutation up front: elements are swapped into
// place as the sequence is consumed, so taking the first k of n costs O(k).
// items itself is not modified.
func Shuffle[T any](rng *rand.Rand, items []T) iter.Seq[T] {
	return func(yield func(T) bool) {
		buf := make([]T, len(items))
		copy(buf, items)
		for i := range buf {
			j := i + rng.Intn(len(buf)-i)
			buf[i], buf[j] = buf[j], buf[i]
			if !yield(buf[i]) {
				return
			}
		}
	}
}

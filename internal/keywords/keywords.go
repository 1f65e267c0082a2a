// Package keywords extracts frequent review keywords.
//
// Extraction lowercases, deletes a fixed set of punctuation characters,
// splits on whitespace and drops short tokens and stop words. There is no
// stemming and no per-text de-duplication.
//
// Punctuation is deleted rather than replaced with a space, so "bagus,jelek"
// becomes the single token "bagusjelek".
//
// Lowercasing uses the full Unicode mapping, so "İ" becomes "i" followed by
// a combining dot and a word-final "Σ" becomes "ς". Whitespace is any Unicode
// space plus the ASCII file, group, record and unit separators.
//
// All functions are safe for concurrent use.
package keywords

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	// DefaultTopN is the number of keywords shown on the dashboard.
	DefaultTopN = 15

	minTokenRunes = 3
)

var punctuation = strings.NewReplacer(
	",", "", ".", "", "!", "", "?", "", ";", "", ":", "",
	"(", "", ")", "", "[", "", "]", "", "{", "", "}", "",
)

// Extract returns the keyword tokens of text in order of appearance.
func Extract(text string) []string {
	clean := punctuation.Replace(lower(text))
	words := strings.FieldsFunc(clean, isSpace)

	out := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < minTokenRunes {
			continue
		}
		if IsStopword(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}

func lower(s string) string {
	if !strings.ContainsAny(s, "\u0130\u03a3") {
		return strings.ToLower(s)
	}
	var b strings.Builder
	b.Grow(len(s) + 2)
	for i, r := range s {
		switch {
		case r == '\u0130':
			b.WriteString("i\u0307")
		case r == '\u03a3' && finalSigma(s, i):
			b.WriteRune('\u03c2')
		default:
			b.WriteRune(unicode.ToLower(r))
		}
	}
	return b.String()
}

// finalSigma reports whether the sigma at byte offset i ends a word: a letter
// precedes it and no letter follows.
func finalSigma(s string, i int) bool {
	prev, n := utf8.DecodeLastRuneInString(s[:i])
	if n == 0 || !unicode.IsLetter(prev) {
		return false
	}
	next, n := utf8.DecodeRuneInString(s[i+len("\u03a3"):])
	return n == 0 || !unicode.IsLetter(next)
}

// ExtractValue is Extract for loosely typed cell values. Anything that is not
// a string yields an empty slice.
func ExtractValue(v any) []string {
	switch t := v.(type) {
	case string:
		return Extract(t)
	case *string:
		if t != nil {
			return Extract(*t)
		}
	}
	return []string{}
}

// Frequency is one keyword with its occurrence count.
type Frequency struct {
	Word  string
	Count int
}

// Counter is a multiset of tokens that remembers first-seen order.
type Counter struct {
	counts map[string]int
	order  []string
}

func NewCounter() *Counter {
	return &Counter{counts: make(map[string]int)}
}

func (c *Counter) Add(tokens ...string) {
	for _, t := range tokens {
		if _, ok := c.counts[t]; !ok {
			c.order = append(c.order, t)
		}
		c.counts[t]++
	}
}

func (c *Counter) Len() int { return len(c.order) }

// Counts returns a copy of the full multiset.
func (c *Counter) Counts() map[string]int {
	out := make(map[string]int, len(c.counts))
	for k, v := range c.counts {
		out[k] = v
	}
	return out
}

// MostCommon returns up to n tokens by descending count. Ties keep the order
// in which tokens were first added. n <= 0 returns every token.
func (c *Counter) MostCommon(n int) []Frequency {
	out := make([]Frequency, 0, len(c.order))
	for _, w := range c.order {
		out = append(out, Frequency{Word: w, Count: c.counts[w]})
	}
	slices.SortStableFunc(out, func(a, b Frequency) int { return b.Count - a.Count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Top extracts keywords from every text and returns the n most common.
func Top(texts []string, n int) []Frequency {
	c := NewCounter()
	for _, t := range texts {
		c.Add(Extract(t)...)
	}
	return c.MostCommon(n)
}

package keywords

import (
	"slices"
	"strings"
	"testing"
	"unicode/utf8"
)

func FuzzExtract(f *testing.F) {
	f.Add("Sepatu ini sangat bagus dan nyaman")
	f.Add("Jelek sekali, tidak worth it")
	f.Add("")
	f.Add("a")
	f.Add("bagus,jelek")
	f.Add("\xff\xfe")
	f.Add("\x00")

	f.Fuzz(func(t *testing.T, text string) {
		a := Extract(text)
		b := Extract(text)
		if !slices.Equal(a, b) {
			t.Errorf("non-deterministic:\n  a = %q\n  b = %q", a, b)
		}
		for _, tok := range a {
			if utf8.RuneCountInString(tok) <= 2 {
				t.Errorf("short token %q", tok)
			}
			if IsStopword(tok) {
				t.Errorf("stopword %q", tok)
			}
			if strings.ContainsAny(tok, ",.!?;:()[]{}") {
				t.Errorf("punctuation left in %q", tok)
			}
		}
	})
}

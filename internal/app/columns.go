package app

import (
	"slices"
	"strings"

	"insightify/internal/domain"
)

// DefaultTextColumn is the conventional review column of uploaded files.
const DefaultTextColumn = "Ulasan"

/********** alias registry **********/

// reviewTextAliases ranks candidate columns when the default is missing.
// Earlier entries are more likely to hold review text.
var reviewTextAliases = []string{
	"ulasan", "review", "reviews", "review_text", "komentar", "comment", "comments",
	"text", "teks", "content", "isi", "body", "message", "pesan", "feedback",
}

func aliasRank(col string) int {
	norm := strings.ToLower(strings.TrimSpace(col))
	if i := slices.Index(reviewTextAliases, norm); i >= 0 {
		return i
	}
	for i, a := range reviewTextAliases {
		if strings.Contains(norm, a) {
			return len(reviewTextAliases) + i
		}
	}
	return 2 * len(reviewTextAliases)
}

// RankCandidates orders textual columns by how likely they hold review text,
// keeping header order between equals.
func RankCandidates(textual []string) []string {
	out := slices.Clone(textual)
	slices.SortStableFunc(out, func(a, b string) int { return aliasRank(a) - aliasRank(b) })
	return out
}

// ResolveColumn picks the column to analyze.
//
//   - requested set: it must exist and be textual.
//   - otherwise def is used when present.
//   - otherwise a *domain.ColumnChoiceError lists the textual candidates, or a
//     *domain.MalformedInputError reports that none exist.
func ResolveColumn(columns, textual []string, requested, def string) (string, error) {
	if def == "" {
		def = DefaultTextColumn
	}
	if requested = strings.TrimSpace(requested); requested != "" {
		if !slices.Contains(columns, requested) {
			return "", &domain.MalformedInputError{Reason: "column " + quote(requested) + " not found", Columns: columns}
		}
		if !slices.Contains(textual, requested) {
			return "", &domain.MalformedInputError{Reason: "column " + quote(requested) + " does not hold text", Columns: columns}
		}
		return requested, nil
	}
	if slices.Contains(columns, def) {
		return def, nil
	}
	if len(textual) == 0 {
		return "", &domain.MalformedInputError{
			Reason:  "column " + quote(def) + " not found and no textual column available",
			Columns: columns,
		}
	}
	return "", &domain.ColumnChoiceError{Default: def, Candidates: RankCandidates(textual)}
}

func quote(s string) string { return `"` + s + `"` }

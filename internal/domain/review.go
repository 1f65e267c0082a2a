package domain

import "strings"

// Review is one input record. Row is the zero-based data row in the source.
type Review struct {
	Row     int    `json:"row"`
	Content string `json:"content"`
}

type Label string

const (
	Positive    Label = "positive"
	Neutral     Label = "neutral"
	Negative    Label = "negative"
	LabelError  Label = "error"       // classification failed for this row
	Unavailable Label = "unavailable" // classifier could not be loaded
)

// SentimentOrder is the presentation order of the sentiment labels.
var SentimentOrder = []Label{Positive, Neutral, Negative}

// ParseLabel normalizes raw classifier output. Anything other than the three
// sentiment labels is treated as malformed.
func ParseLabel(raw string) (Label, bool) {
	switch l := Label(strings.ToLower(strings.TrimSpace(raw))); l {
	case Positive, Neutral, Negative:
		return l, true
	}
	return "", false
}

// Analyzed reports whether the label is a successful classification.
func (l Label) Analyzed() bool {
	return l == Positive || l == Neutral || l == Negative
}

type LabeledReview struct {
	Review
	Label Label `json:"label"`
}

package domain

type KeywordCount struct {
	Keyword string `json:"keyword"`
	Count   int    `json:"count"`
}

type SentimentCount struct {
	Label   Label   `json:"label"`
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// AnalysisResult is built fresh per uploaded file and never stored.
type AnalysisResult struct {
	Column      string
	Reviews     []LabeledReview // successful classifications only, input order
	Excluded    int             // rows labeled error or unavailable
	Sentiments  map[Label]int
	Keywords    map[string]int
	TopKeywords []KeywordCount
}

// Total is the number of rows that reached the classifier.
func (r AnalysisResult) Total() int { return len(r.Reviews) + r.Excluded }

// Distribution returns the present sentiment labels in presentation order with
// their share of the analyzed reviews.
func (r AnalysisResult) Distribution() []SentimentCount {
	total := 0
	for _, l := range SentimentOrder {
		total += r.Sentiments[l]
	}
	var out []SentimentCount
	if total == 0 {
		return out
	}
	for _, l := range SentimentOrder {
		n := r.Sentiments[l]
		if n == 0 {
			continue
		}
		out = append(out, SentimentCount{Label: l, Count: n, Percent: float64(n) * 100 / float64(total)})
	}
	return out
}

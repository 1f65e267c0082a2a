// Package report turns an analysis result into the JSON view served over
// HTTP and the styled terminal report.
package report

import "insightify/internal/domain"

type View struct {
	Column       string                  `json:"column"`
	Summary      Summary                 `json:"summary"`
	Distribution []domain.SentimentCount `json:"distribution"`
	TopKeywords  []domain.KeywordCount   `json:"top_keywords"`
	Rows         []Row                   `json:"rows"`
}

type Summary struct {
	Total    int `json:"total"`
	Analyzed int `json:"analyzed"`
	Excluded int `json:"excluded"`
	Positive int `json:"positive"`
	Neutral  int `json:"neutral"`
	Negative int `json:"negative"`
}

type Row struct {
	Row       int          `json:"row"`
	Content   string       `json:"content"`
	Sentiment domain.Label `json:"sentiment"`
}

func NewView(res domain.AnalysisResult) View {
	v := View{
		Column: res.Column,
		Summary: Summary{
			Total:    res.Total(),
			Analyzed: len(res.Reviews),
			Excluded: res.Excluded,
			Positive: res.Sentiments[domain.Positive],
			Neutral:  res.Sentiments[domain.Neutral],
			Negative: res.Sentiments[domain.Negative],
		},
		Distribution: res.Distribution(),
		TopKeywords:  res.TopKeywords,
		Rows:         make([]Row, 0, len(res.Reviews)),
	}
	if v.Distribution == nil {
		v.Distribution = []domain.SentimentCount{}
	}
	if v.TopKeywords == nil {
		v.TopKeywords = []domain.KeywordCount{}
	}
	for _, r := range res.Reviews {
		v.Rows = append(v.Rows, Row{Row: r.Row, Content: r.Content, Sentiment: r.Label})
	}
	return v
}

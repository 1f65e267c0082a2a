// Package vader is an offline lexicon classifier built on VADER compound
// scores. It needs no network and no model files.
package vader

import (
	"context"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
)

const (
	PositiveThreshold = 0.20
	NegativeThreshold = -0.20
)

var (
	linkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern  = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern  = regexp.MustCompile(`<[^>]+>`)
)

type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func New() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Classify labels text by the compound score of its plain-text rendering.
func (c *Classifier) Classify(ctx context.Context, text string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	_, label := c.Score(text)
	return label, nil
}

// Score returns the compound score and its label.
func (c *Classifier) Score(text string) (float64, string) {
	score := c.analyzer.PolarityScores(PlainText(text)).Compound
	return score, LabelFor(score)
}

func LabelFor(score float64) string {
	switch {
	case score >= PositiveThreshold:
		return "positive"
	case score <= NegativeThreshold:
		return "negative"
	default:
		return "neutral"
	}
}

// PlainText renders markdown, strips the resulting tags and removes links.
func PlainText(input string) string {
	html := blackfriday.Run([]byte(input), blackfriday.WithNoExtensions())
	text := tagPattern.ReplaceAllString(string(html), " ")
	return RemoveLinks(strings.Join(strings.Fields(text), " "))
}

// RemoveLinks keeps the text of markdown links and drops bare URLs.
func RemoveLinks(input string) string {
	input = linkPattern.ReplaceAllString(input, "$1")
	input = urlPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(input)
}

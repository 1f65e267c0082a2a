package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"insightify/internal/adapters/observability"
	"insightify/internal/domain"
	"insightify/internal/keywords"
)

type Pipeline struct {
	loader domain.ClassifierLoader
	topN   int
}

func NewPipeline(l domain.ClassifierLoader, topN int) *Pipeline {
	if topN <= 0 {
		topN = keywords.DefaultTopN
	}
	return &Pipeline{loader: l, topN: topN}
}

// WithTop returns a pipeline sharing the loader that keeps n top keywords.
func (p *Pipeline) WithTop(n int) *Pipeline {
	if n <= 0 {
		return p
	}
	return &Pipeline{loader: p.loader, topN: n}
}

// Run classifies every review in order, drops failed rows and aggregates
// sentiment and keyword counts over the rest. A row failure never aborts the
// run; a classifier that cannot be loaded does, and no result is returned.
//
// Once started, a run completes even if ctx is cancelled.
func (p *Pipeline) Run(ctx context.Context, reviews []domain.Review) (domain.AnalysisResult, error) {
	ctx = context.WithoutCancel(ctx)

	cls, err := p.loader.Load(ctx)
	if err != nil {
		observability.ObserveAnalysis("unavailable")
		log.Error().Err(err).Int("rows", len(reviews)).Msg("analysis aborted: classifier unavailable")
		return domain.AnalysisResult{}, err
	}

	res := domain.AnalysisResult{
		Reviews:    make([]domain.LabeledReview, 0, len(reviews)),
		Sentiments: make(map[domain.Label]int, len(domain.SentimentOrder)),
	}
	counter := keywords.NewCounter()

	for _, lr := range Annotate(ctx, cls, reviews) {
		if !lr.Label.Analyzed() {
			res.Excluded++
			continue
		}
		res.Reviews = append(res.Reviews, lr)
		res.Sentiments[lr.Label]++
		counter.Add(keywords.Extract(lr.Content)...)
	}

	res.Keywords = counter.Counts()
	for _, f := range counter.MostCommon(p.topN) {
		res.TopKeywords = append(res.TopKeywords, domain.KeywordCount{Keyword: f.Word, Count: f.Count})
	}

	observability.ObserveAnalysis("ok")
	log.Info().
		Int("rows", len(reviews)).
		Int("analyzed", len(res.Reviews)).
		Int("excluded", res.Excluded).
		Int("keywords", counter.Len()).
		Msg("analysis completed")
	return res, nil
}

// Annotate assigns exactly one label to every review, in input order. A nil
// classifier labels every row unavailable.
func Annotate(ctx context.Context, cls domain.Classifier, reviews []domain.Review) []domain.LabeledReview {
	out := make([]domain.LabeledReview, 0, len(reviews))
	for _, r := range reviews {
		if cls == nil {
			out = append(out, domain.LabeledReview{Review: r, Label: domain.Unavailable})
			continue
		}
		start := time.Now()
		label, err := classifyOne(ctx, cls, r.Content)
		if err != nil {
			log.Warn().Err(err).Int("row", r.Row).Msg("review classification failed")
			label = domain.LabelError
		}
		observability.ObserveClassification(string(label), time.Since(start))
		out = append(out, domain.LabeledReview{Review: r, Label: label})
	}
	return out
}

func classifyOne(ctx context.Context, cls domain.Classifier, text string) (label domain.Label, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: panic: %v", domain.ErrClassificationFailed, rec)
		}
	}()
	raw, err := cls.Classify(ctx, text)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrClassificationFailed, err)
	}
	l, ok := domain.ParseLabel(raw)
	if !ok {
		return "", fmt.Errorf("%w: unexpected label %q", domain.ErrClassificationFailed, raw)
	}
	return l, nil
}

package app

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog/log"

	"insightify/internal/adapters/observability"
	"insightify/internal/adapters/tabular"
	"insightify/internal/domain"
)

// ColumnsView describes an upload before analysis so a caller can pick the
// review column.
type ColumnsView struct {
	Columns    []string `json:"columns"`
	Textual    []string `json:"textual"`
	Default    string   `json:"default"`
	HasDefault bool     `json:"has_default"`
	Candidates []string `json:"candidates"`
}

// AnalysisService runs the pipeline over uploaded CSV files or a database
// review source.
type AnalysisService struct {
	pipeline      *Pipeline
	defaultColumn string
	source        domain.ReviewSource
}

func NewAnalysisService(p *Pipeline, defaultColumn string, src domain.ReviewSource) *AnalysisService {
	if defaultColumn == "" {
		defaultColumn = DefaultTextColumn
	}
	return &AnalysisService{pipeline: p, defaultColumn: defaultColumn, source: src}
}

func (s *AnalysisService) DefaultColumn() string { return s.defaultColumn }

// WithTop returns a service whose results keep n top keywords.
func (s *AnalysisService) WithTop(n int) *AnalysisService {
	cp := *s
	cp.pipeline = s.pipeline.WithTop(n)
	return &cp
}

func (s *AnalysisService) Columns(r io.Reader) (ColumnsView, error) {
	t, err := tabular.ReadCSV(r)
	if err != nil {
		return ColumnsView{}, err
	}
	return s.columnsOf(t.Columns, tabular.TextColumns(t)), nil
}

func (s *AnalysisService) columnsOf(columns, textual []string) ColumnsView {
	v := ColumnsView{
		Columns:    columns,
		Textual:    textual,
		Default:    s.defaultColumn,
		Candidates: RankCandidates(textual),
	}
	for _, c := range columns {
		if c == s.defaultColumn {
			v.HasDefault = true
			break
		}
	}
	if v.Textual == nil {
		v.Textual = []string{}
	}
	return v
}

// AnalyzeCSV parses r, resolves the review column and runs the pipeline.
func (s *AnalysisService) AnalyzeCSV(ctx context.Context, r io.Reader, column string) (domain.AnalysisResult, error) {
	t, err := tabular.ReadCSV(r)
	if err != nil {
		return domain.AnalysisResult{}, s.rejected(err)
	}
	col, err := ResolveColumn(t.Columns, tabular.TextColumns(t), column, s.defaultColumn)
	if err != nil {
		return domain.AnalysisResult{}, s.rejected(err)
	}
	return s.run(ctx, col, t.Reviews(t.ColumnIndex(col)))
}

// AnalyzeSource reads the review column of a table. Only textual columns are
// eligible.
func (s *AnalysisService) AnalyzeSource(ctx context.Context, table, column string, limit int) (domain.AnalysisResult, error) {
	if s.source == nil {
		return domain.AnalysisResult{}, errors.New("no review source configured")
	}
	cols, err := s.source.Columns(ctx, table)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	var names, textual []string
	for _, c := range cols {
		names = append(names, c.Name)
		if c.Textual {
			textual = append(textual, c.Name)
		}
	}
	col, err := ResolveColumn(names, textual, column, s.defaultColumn)
	if err != nil {
		return domain.AnalysisResult{}, s.rejected(err)
	}
	reviews, err := s.source.LoadReviews(ctx, table, col, limit)
	if err != nil {
		return domain.AnalysisResult{}, err
	}
	return s.run(ctx, col, reviews)
}

func (s *AnalysisService) run(ctx context.Context, col string, reviews []domain.Review) (domain.AnalysisResult, error) {
	log.Info().Str("column", col).Int("rows", len(reviews)).Msg("analysis started")
	res, err := s.pipeline.Run(ctx, reviews)
	if err != nil {
		return res, err
	}
	res.Column = col
	return res, nil
}

func (s *AnalysisService) rejected(err error) error {
	var choice *domain.ColumnChoiceError
	if errors.As(err, &choice) {
		observability.ObserveAnalysis("column_choice")
	} else {
		observability.ObserveAnalysis("malformed")
	}
	log.Warn().Err(err).Msg("analysis rejected")
	return err
}

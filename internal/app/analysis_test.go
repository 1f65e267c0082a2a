package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"insightify/internal/app"
	"insightify/internal/domain"
)

type fakeSource struct {
	cols    []domain.TableColumn
	reviews []domain.Review
	err     error

	gotColumn string
	gotLimit  int
}

func (s *fakeSource) Columns(ctx context.Context, table string) ([]domain.TableColumn, error) {
	return s.cols, s.err
}

func (s *fakeSource) LoadReviews(ctx context.Context, table, column string, limit int) ([]domain.Review, error) {
	s.gotColumn, s.gotLimit = column, limit
	return s.reviews, s.err
}

func newService(cls domain.Classifier, src domain.ReviewSource) *app.AnalysisService {
	return app.NewAnalysisService(app.NewPipeline(staticLoader{cls: cls}, 0), "", src)
}

func TestAnalysisService_AnalyzeCSV(t *testing.T) {
	cls := &scriptedClassifier{script: map[string]string{
		"Barang bagus, pengiriman cepat": "positive",
		"Kualitas jelek":                 "negative",
	}}
	csv := "No,Ulasan\n1,\"Barang bagus, pengiriman cepat\"\n2,Kualitas jelek\n3,\n"

	res, err := newService(cls, nil).AnalyzeCSV(context.Background(), strings.NewReader(csv), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Column != "Ulasan" {
		t.Fatalf("Column = %q", res.Column)
	}
	if len(res.Reviews) != 2 || res.Sentiments[domain.Positive] != 1 || res.Sentiments[domain.Negative] != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got := len(cls.Calls()); got != 2 {
		t.Fatalf("classifier calls = %d, want 2 (missing cell skipped)", got)
	}
}

func TestAnalysisService_AnalyzeCSV_ColumnChoice(t *testing.T) {
	csv := "id,Review,Komentar\n1,ok,fine\n"
	_, err := newService(&scriptedClassifier{}, nil).AnalyzeCSV(context.Background(), strings.NewReader(csv), "")

	var choice *domain.ColumnChoiceError
	if !errors.As(err, &choice) {
		t.Fatalf("expected ColumnChoiceError, got %v", err)
	}
	if len(choice.Candidates) != 2 || choice.Candidates[0] != "Review" {
		t.Fatalf("candidates = %v", choice.Candidates)
	}
}

func TestAnalysisService_AnalyzeCSV_ExplicitColumn(t *testing.T) {
	cls := &scriptedClassifier{script: map[string]string{"fine": "neutral"}}
	csv := "id,Komentar\n1,fine\n"

	res, err := newService(cls, nil).AnalyzeCSV(context.Background(), strings.NewReader(csv), "Komentar")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Column != "Komentar" || res.Sentiments[domain.Neutral] != 1 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalysisService_AnalyzeCSV_Malformed(t *testing.T) {
	_, err := newService(&scriptedClassifier{}, nil).AnalyzeCSV(context.Background(), strings.NewReader(""), "")
	if !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestAnalysisService_Columns(t *testing.T) {
	v, err := newService(nil, nil).Columns(strings.NewReader("No,Ulasan,Rating\n1,bagus,5\n"))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !v.HasDefault || v.Default != "Ulasan" {
		t.Fatalf("default not detected: %+v", v)
	}
	if len(v.Textual) != 1 || v.Textual[0] != "Ulasan" {
		t.Fatalf("textual = %v", v.Textual)
	}
}

func TestAnalysisService_AnalyzeSource(t *testing.T) {
	src := &fakeSource{
		cols: []domain.TableColumn{{Name: "id"}, {Name: "Ulasan", Textual: true}},
		reviews: []domain.Review{
			{Row: 0, Content: "mantap"},
			{Row: 1, Content: "buruk"},
		},
	}
	cls := &scriptedClassifier{script: map[string]string{"mantap": "positive", "buruk": "negative"}}

	res, err := newService(cls, src).AnalyzeSource(context.Background(), "reviews", "", 10)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if src.gotColumn != "Ulasan" || src.gotLimit != 10 {
		t.Fatalf("source called with column=%q limit=%d", src.gotColumn, src.gotLimit)
	}
	if res.Total() != 2 || res.Column != "Ulasan" {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestAnalysisService_AnalyzeSource_RejectsNumericColumn(t *testing.T) {
	src := &fakeSource{cols: []domain.TableColumn{{Name: "id"}, {Name: "Ulasan", Textual: true}}}
	_, err := newService(&scriptedClassifier{}, src).AnalyzeSource(context.Background(), "reviews", "id", 0)
	if !errors.Is(err, domain.ErrMalformedInput) {
		t.Fatalf("expected ErrMalformedInput, got %v", err)
	}
}

func TestAnalysisService_AnalyzeSource_NoSource(t *testing.T) {
	if _, err := newService(&scriptedClassifier{}, nil).AnalyzeSource(context.Background(), "t", "", 0); err == nil {
		t.Fatalf("expected error without source")
	}
}

func TestAnalysisService_WithTop(t *testing.T) {
	cls := &scriptedClassifier{script: map[string]string{"alpha beta gamma delta": "neutral"}}
	svc := newService(cls, nil)

	res, err := svc.WithTop(2).AnalyzeCSV(context.Background(), strings.NewReader("Ulasan\nalpha beta gamma delta\n"), "")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(res.TopKeywords) != 2 || res.TopKeywords[0].Keyword != "alpha" {
		t.Fatalf("top = %+v", res.TopKeywords)
	}
	if len(res.Keywords) != 4 {
		t.Fatalf("full multiset trimmed: %v", res.Keywords)
	}

	res, _ = svc.AnalyzeCSV(context.Background(), strings.NewReader("Ulasan\nalpha beta gamma delta\n"), "")
	if len(res.TopKeywords) != 4 {
		t.Fatalf("WithTop leaked into original service: %+v", res.TopKeywords)
	}
}

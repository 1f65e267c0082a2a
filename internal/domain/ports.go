package domain

import "context"

// Classifier is the opaque sentiment model. It returns the raw label text.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// ClassifierFactory builds a classifier. Building may fail (download, network).
type ClassifierFactory func(ctx context.Context) (Classifier, error)

type ClassifierLoader interface {
	Load(ctx context.Context) (Classifier, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// TableColumn describes a column of a database-backed review source.
type TableColumn struct {
	Name    string
	Textual bool
}

type ReviewSource interface {
	Columns(ctx context.Context, table string) ([]TableColumn, error)
	LoadReviews(ctx context.Context, table, column string, limit int) ([]Review, error)
}

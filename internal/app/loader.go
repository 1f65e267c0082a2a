package app

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"

	"insightify/internal/adapters/observability"
	"insightify/internal/domain"
)

// ClassifierLoader builds the classifier once and reuses it for the life of
// the process. Concurrent callers share a single in-flight load. A failed load
// is returned to everyone waiting on it; the next Load tries again. A caller
// whose ctx ends stops waiting while the load itself runs to completion.
type ClassifierLoader struct {
	factory domain.ClassifierFactory
	name    string

	mu  sync.RWMutex
	cls domain.Classifier
	sf  singleflight.Group
}

func NewClassifierLoader(name string, f domain.ClassifierFactory) *ClassifierLoader {
	return &ClassifierLoader{factory: f, name: name}
}

func (l *ClassifierLoader) Load(ctx context.Context) (domain.Classifier, error) {
	if c := l.loaded(); c != nil {
		return c, nil
	}
	ch := l.sf.DoChan("load", func() (any, error) {
		if c := l.loaded(); c != nil {
			return c, nil
		}
		c, err := l.factory(context.WithoutCancel(ctx))
		observability.ObserveLoad(err)
		if err != nil {
			log.Error().Err(err).Str("backend", l.name).Str("error_type", observability.LabelErr(err)).Msg("classifier load failed")
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrClassifierUnavailable, l.name, err)
		}
		if c == nil {
			return nil, fmt.Errorf("%w: %s: factory returned no classifier", domain.ErrClassifierUnavailable, l.name)
		}
		l.mu.Lock()
		l.cls = c
		l.mu.Unlock()
		log.Info().Str("backend", l.name).Msg("classifier loaded")
		return c, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(domain.Classifier), nil
	}
}

// Loaded reports whether a classifier is ready without triggering a load.
func (l *ClassifierLoader) Loaded() bool { return l.loaded() != nil }

func (l *ClassifierLoader) Name() string { return l.name }

// Close releases the classifier if it holds resources.
func (l *ClassifierLoader) Close() error {
	l.mu.Lock()
	c := l.cls
	l.cls = nil
	l.mu.Unlock()
	if cl, ok := c.(io.Closer); ok {
		return cl.Close()
	}
	return nil
}

func (l *ClassifierLoader) loaded() domain.Classifier {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.cls
}

package app_test

import (
	"context"
	"errors"
	"sync"

	"insightify/internal/domain"
)

// ---- fakes ----

// scriptedClassifier answers from a per-text script; unknown texts fail.
type scriptedClassifier struct {
	mu     sync.Mutex
	script map[string]string
	fail   map[string]error
	panics map[string]bool
	calls  []string
}

func (f *scriptedClassifier) Classify(ctx context.Context, text string) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, text)
	f.mu.Unlock()
	if f.panics[text] {
		panic("model exploded")
	}
	if err, ok := f.fail[text]; ok {
		return "", err
	}
	if l, ok := f.script[text]; ok {
		return l, nil
	}
	return "", errors.New("no script for text")
}

func (f *scriptedClassifier) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

type staticLoader struct {
	cls domain.Classifier
	err error
}

func (l staticLoader) Load(ctx context.Context) (domain.Classifier, error) { return l.cls, l.err }

type fakeCache struct {
	mu    sync.Mutex
	store map[string]string
	sets  int
	err   error
}

func (c *fakeCache) Get(ctx context.Context, key string, dst any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	v, ok := c.store[key]
	if !ok {
		return false, nil
	}
	*(dst.(*string)) = v
	return true, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if c.store == nil {
		c.store = map[string]string{}
	}
	c.store[key] = v.(string)
	c.sets++
	return nil
}

func (c *fakeCache) Del(ctx context.Context, key string) error { return nil }

func reviews(texts ...string) []domain.Review {
	out := make([]domain.Review, len(texts))
	for i, t := range texts {
		out[i] = domain.Review{Row: i, Content: t}
	}
	return out
}

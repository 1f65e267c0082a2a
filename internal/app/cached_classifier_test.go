package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"insightify/internal/app"
)

func TestCachedClassifier_MissThenHit(t *testing.T) {
	inner := &scriptedClassifier{script: map[string]string{"nyaman": "positive"}}
	cache := &fakeCache{}
	c := app.NewCachedClassifier(inner, cache, "stub", time.Hour)

	for i := 0; i < 3; i++ {
		got, err := c.Classify(context.Background(), "nyaman")
		if err != nil || got != "positive" {
			t.Fatalf("Classify = %q, %v", got, err)
		}
	}
	if n := len(inner.Calls()); n != 1 {
		t.Fatalf("inner called %d times, want 1", n)
	}
	if cache.sets != 1 {
		t.Fatalf("sets = %d", cache.sets)
	}
}

func TestCachedClassifier_FailuresNotCached(t *testing.T) {
	inner := &scriptedClassifier{
		script: map[string]string{"aneh": "LABEL_9"},
		fail:   map[string]error{"rusak": errors.New("boom")},
	}
	cache := &fakeCache{}
	c := app.NewCachedClassifier(inner, cache, "stub", time.Hour)

	if _, err := c.Classify(context.Background(), "rusak"); err == nil {
		t.Fatal("expected error")
	}
	if got, _ := c.Classify(context.Background(), "aneh"); got != "LABEL_9" {
		t.Fatalf("raw label not passed through: %q", got)
	}
	if cache.sets != 0 {
		t.Fatalf("failures cached: %d", cache.sets)
	}
}

func TestCachedClassifier_CacheErrorsIgnored(t *testing.T) {
	inner := &scriptedClassifier{script: map[string]string{"oke": "neutral"}}
	c := app.NewCachedClassifier(inner, &fakeCache{err: errors.New("redis down")}, "stub", time.Hour)

	got, err := c.Classify(context.Background(), "oke")
	if err != nil || got != "neutral" {
		t.Fatalf("Classify = %q, %v", got, err)
	}
}

package wiring

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"insightify/internal/domain"
	"insightify/internal/shared"
)

func TestClassifierFactory_Unknown(t *testing.T) {
	if _, err := ClassifierFactory(shared.Config{Backend: "bert"}); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestClassifierFactory_Vader(t *testing.T) {
	f, err := ClassifierFactory(shared.Config{Backend: BackendVader})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	c, err := f(context.Background())
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	label, err := c.Classify(context.Background(), "I love it, great!")
	if err != nil || label != "positive" {
		t.Fatalf("label = %q err = %v", label, err)
	}
}

func TestClassifierFactory_HuggingFaceWarmupFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer ts.Close()

	f, _ := ClassifierFactory(shared.Config{Backend: BackendHuggingFace, HFBaseURL: ts.URL, HFRPS: 100})
	if _, err := f(context.Background()); err == nil {
		t.Fatalf("expected warmup failure")
	}
}

func TestClassifierFactory_OpenAIRequiresKey(t *testing.T) {
	f, _ := ClassifierFactory(shared.Config{Backend: BackendOpenAI})
	if _, err := f(context.Background()); err == nil {
		t.Fatalf("expected error without api key")
	}
}

func TestCache_NoneAndUnknown(t *testing.T) {
	c, closer, err := Cache(context.Background(), shared.Config{CacheBackend: "none"})
	if c != nil || closer != nil || err != nil {
		t.Fatalf("expected no cache, got %v %v %v", c, closer, err)
	}
	if _, _, err := Cache(context.Background(), shared.Config{CacheBackend: "memcached"}); err == nil {
		t.Fatalf("expected error for unknown cache")
	}
}

func TestCache_RedisUnreachableIsSkipped(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	c, _, err := Cache(ctx, shared.Config{CacheBackend: "redis", RedisAddr: "127.0.0.1:1"})
	if c != nil || err != nil {
		t.Fatalf("expected cache to be skipped, got %v err=%v", c, err)
	}
}

func TestServices_CachesLabels(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := shared.Config{
		Backend:      BackendVader,
		CacheBackend: "redis",
		RedisAddr:    mr.Addr(),
		CacheTTL:     time.Minute,
		TopKeywords:  15,
	}
	loader, svc, closeAll, err := Services(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("Services: %v", err)
	}
	defer closeAll()

	if svc.DefaultColumn() != "Ulasan" {
		t.Fatalf("default column = %q", svc.DefaultColumn())
	}
	cls, err := loader.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	label, err := cls.Classify(context.Background(), "great product")
	if err != nil {
		t.Fatalf("Classify: %v", err)
	}
	if _, ok := domain.ParseLabel(label); !ok {
		t.Fatalf("bad label %q", label)
	}
	if keys := mr.Keys(); len(keys) != 1 {
		t.Fatalf("expected one cached label, got %v", keys)
	}
}

func TestCacheNamespace_IncludesModel(t *testing.T) {
	tests := []struct {
		cfg  shared.Config
		want string
	}{
		{shared.Config{Backend: BackendHuggingFace, HFModel: "a/m1"}, "huggingface:a/m1"},
		{shared.Config{Backend: BackendONNX, HFModel: "a/m1"}, "onnx:a/m1"},
		{shared.Config{Backend: BackendOpenAI, OpenAIModel: "gpt-4o-mini"}, "openai:gpt-4o-mini"},
		{shared.Config{Backend: BackendVader, HFModel: "ignored"}, "vader"},
	}
	for _, tt := range tests {
		if got := CacheNamespace(tt.cfg); got != tt.want {
			t.Errorf("CacheNamespace(%s) = %q, want %q", tt.cfg.Backend, got, tt.want)
		}
	}
}

func TestLoader_ModelChangeMissesCache(t *testing.T) {
	mr := miniredis.RunT(t)
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		label := "LABEL_2"
		if strings.Contains(r.URL.Path, "model-b") {
			label = "LABEL_0"
		}
		fmt.Fprintf(w, `[[{"label":%q,"score":0.9}]]`, label)
	}))
	defer ts.Close()

	classify := func(model string) string {
		t.Helper()
		cfg := shared.Config{
			Backend:      BackendHuggingFace,
			HFBaseURL:    ts.URL,
			HFModel:      model,
			HFRPS:        100,
			CacheBackend: "redis",
			RedisAddr:    mr.Addr(),
			CacheTTL:     time.Minute,
		}
		cache, closer, err := Cache(context.Background(), cfg)
		if err != nil || cache == nil {
			t.Fatalf("Cache: %v %v", cache, err)
		}
		defer closer.Close()
		loader, err := Loader(cfg, cache)
		if err != nil {
			t.Fatalf("Loader: %v", err)
		}
		cls, err := loader.Load(context.Background())
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		label, err := cls.Classify(context.Background(), "barang bagus")
		if err != nil {
			t.Fatalf("Classify: %v", err)
		}
		return label
	}

	if got := classify("org/model-a"); got != "positive" {
		t.Fatalf("model a label = %q", got)
	}
	if got := classify("org/model-b"); got != "negative" {
		t.Fatalf("model b label = %q, served from the other model's cache", got)
	}
	keys := mr.Keys()
	if len(keys) != 2 ||
		!strings.HasPrefix(keys[0], "sentiment:huggingface:org/model-a:") ||
		!strings.HasPrefix(keys[1], "sentiment:huggingface:org/model-b:") {
		t.Fatalf("expected one key per model, got %v", keys)
	}
}

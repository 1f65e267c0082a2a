// Package wiring builds the configured classifier backend and label cache.
package wiring

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"insightify/internal/adapters/huggingface"
	"insightify/internal/adapters/llm"
	"insightify/internal/adapters/onnx"
	redisad "insightify/internal/adapters/redis"
	"insightify/internal/adapters/vader"
	valkeyad "insightify/internal/adapters/valkey"
	"insightify/internal/app"
	"insightify/internal/domain"
	"insightify/internal/shared"
)

const (
	BackendHuggingFace = "huggingface"
	BackendVader       = "vader"
	BackendONNX        = "onnx"
	BackendOpenAI      = "openai"
)

// ClassifierFactory returns the factory for cfg.Backend. The factory runs on
// first use, so network and model failures surface at load time.
func ClassifierFactory(cfg shared.Config) (domain.ClassifierFactory, error) {
	switch cfg.Backend {
	case BackendHuggingFace:
		return func(ctx context.Context) (domain.Classifier, error) {
			c, err := huggingface.New(cfg.HFBaseURL, cfg.HFModel, cfg.HFToken, cfg.HFRPS)
			if err != nil {
				return nil, err
			}
			if err := c.Warmup(ctx); err != nil {
				return nil, fmt.Errorf("warmup: %w", err)
			}
			return c, nil
		}, nil
	case BackendVader:
		return func(ctx context.Context) (domain.Classifier, error) {
			return vader.New(), nil
		}, nil
	case BackendONNX:
		return func(ctx context.Context) (domain.Classifier, error) {
			return onnx.New(ctx, onnx.Options{Model: cfg.HFModel, ModelDir: cfg.ONNXModelDir})
		}, nil
	case BackendOpenAI:
		return func(ctx context.Context) (domain.Classifier, error) {
			c, err := llm.New(llm.Options{APIKey: cfg.OpenAIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBase, MaxRetries: 2})
			if err != nil {
				return nil, err
			}
			if err := c.Warmup(ctx); err != nil {
				return nil, fmt.Errorf("warmup: %w", err)
			}
			return c, nil
		}, nil
	}
	return nil, fmt.Errorf("unknown classifier backend %q", cfg.Backend)
}

// Cache returns the configured label cache, or nil when caching is off.
// A cache that cannot be reached is logged and skipped.
func Cache(ctx context.Context, cfg shared.Config) (domain.Cache, io.Closer, error) {
	switch cfg.CacheBackend {
	case "", "none":
		return nil, nil, nil
	case "redis":
		c := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		if err := c.Ping(ctx); err != nil {
			_ = c.Close()
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, label cache disabled")
			return nil, nil, nil
		}
		return c, c, nil
	case "valkey":
		c, err := valkeyad.New(valkeyad.Options{
			Addr:          cfg.ValkeyAddr,
			Password:      cfg.RedisPass,
			DB:            cfg.RedisDB,
			ClientSideTTL: cfg.ValkeyClientTTL,
		})
		if err != nil {
			log.Warn().Err(err).Str("addr", cfg.ValkeyAddr).Msg("valkey unreachable, label cache disabled")
			return nil, nil, nil
		}
		return c, c, nil
	}
	return nil, nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
}

// CacheNamespace scopes cached labels to the backend and the model it serves.
func CacheNamespace(cfg shared.Config) string {
	switch cfg.Backend {
	case BackendHuggingFace, BackendONNX:
		return cfg.Backend + ":" + cfg.HFModel
	case BackendOpenAI:
		return cfg.Backend + ":" + cfg.OpenAIModel
	}
	return cfg.Backend
}

// Loader combines the backend factory with the optional cache.
func Loader(cfg shared.Config, cache domain.Cache) (*app.ClassifierLoader, error) {
	f, err := ClassifierFactory(cfg)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		inner := f
		f = func(ctx context.Context) (domain.Classifier, error) {
			c, err := inner(ctx)
			if err != nil {
				return nil, err
			}
			return app.NewCachedClassifier(c, cache, CacheNamespace(cfg), cfg.CacheTTL), nil
		}
	}
	return app.NewClassifierLoader(cfg.Backend, f), nil
}

// Services builds the loader and analysis service used by both binaries.
// The returned closer releases the classifier and cache.
func Services(ctx context.Context, cfg shared.Config, src domain.ReviewSource) (*app.ClassifierLoader, *app.AnalysisService, func(), error) {
	cache, cacheCloser, err := Cache(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	loader, err := Loader(cfg, cache)
	if err != nil {
		if cacheCloser != nil {
			_ = cacheCloser.Close()
		}
		return nil, nil, nil, err
	}
	svc := app.NewAnalysisService(app.NewPipeline(loader, cfg.TopKeywords), cfg.ReviewColumn, src)
	closeAll := func() {
		if err := loader.Close(); err != nil {
			log.Warn().Err(err).Msg("classifier close failed")
		}
		if cacheCloser != nil {
			_ = cacheCloser.Close()
		}
	}
	return loader, svc, closeAll, nil
}

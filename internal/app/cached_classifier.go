package app

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"time"

	"insightify/internal/domain"
)

// CachedClassifier puts a label cache in front of another classifier. Cache
// errors are ignored; failed classifications are never cached.
type CachedClassifier struct {
	next     domain.Classifier
	cache    domain.Cache
	ns       string
	cacheTTL time.Duration
}

func NewCachedClassifier(next domain.Classifier, c domain.Cache, ns string, ttl time.Duration) *CachedClassifier {
	return &CachedClassifier{next: next, cache: c, ns: ns, cacheTTL: ttl}
}

func (c *CachedClassifier) Classify(ctx context.Context, text string) (string, error) {
	key := c.key(text)
	var label string
	if ok, _ := c.cache.Get(ctx, key, &label); ok && label != "" {
		return label, nil
	}
	label, err := c.next.Classify(ctx, text)
	if err != nil {
		return "", err
	}
	if _, ok := domain.ParseLabel(label); ok {
		_ = c.cache.Set(ctx, key, label, int(c.cacheTTL.Seconds()))
	}
	return label, nil
}

// Close forwards to the wrapped classifier when it holds resources.
func (c *CachedClassifier) Close() error {
	if cl, ok := c.next.(interface{ Close() error }); ok {
		return cl.Close()
	}
	return nil
}

func (c *CachedClassifier) key(text string) string {
	sum := sha1.Sum([]byte(text))
	return fmt.Sprintf("sentiment:%s:%s", c.ns, hex.EncodeToString(sum[:]))
}

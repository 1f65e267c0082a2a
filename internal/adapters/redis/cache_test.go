package redisad_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	redisad "insightify/internal/adapters/redis"
)

func newCache(t *testing.T) (*redisad.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := redisad.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestCache_SetGetDel(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}

	var got string
	ok, err := c.Get(ctx, "sentiment:vader:abc", &got)
	if err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := c.Set(ctx, "sentiment:vader:abc", "positive", 60); err != nil {
		t.Fatalf("set: %v", err)
	}
	if ttl := mr.TTL("sentiment:vader:abc"); ttl != 60*time.Second {
		t.Fatalf("ttl = %v, want 60s", ttl)
	}

	ok, err = c.Get(ctx, "sentiment:vader:abc", &got)
	if err != nil || !ok || got != "positive" {
		t.Fatalf("expected hit positive, got ok=%v val=%q err=%v", ok, got, err)
	}

	if err := c.Del(ctx, "sentiment:vader:abc"); err != nil {
		t.Fatalf("del: %v", err)
	}
	if mr.Exists("sentiment:vader:abc") {
		t.Fatalf("key still present after Del")
	}
}

func TestCache_Expiry(t *testing.T) {
	c, mr := newCache(t)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "neutral", 1)
	mr.FastForward(2 * time.Second)

	var got string
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Fatalf("expected expired key to miss")
	}
}

func TestCache_CorruptValue(t *testing.T) {
	c, mr := newCache(t)
	_ = mr.Set("k", "{not json")

	var got string
	ok, err := c.Get(context.Background(), "k", &got)
	if ok || err == nil {
		t.Fatalf("expected decode error, got ok=%v err=%v", ok, err)
	}
}

func TestCache_ServerDown(t *testing.T) {
	c, mr := newCache(t)
	mr.Close()

	var got string
	if _, err := c.Get(context.Background(), "k", &got); err == nil {
		t.Fatalf("expected error when server is down")
	}
}

// Package valkeyad is a domain.Cache over valkey-go. With client-side
// caching enabled, repeated lookups of a hot label are served locally.
package valkeyad

import (
	"context"
	"encoding/json"
	"time"

	"github.com/valkey-io/valkey-go"

	"insightify/internal/adapters/observability"
)

type Cache struct {
	c         valkey.Client
	clientTTL time.Duration
}

type Options struct {
	Addr     string
	Password string
	DB       int
	// ClientSideTTL enables server-assisted client caching for Get when > 0.
	ClientSideTTL time.Duration
}

func New(o Options) (*Cache, error) {
	c, err := valkey.NewClient(valkey.ClientOption{
		InitAddress:      []string{o.Addr},
		Password:         o.Password,
		SelectDB:         o.DB,
		ConnWriteTimeout: 5 * time.Second,
		DisableCache:     o.ClientSideTTL <= 0,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c, clientTTL: o.ClientSideTTL}, nil
}

func (v *Cache) Ping(ctx context.Context) error {
	return v.c.Do(ctx, v.c.B().Ping().Build()).Error()
}

func (v *Cache) Get(ctx context.Context, key string, dst any) (bool, error) {
	var res valkey.ValkeyResult
	if v.clientTTL > 0 {
		res = v.c.DoCache(ctx, v.c.B().Get().Key(key).Cache(), v.clientTTL)
	} else {
		res = v.c.Do(ctx, v.c.B().Get().Key(key).Build())
	}
	b, err := res.AsBytes()
	if valkey.IsValkeyNil(err) {
		observability.ObserveCache("valkey", "miss")
		return false, nil
	}
	if err != nil {
		observability.ObserveCache("valkey", "error")
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		observability.ObserveCache("valkey", "error")
		return false, err
	}
	observability.ObserveCache("valkey", "hit")
	return true, nil
}

func (v *Cache) Set(ctx context.Context, key string, val any, ttlSec int) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	observability.ObserveCache("valkey", "set")
	if ttlSec <= 0 {
		return v.c.Do(ctx, v.c.B().Set().Key(key).Value(valkey.BinaryString(b)).Build()).Error()
	}
	return v.c.Do(ctx, v.c.B().Set().Key(key).Value(valkey.BinaryString(b)).ExSeconds(int64(ttlSec)).Build()).Error()
}

func (v *Cache) Del(ctx context.Context, key string) error {
	observability.ObserveCache("valkey", "del")
	return v.c.Do(ctx, v.c.B().Del().Key(key).Build()).Error()
}

func (v *Cache) Close() error {
	v.c.Close()
	return nil
}

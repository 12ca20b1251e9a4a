package cache

import (
	"context"
	"encoding/json"
	"time"
)

// TTL 命中与空结果分开设置过期；Miss 为 0 时不做负缓存
type TTL struct {
	Hit  time.Duration
	Miss time.Duration
}

var null = []byte("null")

// GetOrLoadJSON load 返回 nil 时按 ttl.Miss 写入 "null"，读到 "null" 返回 nil, nil
func GetOrLoadJSON[T any](
	c *Cache,
	ctx context.Context,
	key string,
	ttl TTL,
	load func(ctx context.Context) (*T, error),
) (*T, error) {
	b, err := c.getOrLoad(ctx, key, func(ctx context.Context) ([]byte, time.Duration, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, 0, e
		}
		if v == nil {
			return null, ttl.Miss, nil
		}
		raw, e := json.Marshal(v)
		return raw, ttl.Hit, e
	})
	if err != nil {
		return nil, err
	}
	if string(b) == string(null) {
		return nil, nil
	}
	var out T
	if e := json.Unmarshal(b, &out); e != nil {
		return nil, e
	}
	return &out, nil
}

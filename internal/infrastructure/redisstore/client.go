// Package redisstore guarda en Redis el estado de sesión que no vive en la base:
// tokens por cliente, revocaciones y la proyección provisional.
package redisstore

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "crm"

// NewClient abre el cliente desde una URL redis:// y verifica la conexión.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

func keyOf(prefix, kind, id string) string {
	if prefix == "" {
		prefix = defaultPrefix
	}
	return prefix + ":" + kind + ":" + id
}

package redisstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Revocations lista de jti revocados. Cada entrada vive hasta que el token
// hubiera expirado por sí solo.
type Revocations struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewRevocations construye la lista de revocaciones.
func NewRevocations(rdb redis.UniversalClient, prefix string) *Revocations {
	return &Revocations{rdb: rdb, prefix: prefix}
}

func (r *Revocations) key(tokenID string) string { return keyOf(r.prefix, "revoked", tokenID) }

// Revoke marca el token como revocado. Un token ya expirado no necesita entrada.
func (r *Revocations) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	if ttl <= 0 || tokenID == "" {
		return nil
	}
	if err := r.rdb.Set(ctx, r.key(tokenID), 1, ttl).Err(); err != nil {
		return fmt.Errorf("revocar token: %w", err)
	}
	return nil
}

// IsRevoked informa si el token fue revocado.
func (r *Revocations) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := r.rdb.Exists(ctx, r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("consultar revocación: %w", err)
	}
	return n > 0, nil
}

// RevokeAndForget revoca el token y borra el token del cliente en una sola transacción.
func (r *Revocations) RevokeAndForget(ctx context.Context, tokens *TokenStore, clientID, tokenID string, until time.Time) error {
	ttl := time.Until(until)
	_, err := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		if ttl > 0 && tokenID != "" {
			pipe.Set(ctx, r.key(tokenID), 1, ttl)
		}
		pipe.Del(ctx, tokens.key(clientID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("revocar sesión: %w", err)
	}
	return nil
}

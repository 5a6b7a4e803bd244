package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenStore token de acceso vigente de cada cliente (cookie de sesión).
type TokenStore struct {
	rdb    redis.UniversalClient
	prefix string
}

// NewTokenStore construye el almacén de tokens.
func NewTokenStore(rdb redis.UniversalClient, prefix string) *TokenStore {
	return &TokenStore{rdb: rdb, prefix: prefix}
}

func (s *TokenStore) key(clientID string) string { return keyOf(s.prefix, "token", clientID) }

// Set guarda el token del cliente hasta expiresAt.
func (s *TokenStore) Set(ctx context.Context, clientID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("token ya expirado")
	}
	if err := s.rdb.Set(ctx, s.key(clientID), token, ttl).Err(); err != nil {
		return fmt.Errorf("guardar token: %w", err)
	}
	return nil
}

// Get devuelve "" (sin error) si el cliente no tiene token.
func (s *TokenStore) Get(ctx context.Context, clientID string) (string, error) {
	tok, err := s.rdb.Get(ctx, s.key(clientID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("leer token: %w", err)
	}
	return tok, nil
}

// Delete borra el token del cliente. Es idempotente.
func (s *TokenStore) Delete(ctx context.Context, clientID string) error {
	if err := s.rdb.Del(ctx, s.key(clientID)).Err(); err != nil {
		return fmt.Errorf("borrar token: %w", err)
	}
	return nil
}

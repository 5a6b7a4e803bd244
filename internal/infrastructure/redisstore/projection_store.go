package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Inmobiliaria-crm/internal/application/session"
	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
)

var _ session.ProjectionStore = (*ProjectionStore)(nil)

// ProjectionStore proyección provisional de la sesión en JSON con TTL.
type ProjectionStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewProjectionStore construye el almacén; ttl <= 0 usa 24h.
func NewProjectionStore(rdb redis.UniversalClient, prefix string, ttl time.Duration) *ProjectionStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &ProjectionStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

func (s *ProjectionStore) key(k string) string { return keyOf(s.prefix, "projection", k) }

func (s *ProjectionStore) Save(ctx context.Context, key string, p entity.Projection) error {
	data, err := json.Marshal(p)
	if err != nil {
		return err
	}
	if err := s.rdb.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("guardar proyección: %w", err)
	}
	return nil
}

func (s *ProjectionStore) Load(ctx context.Context, key string) (*entity.Projection, error) {
	data, err := s.rdb.Get(ctx, s.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("leer proyección: %w", err)
	}
	var p entity.Projection
	if err := json.Unmarshal(data, &p); err != nil {
		// Una proyección corrupta se trata como inexistente: solo sirve para pintar.
		return nil, nil
	}
	return &p, nil
}

func (s *ProjectionStore) Delete(ctx context.Context, key string) error {
	if err := s.rdb.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("borrar proyección: %w", err)
	}
	return nil
}

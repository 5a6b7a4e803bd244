package redisstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inmobiliaria-crm/internal/domain/entity"
	"github.com/jhoicas/Inmobiliaria-crm/internal/infrastructure/redisstore"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestTokenStore_SetGetDelete(t *testing.T) {
	mr, rdb := newRedis(t)
	ts := redisstore.NewTokenStore(rdb, "test")
	ctx := context.Background()

	tok, err := ts.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, tok)

	require.NoError(t, ts.Set(ctx, "sid-1", "jwt-abc", time.Now().Add(time.Hour)))
	tok, err = ts.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "jwt-abc", tok)
	assert.True(t, mr.Exists("test:token:sid-1"))
	assert.Greater(t, mr.TTL("test:token:sid-1"), 59*time.Minute)

	require.NoError(t, ts.Delete(ctx, "sid-1"))
	require.NoError(t, ts.Delete(ctx, "sid-1"))
	tok, err = ts.Get(ctx, "sid-1")
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestTokenStore_RechazaTokenExpirado(t *testing.T) {
	_, rdb := newRedis(t)
	ts := redisstore.NewTokenStore(rdb, "test")
	assert.Error(t, ts.Set(context.Background(), "sid", "x", time.Now().Add(-time.Second)))
}

func TestTokenStore_ExpiraConElToken(t *testing.T) {
	mr, rdb := newRedis(t)
	ts := redisstore.NewTokenStore(rdb, "")
	ctx := context.Background()

	require.NoError(t, ts.Set(ctx, "sid", "x", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	tok, err := ts.Get(ctx, "sid")
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestRevocations(t *testing.T) {
	mr, rdb := newRedis(t)
	rv := redisstore.NewRevocations(rdb, "test")
	ts := redisstore.NewTokenStore(rdb, "test")
	ctx := context.Background()

	revoked, err := rv.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, rv.Revoke(ctx, "jti-1", time.Now().Add(time.Hour)))
	revoked, err = rv.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, rv.Revoke(ctx, "jti-viejo", time.Now().Add(-time.Minute)))
	assert.False(t, mr.Exists("test:revoked:jti-viejo"), "un token expirado no ocupa entrada")

	require.NoError(t, ts.Set(ctx, "sid-2", "tok", time.Now().Add(time.Hour)))
	require.NoError(t, rv.RevokeAndForget(ctx, ts, "sid-2", "jti-2", time.Now().Add(time.Hour)))
	tok, err := ts.Get(ctx, "sid-2")
	require.NoError(t, err)
	assert.Empty(t, tok)
	revoked, err = rv.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestRevocations_RedisCaido(t *testing.T) {
	mr, rdb := newRedis(t)
	rv := redisstore.NewRevocations(rdb, "test")
	mr.Close()

	_, err := rv.IsRevoked(context.Background(), "jti")
	assert.Error(t, err)
}

func TestProjectionStore(t *testing.T) {
	mr, rdb := newRedis(t)
	ps := redisstore.NewProjectionStore(rdb, "test", time.Hour)
	ctx := context.Background()

	p, err := ps.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, p)

	want := entity.Projection{Authenticated: true, Role: entity.RoleSeller, TenantName: "Andes", DisplayName: "Ana"}
	require.NoError(t, ps.Save(ctx, "sid", want))
	p, err = ps.Load(ctx, "sid")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, want, *p)

	require.NoError(t, mr.Set("test:projection:roto", "{no es json"))
	p, err = ps.Load(ctx, "roto")
	require.NoError(t, err)
	assert.Nil(t, p)

	require.NoError(t, ps.Delete(ctx, "sid"))
	p, err = ps.Load(ctx, "sid")
	require.NoError(t, err)
	assert.Nil(t, p)
}

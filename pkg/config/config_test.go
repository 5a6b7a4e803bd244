package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, "crm_sid", cfg.Session.CookieName)
	assert.Equal(t, 1500*time.Millisecond, cfg.Session.Wait)
	assert.False(t, cfg.Session.SecureCookie)
	assert.Equal(t, 3, cfg.Retry.MaxRetries)
	assert.Equal(t, time.Second, cfg.Retry.InitialDelay)
	assert.Equal(t, 2.0, cfg.Retry.Multiplier)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.DB.ForceIPv4)
	assert.Equal(t, 25, cfg.DB.MaxConns)
}

func TestFromViper_ValoresDesdeEnv(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "0123456789abcdef0123456789abcdef")
	v.Set("APP_ENV", "production")
	v.Set("RETRY_MAX", "5")
	v.Set("RETRY_MULTIPLIER", "1.5")
	v.Set("SESSION_WAIT_MS", "250")
	v.Set("DB_FORCE_IPV4", "true")
	v.Set("DB_MAX_CONNS", "10")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.True(t, cfg.Session.SecureCookie)
	assert.Equal(t, 5, cfg.Retry.MaxRetries)
	assert.Equal(t, 1.5, cfg.Retry.Multiplier)
	assert.Equal(t, 250*time.Millisecond, cfg.Session.Wait)
	assert.True(t, cfg.DB.ForceIPv4)
	assert.Equal(t, 10, cfg.DB.MaxConns)
}

func TestFromViper_SecretCorto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "corto")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "crm", Password: "p@ss/word", DBName: "crm", SSLMode: "disable"}
	assert.Equal(t, "postgres://crm:p%40ss%2Fword@db:5432/crm?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

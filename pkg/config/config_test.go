package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.True(t, cfg.App.IsDev())
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "clear", cfg.POS.LocationChangePolicy)
	assert.Equal(t, BackendLocal, cfg.POS.Backend)
	assert.Zero(t, cfg.POS.BackendTimeout, "sin timeout propio por defecto")
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.ForceIPv4)
}

func TestFromViper_ValoresDeEntorno(t *testing.T) {
	v := viper.New()
	v.Set("POS_BACKEND", "REMOTE")
	v.Set("POS_BACKEND_URL", "http://api.local")
	v.Set("POS_BACKEND_TIMEOUT_SECONDS", "15")
	v.Set("REDIS_ADDRESS", "localhost:6379")
	v.Set("DB_AUTO_MIGRATE", "true")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_MAX_CONNS", "8")
	v.Set("DB_FORCE_IPV4", "false")

	cfg, err := fromViper(v)
	require.NoError(t, err)
	assert.Equal(t, BackendRemote, cfg.POS.Backend)
	assert.Equal(t, 15*time.Second, cfg.POS.BackendTimeout)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())
	assert.Equal(t, 8, cfg.DB.MaxConns)
	assert.False(t, cfg.DB.ForceIPv4)
}

func TestFromViper_RemotoSinURL(t *testing.T) {
	v := viper.New()
	v.Set("POS_BACKEND", "remote")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_BackendInvalido(t *testing.T) {
	v := viper.New()
	v.Set("POS_BACKEND", "mongo")
	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDBConfig_DSNEscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/pos?sslmode=disable", c.DSN())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

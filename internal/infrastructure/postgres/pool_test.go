package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/pkg/config"
)

func TestBuildPoolConfig_AplicaLimites(t *testing.T) {
	cfg := config.DBConfig{Host: "db", Port: 5432, User: "pos", Password: "x", DBName: "pos", SSLMode: "disable", MaxConns: 8, MinConns: 3}

	pc, err := buildPoolConfig(cfg)
	require.NoError(t, err)
	assert.EqualValues(t, 8, pc.MaxConns)
	assert.EqualValues(t, 3, pc.MinConns)
	assert.Equal(t, "db", pc.ConnConfig.Host)
	assert.NotNil(t, pc.AfterConnect)
}

func TestBuildPoolConfig_MinMayorQueMaxSeIgnora(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://pos@db:5432/pos", MaxConns: 2, MinConns: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, pc.MaxConns)
	assert.Zero(t, pc.MinConns)
}

func TestBuildPoolConfig_IPv4SoloConservaHost(t *testing.T) {
	pc, err := buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://pos@db.example.com:5432/pos", ForceIPv4: true})
	require.NoError(t, err)
	assert.Equal(t, "db.example.com", pc.ConnConfig.Host, "TLS valida contra el hostname original")
	assert.NotNil(t, pc.ConnConfig.DialFunc)
}

func TestBuildPoolConfig_SinDatos(t *testing.T) {
	_, err := buildPoolConfig(config.DBConfig{})
	assert.Error(t, err)

	_, err = buildPoolConfig(config.DBConfig{DatabaseURL: "postgres://pos@db:puerto/pos"})
	assert.Error(t, err)
}

func TestIPv4Dialer_LiteralIP(t *testing.T) {
	d := &ipv4Dialer{}

	ip, err := d.lookupIPv4(context.Background(), "10.0.0.7")
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.7", ip)

	_, err = d.lookupIPv4(context.Background(), "::1")
	assert.Error(t, err)
}

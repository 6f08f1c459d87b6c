package database

import (
	"io/fs"
	"testing"
	"time"

	"github.com/deppfellow/hangar/internal/config"
	"github.com/jackc/pgx/v5/tracelog"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(env string) *config.Config {
	return &config.Config{
		Primary: config.Primary{Env: env},
		Database: config.DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "hangar",
			Password:        "secret",
			Name:            "hangar",
			SSLMode:         "disable",
			MaxOpenConns:    8,
			MaxIdleConns:    2,
			ConnMaxLifetime: 300,
			ConnMaxIdleTime: 60,
		},
	}
}

func TestPoolConfigSizing(t *testing.T) {
	logger := zerolog.Nop()

	poolConfig, err := PoolConfig(testConfig("production"), &logger, nil)
	require.NoError(t, err)

	assert.Equal(t, int32(8), poolConfig.MaxConns)
	assert.Equal(t, int32(2), poolConfig.MinConns)
	assert.Equal(t, 5*time.Minute, poolConfig.MaxConnLifetime)
	assert.Equal(t, time.Minute, poolConfig.MaxConnIdleTime)
	assert.Nil(t, poolConfig.ConnConfig.Tracer)
}

func TestPoolConfigLocalTracing(t *testing.T) {
	logger := zerolog.Nop().Level(zerolog.DebugLevel)

	poolConfig, err := PoolConfig(testConfig("local"), &logger, nil)
	require.NoError(t, err)

	traceLog, ok := poolConfig.ConnConfig.Tracer.(*tracelog.TraceLog)
	require.True(t, ok, "expected tracelog tracer, got %T", poolConfig.ConnConfig.Tracer)
	assert.Equal(t, tracelog.LogLevelDebug, traceLog.LogLevel)
}

func TestEmbeddedMigrations(t *testing.T) {
	subtree, err := Migrations()
	require.NoError(t, err)

	names, err := fs.Glob(subtree, "*.sql")
	require.NoError(t, err)
	assert.Contains(t, names, "001_create_planes.sql")

	body, err := fs.ReadFile(subtree, "001_create_planes.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "CREATE TABLE IF NOT EXISTS planes")
	assert.Contains(t, string(body), "---- create above / drop below ----")
}

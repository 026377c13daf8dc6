package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3, cfg.Ledger.MaxWriteAttempts)
	assert.Equal(t, 24*time.Hour, cfg.Ledger.MergeRecordTTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("LEDGER_MAX_WRITE_ATTEMPTS", "5")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5, cfg.Ledger.MaxWriteAttempts)
	assert.Equal(t, 2*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestValidate(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	cfg.JWT.Secret = "short"
	assert.ErrorContains(t, cfg.Validate(), "JWT_SECRET")

	cfg.JWT.Secret = "0123456789abcdef0123456789abcdef"
	cfg.Ledger.MaxWriteAttempts = 0
	assert.ErrorContains(t, cfg.Validate(), "LEDGER_MAX_WRITE_ATTEMPTS")

	cfg.Ledger.MaxWriteAttempts = 1
	cfg.Mongo.URI = ""
	assert.ErrorContains(t, cfg.Validate(), "MONGO_URI")
}

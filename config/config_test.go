package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, 500, cfg.Fudo.PageSize)
	assert.Equal(t, 1000, cfg.Fudo.MaxPages)
	assert.Equal(t, 300, cfg.Delivery.CacheTTLSeconds)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("KAFKA_ENABLED", "false")
	t.Setenv("FUDO_API_KEY", "key-1")
	t.Setenv("DELIVERY_CACHE_TTL_SECONDS", "60")
	t.Setenv("LOGGER_DISABLE_CALLER", "true")

	cfg := LoadEnv()

	assert.Equal(t, "9000", cfg.Server.HTTPPort)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, "key-1", cfg.Fudo.APIKey)
	assert.Equal(t, 60, cfg.Delivery.CacheTTLSeconds)
	assert.True(t, cfg.Logger.DisableCaller)
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList(" a ,,"))
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.DB.Type)
	assert.Equal(t, ":1080", cfg.Server.HttpHostPort)
	assert.Equal(t, "tcp://localhost:1883", cfg.MQTT.Broker)
	assert.Equal(t, "/weight_change", cfg.MQTT.Topic)
	assert.Equal(t, byte(1), cfg.MQTT.QoS)
	assert.Equal(t, 10*time.Second, cfg.MQTT.ConnectTimeout)
	assert.Equal(t, 1, cfg.Ingest.Workers)
	assert.Equal(t, "none", cfg.Cache.Type)
	assert.Equal(t, 30*time.Minute, cfg.Limiter.MaxIdle)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddress())
}

func TestLoadFromEnvFile(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), "test.env")
	content := "IOT_DB_TYPE=memory\nIOT_MQTT_TOPIC=/bottles\nIOT_INGEST_WORKERS=4\nIOT_CACHE_TYPE=memory\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	t.Cleanup(func() {
		for _, key := range []string{"IOT_DB_TYPE", "IOT_MQTT_TOPIC", "IOT_INGEST_WORKERS", "IOT_CACHE_TYPE"} {
			_ = os.Unsetenv(key)
		}
	})

	cfg, err := Load(envFile)
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DB.Type)
	assert.Equal(t, "/bottles", cfg.MQTT.Topic)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, "memory", cfg.Cache.Type)
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"IOT_DB_TYPE":          "cassandra",
		"IOT_CACHE_TYPE":       "memcached",
		"IOT_MQTT_QOS":         "3",
		"IOT_INGEST_WORKERS":   "0",
		"IOT_LIMITER_MAX_IDLE": "0s",
	}

	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)

			_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
			assert.Error(t, err)
		})
	}

	t.Run("postgres without dsn", func(t *testing.T) {
		t.Setenv("IOT_DB_TYPE", "postgres")
		t.Setenv("IOT_DB_DSN", "")

		_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
		assert.ErrorContains(t, err, "IOT_DB_DSN")
	})
}

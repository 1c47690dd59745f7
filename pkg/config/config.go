// Package config loads the service configuration from the environment, after
// merging an optional .env file.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Env     string `envconfig:"GO_ENV" default:"development"`
	DB      DBConfig
	Server  ServerConfig
	Limiter LimiterConfig
	MQTT    MQTTConfig
	Ingest  IngestConfig
	Cache   CacheConfig
}

type DBConfig struct {
	Type string `envconfig:"IOT_DB_TYPE" default:"file"` // file, memory, postgres or mysql
	Path string `envconfig:"IOT_DB_PATH" default:"water.db"`
	DSN  string `envconfig:"IOT_DB_DSN" default:""`
}

type ServerConfig struct {
	HttpHostPort string `envconfig:"IOT_HTTP_HOST_PORT" default:":1080"`
	GrpcHostPort string `envconfig:"IOT_GRPC_HOST_PORT" default:""`
}

type LimiterConfig struct {
	DefaultRate  float64 `envconfig:"IOT_DEFAULT_RATE" default:"10"`
	DefaultBurst int     `envconfig:"IOT_DEFAULT_BURST" default:"20"`

	// limiters of users not seen for MaxIdle are dropped every JanitorInterval
	JanitorInterval time.Duration `envconfig:"IOT_LIMITER_JANITOR_INTERVAL" default:"1m"`
	MaxIdle         time.Duration `envconfig:"IOT_LIMITER_MAX_IDLE" default:"30m"`
}

type MQTTConfig struct {
	Broker         string        `envconfig:"IOT_MQTT_BROKER" default:"tcp://localhost:1883"`
	Topic          string        `envconfig:"IOT_MQTT_TOPIC" default:"/weight_change"`
	ClientID       string        `envconfig:"IOT_MQTT_CLIENT_ID" default:"water-intake-service"`
	QoS            byte          `envconfig:"IOT_MQTT_QOS" default:"1"`
	ConnectTimeout time.Duration `envconfig:"IOT_MQTT_CONNECT_TIMEOUT" default:"10s"`
	LedTopicFormat string        `envconfig:"IOT_MQTT_LED_TOPIC" default:"/%s/led_mode"`
	Username       string        `envconfig:"IOT_MQTT_USERNAME" default:""`
	Password       string        `envconfig:"IOT_MQTT_PASSWORD" default:""`
}

type IngestConfig struct {
	Workers   int `envconfig:"IOT_INGEST_WORKERS" default:"1"`
	QueueSize int `envconfig:"IOT_INGEST_QUEUE" default:"64"`
}

type CacheConfig struct {
	Type string        `envconfig:"IOT_CACHE_TYPE" default:"none"` // none, memory or redis
	TTL  time.Duration `envconfig:"IOT_CACHE_TTL" default:"5m"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Load merges .env (when present) into the environment and decodes it.
func Load(envFiles ...string) (*Config, error) {
	// a missing .env is fine, deployments set the variables directly
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.DB.Type {
	case "file", "memory":
	case "postgres", "mysql":
		if c.DB.DSN == "" {
			return fmt.Errorf("IOT_DB_DSN is required for IOT_DB_TYPE=%s", c.DB.Type)
		}
	default:
		return fmt.Errorf("unknown IOT_DB_TYPE: %s", c.DB.Type)
	}

	switch c.Cache.Type {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unknown IOT_CACHE_TYPE: %s", c.Cache.Type)
	}

	if c.MQTT.QoS > 2 {
		return fmt.Errorf("IOT_MQTT_QOS must be 0, 1 or 2, got %d", c.MQTT.QoS)
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("IOT_INGEST_WORKERS must be at least 1, got %d", c.Ingest.Workers)
	}
	if c.Limiter.JanitorInterval <= 0 || c.Limiter.MaxIdle <= 0 {
		return fmt.Errorf("IOT_LIMITER_JANITOR_INTERVAL and IOT_LIMITER_MAX_IDLE must be positive")
	}
	if c.Ingest.QueueSize < 0 {
		return fmt.Errorf("IOT_INGEST_QUEUE can not be negative, got %d", c.Ingest.QueueSize)
	}
	return nil
}

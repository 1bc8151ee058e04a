// Package config loads service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Backend selects a storage implementation.
type Backend string

const (
	// BackendMemory keeps data in process memory. Local runs and tests.
	BackendMemory Backend = "memory"
	// BackendRedis stores sessions in Redis.
	BackendRedis Backend = "redis"
	// BackendMongo stores todos in MongoDB.
	BackendMongo Backend = "mongo"
)

// Config is the full service configuration.
type Config struct {
	Port          string
	ChannelSecret string
	ChannelToken  string

	SessionBackend Backend
	RedisAddr      string
	RedisPassword  string

	StorageBackend Backend
	MongoURI       string
	MongoDatabase  string

	SessionTTL time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getIntEnv(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

// Load reads all env vars and builds the config.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("LINETODO_PORT", "8080"),
		ChannelSecret: getEnv("LINETODO_CHANNEL_SECRET", ""),
		ChannelToken:  getEnv("LINETODO_CHANNEL_TOKEN", ""),

		SessionBackend: Backend(getEnv("LINETODO_SESSION_BACKEND", string(BackendMemory))),
		RedisAddr:      getEnv("LINETODO_REDIS_ADDR", "localhost:6379"),
		RedisPassword:  getEnv("LINETODO_REDIS_PASSWORD", ""),

		StorageBackend: Backend(getEnv("LINETODO_STORAGE_BACKEND", string(BackendMemory))),
		MongoURI:       getEnv("MONGODB_URI", ""),
		MongoDatabase:  getEnv("LINETODO_MONGO_DB", "linetodo"),

		SessionTTL: time.Duration(getIntEnv("LINETODO_SESSION_TTL", 300)) * time.Second,
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	if c.ChannelSecret == "" {
		return fmt.Errorf("LINETODO_CHANNEL_SECRET must be set")
	}
	if c.ChannelToken == "" {
		return fmt.Errorf("LINETODO_CHANNEL_TOKEN must be set")
	}

	switch c.SessionBackend {
	case BackendMemory:
	case BackendRedis:
		if c.RedisAddr == "" {
			return fmt.Errorf("LINETODO_REDIS_ADDR must be set for the redis session backend")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.SessionBackend)
	}

	switch c.StorageBackend {
	case BackendMemory:
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI must be set for the mongo storage backend")
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	if c.SessionTTL <= 0 {
		return fmt.Errorf("session TTL must be positive")
	}

	return nil
}

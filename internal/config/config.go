package config

import (
	"os"
	"time"
)

type Config struct {
	ListenAddr     string
	MongoURI       string
	MongoDB        string
	AuthSecret     string
	TokenTTL       time.Duration
	ConnectTimeout time.Duration
}

func Load() Config {
	initEnvFile()

	cfg := Config{
		ListenAddr: envOr("NOTEHUB_LISTEN_ADDR", "127.0.0.1:3000"),
		MongoURI:   envOr("NOTEHUB_MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDB:    envOr("NOTEHUB_MONGO_DB", "notehub"),
		AuthSecret: os.Getenv("NOTEHUB_AUTH_SECRET"),
	}
	cfg.TokenTTL = parseDurationOr("NOTEHUB_TOKEN_TTL", time.Hour)
	cfg.ConnectTimeout = parseDurationOr("NOTEHUB_CONNECT_TIMEOUT", 10*time.Second)
	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

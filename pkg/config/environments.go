package config

import (
	"os"
	"strings"
)

func loadDevelopmentConfig(cfg *Config) {
	cfg.DatabaseDebug = true
	cfg.DatabaseFilePath = "./tmp/data.sqlite"
	cfg.ServerHost = "127.0.0.1"
	cfg.JWTSecret = "development-secret"
}

func loadTestConfig(cfg *Config) {
	cfg.DatabaseFilePath = ":memory:"
	cfg.ServerHost = "127.0.0.1"
	cfg.JWTSecret = "test-secret"
}

func loadProductionConfig(cfg *Config) {
	cfg.DatabaseFilePath = "/data/data.sqlite"
	cfg.JWTSecret = os.Getenv("JWT_SECRET")
}

// transformEnvKey maps LIBRIS_SERVER_PORT to server_port.
func transformEnvKey(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, envPrefix))
}

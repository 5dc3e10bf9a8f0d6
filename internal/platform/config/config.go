package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr          string
	MetricsAddr   string
	DatabaseURL   string
	JWTSigningKey string
	TokenTTL      time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("TRAINHUB_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	metricsAddr := os.Getenv("TRAINHUB_METRICS_ADDR")
	if metricsAddr == "" {
		metricsAddr = ":9090"
	}

	jwtSigningKey := os.Getenv("JWT_SIGNING_KEY")
	if jwtSigningKey == "" {
		// Use a default for development - should be overridden in production
		jwtSigningKey = "dev-secret-key-change-in-production"
	}

	tokenTTL := 8 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil {
			tokenTTL = d
		}
	}

	return Server{
		Addr:          addr,
		MetricsAddr:   metricsAddr,
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		JWTSigningKey: jwtSigningKey,
		TokenTTL:      tokenTTL,
	}
}

package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port            string        `env:"PORT"              envDefault:"8080"`
	DBDSN           string        `env:"DB_DSN"            envDefault:"storefront.db"`
	LogFile         string        `env:"LOG_FILE"          envDefault:"./storefront.log"`
	JWTSecret       string        `env:"JWT_SECRET"        envDefault:"dev-secret-change-me"`
	JWTIssuer       string        `env:"JWT_ISSUER"        envDefault:"storefront"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL"  envDefault:"15m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"168h"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT"  envDefault:"30s"`
	RateLimitMax    int           `env:"RATE_LIMIT_MAX"    envDefault:"60"`
	SeedDemo        bool          `env:"SEED_DEMO"         envDefault:"true"`
}

// Load parses the environment and logs the result with the secret redacted.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.RateLimitMax <= 0 {
		cfg.RateLimitMax = 60
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s JWT_ISSUER=%s ACCESS_TOKEN_TTL=%s SEED_DEMO=%t JWT_SECRET=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.SeedDemo, redact(cfg.JWTSecret))
	return cfg, nil
}

func redact(s string) string {
	if s == "" {
		return "(unset)"
	}
	return "***"
}

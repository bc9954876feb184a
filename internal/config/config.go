// Package config содержит логику чтения конфигурации сервиса магазина.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRunAddress = "localhost:8080"
	defaultTokenTTL   = 24 * time.Hour
	defaultCORSOrigin = "http://localhost:8080"
	defaultLoginRate  = 5.0
)

// Config содержит параметры конфигурации сервиса магазина.
type Config struct {
	RunAddress  string        `env:"RUN_ADDRESS"`
	DatabaseURI string        `env:"DATABASE_URI"`
	AuthSecret  string        `env:"AUTH_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	CatalogSeed string        `env:"CATALOG_SEED"`
	CORSOrigin  string        `env:"CORS_ORIGIN"`
	LoginRate   float64       `env:"LOGIN_RATE"`
}

// Parse считывает конфигурацию из флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	envCfg := Config{}
	if err := env.Parse(&envCfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	cfg := &Config{}

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI")
	flag.StringVar(&cfg.AuthSecret, "s", "", "secret for signing session tokens")
	flag.DurationVar(&cfg.TokenTTL, "t", defaultTokenTTL, "session token lifetime")
	flag.StringVar(&cfg.CatalogSeed, "c", "", "path to YAML catalog seed file")
	flag.StringVar(&cfg.CORSOrigin, "o", defaultCORSOrigin, "allowed CORS origin")
	flag.Float64Var(&cfg.LoginRate, "l", defaultLoginRate, "login attempts per second")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.AuthSecret != "" {
		cfg.AuthSecret = envCfg.AuthSecret
	}
	if envCfg.TokenTTL != 0 {
		cfg.TokenTTL = envCfg.TokenTTL
	}
	if envCfg.CatalogSeed != "" {
		cfg.CatalogSeed = envCfg.CatalogSeed
	}
	if envCfg.CORSOrigin != "" {
		cfg.CORSOrigin = envCfg.CORSOrigin
	}
	if envCfg.LoginRate != 0 {
		cfg.LoginRate = envCfg.LoginRate
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TokenTTL)
	}
	if cfg.LoginRate <= 0 {
		return nil, fmt.Errorf("login rate must be positive, got %v", cfg.LoginRate)
	}

	return cfg, nil
}

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

// EnvPrefix namespaces every environment variable read by Load.
// Nested keys use a double underscore: BANK_SERVER__PORT -> server.port.
const EnvPrefix = "BANK_"

type Config struct {
	Server ServerConfig `koanf:"server"`
	Log    LogConfig    `koanf:"log"`
	Ledger LedgerConfig `koanf:"ledger"`
	HTTP   HTTPConfig   `koanf:"http"`
	Dev    DevConfig    `koanf:"dev"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required,numeric"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required"`
}

type LogConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn warning error DEBUG INFO WARN WARNING ERROR"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

// LedgerConfig controls how amounts and calendar days are interpreted.
type LedgerConfig struct {
	Currency string `koanf:"currency" validate:"required,len=3,alpha"`
	// Timezone is an IANA name ("America/Sao_Paulo"), "UTC" or "Local".
	Timezone string `koanf:"timezone" validate:"required"`
}

type HTTPConfig struct {
	// LegacyStatus answers every domain error with 400 for clients of the first API version.
	LegacyStatus bool `koanf:"legacy_status"`
	// CORSOrigins is a comma separated allow-list.
	CORSOrigins string `koanf:"cors_origins"`
}

// DevConfig holds local development conveniences.
type DevConfig struct {
	// Seed registers a demo customer on startup.
	Seed bool `koanf:"seed"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":             "8080",
		"server.read_timeout":     "5s",
		"server.write_timeout":    "10s",
		"server.idle_timeout":     "60s",
		"server.shutdown_timeout": "10s",
		"log.level":               "info",
		"log.format":              "json",
		"ledger.currency":         "BRL",
		"ledger.timezone":         "Local",
		"http.legacy_status":      false,
		"http.cors_origins":       "*",
		"dev.seed":                false,
	}
}

// Load reads defaults, then the environment (and a .env file when present), and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	if _, err := cfg.Ledger.Location(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	cfg.Ledger.Currency = strings.ToUpper(cfg.Ledger.Currency)
	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c ServerConfig) Addr() string { return ":" + c.Port }

// Location resolves Timezone.
func (c LedgerConfig) Location() (*time.Location, error) {
	if strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

// Origins splits CORSOrigins, dropping blanks. Empty means allow all.
func (c HTTPConfig) Origins() []string {
	out := make([]string, 0)
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

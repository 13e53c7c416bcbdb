// Package config provides application configuration loaded from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diewo77/invoicer/internal/mailer"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"

	defaultSecretKey = "dev-secret"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	App      AppConfig
	Invoice  InvoiceConfig
	Mail     mailer.Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"15s"`
	IdleTimeout  time.Duration `envconfig:"SERVER_IDLE_TIMEOUT" default:"60s"`
}

// DatabaseConfig holds the connection URL and pool settings.
// URL accepts sqlite:///path, postgres://..., key=value Postgres DSNs and mysql://... .
type DatabaseConfig struct {
	URL             string        `envconfig:"DATABASE_URL" default:"sqlite:///invoicer.db"`
	Debug           bool          `envconfig:"DB_DEBUG" default:"false"`
	MaxOpenConns    int           `envconfig:"DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"DB_CONN_MAX_LIFETIME" default:"30m"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Env          string `envconfig:"APP_ENV" default:"development"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"LOG_FORMAT" default:"json"`
	SecretKey    string `envconfig:"SECRET_KEY" default:"dev-secret"`
	CookieSecure bool   `envconfig:"COOKIE_SECURE" default:"false"`
	// Migrations selects the embedded SQL migrations over AutoMigrate.
	Migrations  bool   `envconfig:"MIGRATIONS" default:"false"`
	CompanyName string `envconfig:"COMPANY_NAME" default:"Your Company"`
	// TemplatesDir serves templates from disk, uncached, instead of the
	// embedded copies.
	TemplatesDir string `envconfig:"TEMPLATES_DIR"`
	// TrustedOrigins lists extra hosts allowed to post forms (host[:port]).
	TrustedOrigins []string `envconfig:"CSRF_TRUSTED_ORIGINS"`
}

// InvoiceConfig holds billing rules.
type InvoiceConfig struct {
	// TaxRate is a fraction: 0.08 means 8%.
	TaxRate decimal.Decimal `envconfig:"INVOICE_TAX_RATE" default:"0.00"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// Load reads a .env file when present, then the environment.
// Defaults suit local development against SQLite.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return errors.New("config: DATABASE_URL is empty")
	}
	if c.Invoice.TaxRate.IsNegative() {
		return fmt.Errorf("config: INVOICE_TAX_RATE must not be negative, got %s", c.Invoice.TaxRate)
	}
	if c.App.IsProd() && (c.App.SecretKey == "" || c.App.SecretKey == defaultSecretKey) {
		return errors.New("config: SECRET_KEY must be set in production")
	}
	return nil
}

// File: /config/config.go
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

type Config struct {
	Host        string `env:"APP_HOST" envDefault:"localhost"`
	Port        string `env:"APP_PORT" envDefault:"8000"`
	Debug       bool   `env:"APP_DEBUG" envDefault:"true"`
	Title       string `env:"APP_TITLE" envDefault:"Concesionaria API"`
	Description string `env:"APP_DESCRIPTION" envDefault:"API para gestionar vehículos en una concesionaria"`
	Version     string `env:"APP_VERSION" envDefault:"1.0.0"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"INFO"`

	// Database
	DBDriver         string `env:"DB_DRIVER" envDefault:"sqlite"`
	DatabaseURL      string `env:"DATABASE_URL" envDefault:"data/database.db"`
	ClearDBOnStartup bool   `env:"CLEAR_DB_ON_STARTUP" envDefault:"false"`

	// Static files and images
	StaticDir         string        `env:"STATIC_DIR" envDefault:"static"`
	StaticURL         string        `env:"STATIC_URL" envDefault:"/static"`
	PublicBaseURL     string        `env:"PUBLIC_BASE_URL"`
	ImageFetchTimeout time.Duration `env:"IMAGE_FETCH_TIMEOUT" envDefault:"15s"`
	ImageMaxBytes     int64         `env:"IMAGE_MAX_BYTES" envDefault:"10485760"`

	// Email Configuration
	SMTPHost     string `env:"SMTP_HOST" envDefault:"localhost"`
	SMTPPort     int    `env:"SMTP_PORT" envDefault:"2525"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	FromEmail    string `env:"FROM_EMAIL" envDefault:"contacto@alejoide.com"`
	FromName     string `env:"FROM_NAME" envDefault:"Concesionaria"`
	// ToEmail receives the contact requests (the dealership inbox).
	ToEmail string `env:"TO_EMAIL" envDefault:"contacto@alejoide.com"`

	// HTTP
	ContactRatePerMinute int      `env:"CONTACT_RATE_PER_MINUTE" envDefault:"10"`
	ContactRateBurst     int      `env:"CONTACT_RATE_BURST" envDefault:"5"`
	CORSAllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
}

// Load reads .env (if present) and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	switch cfg.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q: must be sqlite, mysql or postgres", cfg.DBDriver)
	}

	if !strings.HasPrefix(cfg.StaticURL, "/") {
		cfg.StaticURL = "/" + cfg.StaticURL
	}
	cfg.StaticURL = strings.TrimRight(cfg.StaticURL, "/")
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")

	if cfg.ImageMaxBytes <= 0 {
		return nil, fmt.Errorf("IMAGE_MAX_BYTES must be positive, got %d", cfg.ImageMaxBytes)
	}
	if cfg.ContactRatePerMinute <= 0 {
		cfg.ContactRatePerMinute = 10
	}
	if cfg.ContactRateBurst <= 0 {
		cfg.ContactRateBurst = 1
	}

	return cfg, nil
}

// ImagesDir is where normalized car images are written.
func (c *Config) ImagesDir() string {
	return filepath.Join(c.StaticDir, "images")
}

// ImagesURL is the public prefix of the images directory.
func (c *Config) ImagesURL() string {
	return c.PublicBaseURL + c.StaticURL + "/images"
}

func (c *Config) Address() string {
	return c.Host + ":" + c.Port
}

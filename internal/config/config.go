package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	defaultRateLimit    = 60
	defaultLogRetention = 30 * 24 * time.Hour
)

type Config struct {
	// Database
	DBHost     string `env:"DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"DB_PORT"     envDefault:"5432"`
	DBUser     string `env:"DB_USER"     envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"     envDefault:"social_db"`
	DBSSLMode  string `env:"DB_SSLMODE"  envDefault:"disable"`

	// JWT (tokens are issued elsewhere, only validated here)
	JWTSecret string `env:"JWT_SECRET"`

	// Admin
	AdminEmails  string `env:"ADMIN_EMAILS"`
	AdminUserIDs string `env:"ADMIN_USER_IDS"`
	AdminToken   string `env:"ADMIN_TOKEN"`

	// Server
	Port        string `env:"PORT"         envDefault:"8080"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	RateLimit   int    `env:"RATE_LIMIT"   envDefault:"60"`

	// Observability
	SentryDSN    string        `env:"SENTRY_DSN"`
	AppEnv       string        `env:"APP_ENV"       envDefault:"development"`
	LogRetention time.Duration `env:"LOG_RETENTION" envDefault:"720h"`
}

// Load reads the configuration from the environment. Values that parse but
// make no sense, like a negative rate limit, are replaced by their defaults.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", withEnvKeys(err))
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = defaultRateLimit
	}
	if cfg.LogRetention <= 0 {
		cfg.LogRetention = defaultLogRetention
	}
	return &cfg, nil
}

// withEnvKeys rewrites field parse errors so they name the environment
// variable an operator set instead of the Go struct field.
func withEnvKeys(err error) error {
	var agg env.AggregateError
	if !errors.As(err, &agg) {
		return err
	}
	errs := make([]error, 0, len(agg.Errors))
	for _, e := range agg.Errors {
		var pe env.ParseError
		if errors.As(e, &pe) {
			if f, ok := reflect.TypeOf(Config{}).FieldByName(pe.Name); ok {
				key, _, _ := strings.Cut(f.Tag.Get("env"), ",")
				e = fmt.Errorf("invalid %s: %w", key, pe)
			}
		}
		errs = append(errs, e)
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

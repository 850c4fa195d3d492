package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	Port     string `mapstructure:"PORT"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DataFile       string `mapstructure:"DATA_FILE"`

	PostgresAddress  string `mapstructure:"POSTGRES_ADDRESS"`
	PostgresPort     string `mapstructure:"POSTGRES_PORT"`
	PostgresDB       string `mapstructure:"POSTGRES_DB"`
	PostgresUsername string `mapstructure:"POSTGRES_USERNAME"`
	PostgresPassword string `mapstructure:"POSTGRES_PASSWORD"`

	OperatorWorkers  int    `mapstructure:"OPERATOR_WORKERS"`
	Timezone         string `mapstructure:"TIMEZONE"`
	HistoryCacheSize int    `mapstructure:"HISTORY_CACHE_SIZE"`

	GoldPriceURL        string `mapstructure:"GOLD_PRICE_URL"`
	GoldPriceAPIKey     string `mapstructure:"GOLD_PRICE_API_KEY"`
	GoldPriceField      string `mapstructure:"GOLD_PRICE_FIELD"`
	GoldPriceFallback   string `mapstructure:"GOLD_PRICE_FALLBACK"`
	GoldRefreshSchedule string `mapstructure:"GOLD_REFRESH_SCHEDULE"`
	ZakatCheckSchedule  string `mapstructure:"ZAKAT_CHECK_SCHEDULE"`

	AMQPURL      string `mapstructure:"AMQP_URL"`
	AMQPExchange string `mapstructure:"AMQP_EXCHANGE"`

	JWTSecret          string `mapstructure:"JWT_SECRET"`
	CORSAllowedOrigins string `mapstructure:"CORS_ALLOWED_ORIGINS"`

	location     *time.Location
	goldFallback decimal.Decimal
}

// In all cases the default behavior should be for the docker compose setup
var defaults = map[string]any{
	"PORT":                  "8080",
	"LOG_LEVEL":             "info",
	"STORAGE_BACKEND":       StoragePostgres,
	"DATA_FILE":             "",
	"POSTGRES_ADDRESS":      "localhost",
	"POSTGRES_PORT":         "5433",
	"POSTGRES_DB":           "postgres",
	"POSTGRES_USERNAME":     "postgres",
	"POSTGRES_PASSWORD":     "testpassword",
	"OPERATOR_WORKERS":      1,
	"TIMEZONE":              "Local",
	"HISTORY_CACHE_SIZE":    128,
	"GOLD_PRICE_URL":        "",
	"GOLD_PRICE_API_KEY":    "",
	"GOLD_PRICE_FIELD":      "price_gram_24k",
	"GOLD_PRICE_FALLBACK":   "0",
	"GOLD_REFRESH_SCHEDULE": "@every 1h",
	"ZAKAT_CHECK_SCHEDULE":  "0 8 * * *",
	"AMQP_URL":              "",
	"AMQP_EXCHANGE":         "finance.events",
	"JWT_SECRET":            "",
	"CORS_ALLOWED_ORIGINS":  "*",
}

// ProcessEnvironmentVariables reads an optional .env file and the process environment.
func ProcessEnvironmentVariables() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()

	var env Config
	if err := v.Unmarshal(&env); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := env.Validate(); err != nil {
		return nil, err
	}
	return &env, nil
}

// Validate checks the configuration and resolves derived values.
func (c *Config) Validate() error {
	var errs []error

	c.StorageBackend = strings.ToLower(strings.TrimSpace(c.StorageBackend))
	if c.StorageBackend != StorageMemory && c.StorageBackend != StoragePostgres {
		errs = append(errs, fmt.Errorf("STORAGE_BACKEND must be %q or %q, got %q", StorageMemory, StoragePostgres, c.StorageBackend))
	}
	if c.OperatorWorkers < 1 {
		errs = append(errs, fmt.Errorf("OPERATOR_WORKERS must be at least 1, got %d", c.OperatorWorkers))
	}
	if c.HistoryCacheSize < 1 {
		errs = append(errs, fmt.Errorf("HISTORY_CACHE_SIZE must be at least 1, got %d", c.HistoryCacheSize))
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	c.location = loc

	fallback, err := decimal.NewFromString(strings.TrimSpace(c.GoldPriceFallback))
	if err != nil || fallback.IsNegative() {
		errs = append(errs, fmt.Errorf("GOLD_PRICE_FALLBACK must be a non-negative number, got %q", c.GoldPriceFallback))
	}
	c.goldFallback = fallback

	for name, spec := range map[string]string{
		"GOLD_REFRESH_SCHEDULE": c.GoldRefreshSchedule,
		"ZAKAT_CHECK_SCHEDULE":  c.ZakatCheckSchedule,
	} {
		if _, err := cron.ParseStandard(spec); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}

// ConnectionString is the lib/pq URL for the configured database.
func (c *Config) ConnectionString() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.PostgresUsername, c.PostgresPassword),
		Host:     c.PostgresAddress + ":" + c.PostgresPort,
		Path:     "/" + c.PostgresDB,
		RawQuery: "sslmode=disable",
	}
	return u.String()
}

// Location is the time zone calendar days are computed in.
func (c *Config) Location() *time.Location {
	if c.location == nil {
		return time.Local
	}
	return c.location
}

func (c *Config) GoldFallback() decimal.Decimal {
	return c.goldFallback
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSAllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"emojiorder/internal/adapters/out/postgres"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort string `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// An empty DBHost keeps orders in memory.
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSslMode  string `env:"DB_SSLMODE" envDefault:"disable"`

	CatalogPath string `env:"CATALOG_PATH"`

	// Without an API key charges come from the demo gateway.
	PaymentAPIKey        string `env:"PAYMENT_API_KEY"`
	PaymentAPIURL        string `env:"PAYMENT_API_URL" envDefault:"https://api.commerce.coinbase.com"`
	PaymentWebhookSecret string `env:"PAYMENT_WEBHOOK_SECRET"`
	PaymentCurrency      string `env:"PAYMENT_CURRENCY" envDefault:"USD"`
	PaymentRedirectURL   string `env:"PAYMENT_REDIRECT_URL"`

	HomeAssistantURL   string `env:"HOME_ASSISTANT_URL"`
	HomeAssistantToken string `env:"HOME_ASSISTANT_TOKEN"`

	// Without an RPC URL transaction monitoring is disabled.
	EthRPCURL         string        `env:"ETH_RPC_URL"`
	TxPollInterval    time.Duration `env:"TX_POLL_INTERVAL" envDefault:"8s"`
	TxTimeout         time.Duration `env:"TX_TIMEOUT" envDefault:"30m"`
	HTTPClientTimeout time.Duration `env:"HTTP_CLIENT_TIMEOUT" envDefault:"10s"`
	HTTPClientRetries int           `env:"HTTP_CLIENT_RETRIES" envDefault:"2"`
}

// LoadConfig reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", file, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if c.HTTPPort == "" {
		return errors.New("HTTP_PORT must be set")
	}
	if c.UsesPostgres() && (c.DBUser == "" || c.DBName == "") {
		return errors.New("DB_USER and DB_NAME must be set when DB_HOST is set")
	}
	if c.TxPollInterval <= 0 || c.TxTimeout <= 0 {
		return errors.New("TX_POLL_INTERVAL and TX_TIMEOUT must be positive")
	}
	if c.HTTPClientRetries < 0 {
		return errors.New("HTTP_CLIENT_RETRIES must not be negative")
	}
	if _, err := c.SlogLevel(); err != nil {
		return err
	}
	return nil
}

func (c Config) UsesPostgres() bool {
	return c.DBHost != ""
}

func (c Config) ConnectionSettings() postgres.ConnectionSettings {
	return postgres.ConnectionSettings{
		Host:     c.DBHost,
		Port:     c.DBPort,
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
		SSLMode:  c.DBSslMode,
	}
}

// SlogLevel parses LOG_LEVEL (debug, info, warn, error).
func (c Config) SlogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.LogLevel))); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return level, nil
}

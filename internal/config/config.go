package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "pgx"
)

// Config holds application configuration values.
type Config struct {
	Secret          string `env:"SECRET" envDefault:"dev_secret"`
	HTTPPort        int    `env:"HTTP_PORT" envDefault:"8080"`
	LogLevel        string `env:"LOG_LEVEL" envDefault:"info"`
	SeedProductsCSV string `env:"SEED_PRODUCTS_CSV"`
	Database        Database
	Billing         Billing
	Kafka           Kafka
}

type Database struct {
	Driver       string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN          string `env:"DATABASE_DSN" envDefault:"file:retailshop.db?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_time_format=sqlite"`
	MaxOpenConns int    `env:"DB_MAX_OPEN_CONNS" envDefault:"0"`
}

type Billing struct {
	// HomeStateCode is the GST state code of the shop, used to decide
	// whether a supply is inter-state.
	HomeStateCode      string `env:"HOME_STATE_CODE" envDefault:"33"`
	InvoiceMaxAttempts int    `env:"INVOICE_MAX_ATTEMPTS" envDefault:"3"`
}

type Kafka struct {
	Brokers    []string `env:"KAFKA_BROKERS"`
	BillsTopic string   `env:"KAFKA_BILLS_TOPIC" envDefault:"bills.created"`
}

// Load reads envPath (if it exists) into the environment and parses the
// configuration from it.
func Load(envPath string) (Config, error) {
	err := godotenv.Load(envPath)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load %s: %w", envPath, err)
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.Database.Driver != DriverSQLite && cfg.Database.Driver != DriverPostgres {
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q", DriverSQLite, DriverPostgres, cfg.Database.Driver)
	}

	if cfg.HTTPPort <= 0 || cfg.HTTPPort > 65535 {
		return Config{}, fmt.Errorf("invalid HTTP_PORT %d", cfg.HTTPPort)
	}

	return cfg, nil
}

package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"retailshop/m/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"SECRET", "HTTP_PORT", "DB_DRIVER", "DATABASE_DSN", "HOME_STATE_CODE", "INVOICE_MAX_ATTEMPTS", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, "dev_secret", cfg.Secret)
	require.Equal(t, 8080, cfg.HTTPPort)
	require.Equal(t, config.DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "33", cfg.Billing.HomeStateCode)
	require.Equal(t, 3, cfg.Billing.InvoiceMaxAttempts)
	require.Empty(t, cfg.Kafka.Brokers)
}

func TestLoad_FromEnvFile(t *testing.T) {
	for _, k := range []string{"HTTP_PORT", "DB_DRIVER", "INVOICE_MAX_ATTEMPTS", "KAFKA_BROKERS"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	path := filepath.Join(t.TempDir(), ".env")
	content := "HTTP_PORT=9090\nDB_DRIVER=pgx\nINVOICE_MAX_ATTEMPTS=8\nKAFKA_BROKERS=a:9092,b:9092\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, 9090, cfg.HTTPPort)
	require.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	require.Equal(t, 8, cfg.Billing.InvoiceMaxAttempts)
	require.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := config.Load(filepath.Join(t.TempDir(), "missing.env"))
	require.Error(t, err)
}

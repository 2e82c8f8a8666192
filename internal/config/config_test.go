package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFileDefaults(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "restaurant-billing", cfg.App.Name)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "0.05", cfg.Billing.DefaultGSTRate.String())
	assert.Equal(t, "none", cfg.Printer.Type)
	assert.Equal(t, 32, cfg.Printer.Width)
	require.NoError(t, cfg.Validate())
}

func TestLoadFileReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "APP_PORT=9090\nDB_DRIVER=POSTGRES\nBILLING_DEFAULT_GST_RATE=0.18\nAPP_TIMEZONE=UTC\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg := LoadFile(path)

	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "0.18", cfg.Billing.DefaultGSTRate.String())
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadSettings(t *testing.T) {
	cfg := LoadFile(filepath.Join(t.TempDir(), "missing.env"))

	cfg.Database.Driver = "mysql"
	assert.Error(t, cfg.Validate())

	cfg.Database.Driver = "sqlite"
	cfg.App.Timezone = "Not/AZone"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "h", User: "u", Password: "p", Name: "n", Port: "5432", SSLMode: "disable", Timezone: "UTC"}
	assert.Equal(t, "host=h user=u password=p dbname=n port=5432 sslmode=disable TimeZone=UTC", db.DSN())
}

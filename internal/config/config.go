package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Log       LogConfig
	Database  DatabaseConfig
	Billing   BillingConfig
	Printer   PrinterConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name     string
	Env      string
	Port     string
	Timezone string
}

type LogConfig struct {
	Level  string
	Format string
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       string
	Name       string
	User       string
	Password   string
	SSLMode    string
	Timezone   string
	SQLitePath string
}

// BillingConfig holds the restaurant-wide billing parameters
type BillingConfig struct {
	DefaultGSTRate decimal.Decimal
	StoreName      string
	StoreAddress   string
	StorePhone     string
	GSTIN          string
	Currency       string
}

type PrinterConfig struct {
	Type    string
	USBPath string
	Address string
	Width   int
}

type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

type RateLimitConfig struct {
	Requests int
	Duration int
}

// Load reads configuration from .env in the working directory and the environment
func Load() *Config {
	return LoadFile(".env")
}

// LoadFile reads configuration from the given env file, falling back to
// environment variables and defaults when the file is missing
func LoadFile(path string) *Config {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		logrus.WithError(err).Debug("config file not found, using environment variables")
	}

	setDefaults(v)

	return &Config{
		App: AppConfig{
			Name:     v.GetString("APP_NAME"),
			Env:      v.GetString("APP_ENV"),
			Port:     v.GetString("APP_PORT"),
			Timezone: v.GetString("APP_TIMEZONE"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		Database: DatabaseConfig{
			Driver:     strings.ToLower(v.GetString("DB_DRIVER")),
			Host:       v.GetString("DB_HOST"),
			Port:       v.GetString("DB_PORT"),
			Name:       v.GetString("DB_NAME"),
			User:       v.GetString("DB_USER"),
			Password:   v.GetString("DB_PASSWORD"),
			SSLMode:    v.GetString("DB_SSL_MODE"),
			Timezone:   v.GetString("DB_TIMEZONE"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Billing: BillingConfig{
			DefaultGSTRate: parseRate(v.GetString("BILLING_DEFAULT_GST_RATE")),
			StoreName:      v.GetString("BILLING_STORE_NAME"),
			StoreAddress:   v.GetString("BILLING_STORE_ADDRESS"),
			StorePhone:     v.GetString("BILLING_STORE_PHONE"),
			GSTIN:          v.GetString("BILLING_GSTIN"),
			Currency:       v.GetString("BILLING_CURRENCY"),
		},
		Printer: PrinterConfig{
			Type:    v.GetString("PRINTER_TYPE"),
			USBPath: v.GetString("PRINTER_USB_PATH"),
			Address: v.GetString("PRINTER_ADDRESS"),
			Width:   v.GetInt("PRINTER_WIDTH"),
		},
		CORS: CORSConfig{
			AllowedOrigins: v.GetStringSlice("CORS_ALLOWED_ORIGINS"),
			AllowedMethods: v.GetStringSlice("CORS_ALLOWED_METHODS"),
			AllowedHeaders: v.GetStringSlice("CORS_ALLOWED_HEADERS"),
		},
		RateLimit: RateLimitConfig{
			Requests: v.GetInt("RATE_LIMIT_REQUESTS"),
			Duration: v.GetInt("RATE_LIMIT_DURATION"),
		},
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_NAME", "restaurant-billing")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("APP_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")
	v.SetDefault("DB_DRIVER", "sqlite")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_NAME", "restaurant_billing")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("SQLITE_PATH", "restaurant.db")
	v.SetDefault("BILLING_DEFAULT_GST_RATE", "0.05")
	v.SetDefault("BILLING_STORE_NAME", "Restaurant Bill")
	v.SetDefault("BILLING_CURRENCY", "Rs.")
	v.SetDefault("PRINTER_TYPE", "none")
	v.SetDefault("PRINTER_WIDTH", 32)
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_REQUESTS", 100)
	v.SetDefault("RATE_LIMIT_DURATION", 60)
}

func parseRate(s string) decimal.Decimal {
	rate, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		logrus.WithError(err).Warnf("invalid BILLING_DEFAULT_GST_RATE %q, using 0.05", s)
		return decimal.RequireFromString("0.05")
	}
	return rate
}

// Validate checks settings that would otherwise fail later at request time
func (c *Config) Validate() error {
	if _, err := c.App.Location(); err != nil {
		return err
	}
	if c.Billing.DefaultGSTRate.IsNegative() || c.Billing.DefaultGSTRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("config: BILLING_DEFAULT_GST_RATE must be between 0 and 1, got %s", c.Billing.DefaultGSTRate)
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q (use postgres or sqlite)", c.Database.Driver)
	}
	return nil
}

// Location returns the business time zone used to bucket orders into calendar days
func (c *AppConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether the app runs in production mode
func (c *AppConfig) IsProduction() bool {
	return c.Env == "production"
}

func (c *DatabaseConfig) DSN() string {
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.Timezone
}

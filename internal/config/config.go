package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/money"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	Database DatabaseConfig
	App      AppConfig
	Leave    LeaveConfig
	Payroll  PayrollConfig
	Ledger   LedgerConfig
	Jobs     JobsConfig
}

type DatabaseConfig struct {
	Driver       string
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	QueryTimeout time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	CORSAllowedOrigins []string
	EmployeeSeedFile   string
}

type LeaveConfig struct {
	// BalancePolicy is "flag" or "enforce".
	BalancePolicy    string
	DefaultAnnual    int
	DefaultSick      int
	DefaultEmergency int
}

type PayrollConfig struct {
	Currency      string
	StandardHours float64
}

// LedgerConfig points at the external accounting ledger. An empty URL keeps
// journal entries in the outbox.
type LedgerConfig struct {
	URL            string
	RelayInterval  time.Duration
	RequestTimeout time.Duration
	AccountCash    string
	AccountBank    string
	AccountCheck   string
}

type JobsConfig struct {
	AbsenceCutoffHour int
}

// Load reads the environment, optionally primed from a .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("Failed to load .env file", "error", err)
	}

	var p parser
	config := &Config{}

	config.Database = DatabaseConfig{
		Driver:       strings.ToLower(getEnv("STORAGE_DRIVER", StorageDriverPostgres)),
		Host:         getEnv("DB_HOST", "localhost"),
		Port:         p.int("DB_PORT", 5432),
		User:         getEnv("DB_USER", "postgres"),
		Password:     getEnv("DB_PASSWORD", ""),
		Name:         getEnv("DB_NAME", "workforce"),
		SSLMode:      getEnv("DB_SSL_MODE", "disable"),
		QueryTimeout: p.duration("DB_QUERY_TIMEOUT", 5*time.Second),
	}

	config.App = AppConfig{
		Port:               p.int("APP_PORT", 8080),
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		EmployeeSeedFile:   getEnv("EMPLOYEE_SEED_FILE", ""),
	}

	config.Leave = LeaveConfig{
		BalancePolicy:    strings.ToLower(getEnv("LEAVE_BALANCE_POLICY", "flag")),
		DefaultAnnual:    p.int("LEAVE_DEFAULT_ANNUAL", 30),
		DefaultSick:      p.int("LEAVE_DEFAULT_SICK", 30),
		DefaultEmergency: p.int("LEAVE_DEFAULT_EMERGENCY", 5),
	}

	config.Payroll = PayrollConfig{
		Currency:      strings.ToUpper(getEnv("PAYROLL_CURRENCY", "USD")),
		StandardHours: p.float("PAYROLL_STANDARD_HOURS", 8),
	}

	config.Ledger = LedgerConfig{
		URL:            getEnv("LEDGER_URL", ""),
		RelayInterval:  p.duration("LEDGER_RELAY_INTERVAL", time.Minute),
		RequestTimeout: p.duration("LEDGER_REQUEST_TIMEOUT", 10*time.Second),
		AccountCash:    getEnv("LEDGER_ACCOUNT_CASH", "Cash"),
		AccountBank:    getEnv("LEDGER_ACCOUNT_BANK", "Bank"),
		AccountCheck:   getEnv("LEDGER_ACCOUNT_CHECK", "Checks Payable"),
	}

	config.Jobs = JobsConfig{
		AbsenceCutoffHour: p.int("ABSENCE_CUTOFF_HOUR", 1),
	}

	if p.err != nil {
		return nil, p.err
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case StorageDriverPostgres:
		if c.Database.Password == "" {
			errs = append(errs, fmt.Errorf("DB_PASSWORD is required"))
		}
	case StorageDriverMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be %q or %q", StorageDriverPostgres, StorageDriverMemory))
	}
	if c.Database.QueryTimeout <= 0 {
		errs = append(errs, fmt.Errorf("DB_QUERY_TIMEOUT must be positive"))
	}

	if c.App.Port <= 0 || c.App.Port > 65535 {
		errs = append(errs, fmt.Errorf("APP_PORT must be between 1 and 65535"))
	}

	if c.Leave.BalancePolicy != "flag" && c.Leave.BalancePolicy != "enforce" {
		errs = append(errs, fmt.Errorf("LEAVE_BALANCE_POLICY must be flag or enforce"))
	}
	if c.Leave.DefaultAnnual < 0 || c.Leave.DefaultSick < 0 || c.Leave.DefaultEmergency < 0 {
		errs = append(errs, fmt.Errorf("LEAVE_DEFAULT_* must not be negative"))
	}

	if !money.IsKnownCurrency(c.Payroll.Currency) {
		errs = append(errs, fmt.Errorf("PAYROLL_CURRENCY %q is not a known ISO 4217 code", c.Payroll.Currency))
	}
	if c.Payroll.StandardHours <= 0 || c.Payroll.StandardHours > 24 {
		errs = append(errs, fmt.Errorf("PAYROLL_STANDARD_HOURS must be in (0, 24]"))
	}

	if c.Ledger.URL != "" && c.Ledger.RelayInterval <= 0 {
		errs = append(errs, fmt.Errorf("LEDGER_RELAY_INTERVAL must be positive"))
	}

	if c.Jobs.AbsenceCutoffHour < 0 || c.Jobs.AbsenceCutoffHour > 23 {
		errs = append(errs, fmt.Errorf("ABSENCE_CUTOFF_HOUR must be between 0 and 23"))
	}

	return errors.Join(errs...)
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// parser collects the first conversion error so Load can report it once.
type parser struct {
	err error
}

func (p *parser) int(key string, fallback int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) float(key string, fallback float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("invalid %s: %w", key, err)
	}
	return v
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env string, fallback []string) []string {
	value := getEnv(env, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

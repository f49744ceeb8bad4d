package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MemoryDefaults(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, "flag", cfg.Leave.BalancePolicy)
	assert.Equal(t, 30, cfg.Leave.DefaultAnnual)
	assert.Equal(t, 5, cfg.Leave.DefaultEmergency)
	assert.Equal(t, "USD", cfg.Payroll.Currency)
	assert.Equal(t, 8.0, cfg.Payroll.StandardHours)
	assert.Empty(t, cfg.Ledger.URL)
	assert.Equal(t, time.Minute, cfg.Ledger.RelayInterval)
}

func TestLoad_InvalidNumber(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("APP_PORT", "eighty")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APP_PORT")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: StorageDriverPostgres, Password: "secret", QueryTimeout: time.Second},
			App:      AppConfig{Port: 8080},
			Leave:    LeaveConfig{BalancePolicy: "enforce", DefaultAnnual: 30, DefaultSick: 30, DefaultEmergency: 5},
			Payroll:  PayrollConfig{Currency: "USD", StandardHours: 8},
			Ledger:   LedgerConfig{RelayInterval: time.Minute},
			Jobs:     JobsConfig{AbsenceCutoffHour: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "postgres without password", mutate: func(c *Config) { c.Database.Password = "" }, wantErr: "DB_PASSWORD"},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "sqlite" }, wantErr: "STORAGE_DRIVER"},
		{name: "unknown policy", mutate: func(c *Config) { c.Leave.BalancePolicy = "strict" }, wantErr: "LEAVE_BALANCE_POLICY"},
		{name: "bad currency", mutate: func(c *Config) { c.Payroll.Currency = "DOLLAR" }, wantErr: "PAYROLL_CURRENCY"},
		{name: "unknown three-letter currency", mutate: func(c *Config) { c.Payroll.Currency = "ZZZ" }, wantErr: "PAYROLL_CURRENCY"},
		{name: "cutoff out of range", mutate: func(c *Config) { c.Jobs.AbsenceCutoffHour = 24 }, wantErr: "ABSENCE_CUTOFF_HOUR"},
		{name: "memory needs no password", mutate: func(c *Config) {
			c.Database.Driver = StorageDriverMemory
			c.Database.Password = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

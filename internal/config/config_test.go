package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAndValidate(t *testing.T) {
	// Create temp config file
	content := `
market_data:
  provider: "yahoo"
  yahoo_base_url: "https://query1.finance.yahoo.com"
  timeout: 10s
  max_retries: 2

simulation:
  paths: 5000
  horizon_days: 21
  volatility: 0.25
  reproducible: true
  seed: 7

strategy:
  initial_capital: 700000
  aggressive_target: 1000000
  moderate_target: 770000
  momentum_tickers:
    - NVDA
    - AMD

monitor:
  plan_path: "./plan.txt"
  interval: 30s

telegram:
  bot_token: "test_token"
  chat_id: "12345"
  enabled: true

storage:
  max_reports: 50
  file_path: "./data/test.json"

logging:
  level: "debug"
  format: "json"
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path, false)
	require.NoError(t, err)

	assert.Equal(t, "yahoo", cfg.MarketData.Provider)
	assert.Equal(t, 10*time.Second, cfg.MarketData.Timeout)
	assert.Equal(t, 5000, cfg.Simulation.Paths)
	assert.Equal(t, 21, cfg.Simulation.HorizonDays)
	assert.InDelta(t, 0.25, cfg.Simulation.Volatility, 1e-12)
	assert.Equal(t, []string{"NVDA", "AMD"}, cfg.Strategy.MomentumTickers)
	assert.Len(t, cfg.Strategy.ModerateTickers, 15, "default moderate universe")
	assert.Equal(t, 30*time.Second, cfg.Monitor.Interval)
	assert.Equal(t, "debug", cfg.Logging.Level)

	seed := cfg.Simulation.SeedPtr()
	require.NotNil(t, seed)
	assert.Equal(t, uint64(7), *seed)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	_, err := Load(missing, false)
	assert.Error(t, err)

	cfg, err := Load(missing, true)
	require.NoError(t, err)
	assert.Equal(t, 10000, cfg.Simulation.Paths)
	assert.Nil(t, cfg.Simulation.SeedPtr(), "entropy seeding by default")
	assert.Equal(t, ":3003", cfg.Server.Addr)
	assert.Contains(t, cfg.Server.MarketTickers, "QQQ")
	require.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TRADE_ORACLE_SIMULATION_PATHS", "1234")
	t.Setenv("TRADE_ORACLE_MARKET_DATA_PROVIDER", "polygon")
	t.Setenv("TRADE_ORACLE_MARKET_DATA_POLYGON_API_KEY", "pk")

	cfg, err := Load("", true)
	require.NoError(t, err)
	assert.Equal(t, 1234, cfg.Simulation.Paths)
	assert.Equal(t, "polygon", cfg.MarketData.Provider)
	assert.Equal(t, "pk", cfg.MarketData.PolygonAPIKey)
	require.NoError(t, cfg.Validate())
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "absent.env")))

	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRADE_ORACLE_TEST_ONLY_KEY=abc\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TRADE_ORACLE_TEST_ONLY_KEY") })

	require.NoError(t, LoadEnvFile(envPath))
	assert.Equal(t, "abc", os.Getenv("TRADE_ORACLE_TEST_ONLY_KEY"))
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	cfg, err := Load("", true)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown provider", func(c *Config) { c.MarketData.Provider = "bloomberg" }},
		{"polygon without key", func(c *Config) { c.MarketData.Provider = "polygon" }},
		{"alpaca without secret", func(c *Config) {
			c.MarketData.Provider = "alpaca"
			c.MarketData.AlpacaAPIKey = "key"
		}},
		{"zero paths", func(c *Config) { c.Simulation.Paths = 0 }},
		{"zero horizon", func(c *Config) { c.Simulation.HorizonDays = 0 }},
		{"negative volatility", func(c *Config) { c.Simulation.Volatility = -0.1 }},
		{"target below capital", func(c *Config) { c.Strategy.ModerateTarget = 100 }},
		{"no momentum tickers", func(c *Config) { c.Strategy.MomentumTickers = nil }},
		{"short lookback", func(c *Config) { c.Strategy.MomentumLookback = 5 }},
		{"missing telegram token when enabled", func(c *Config) {
			c.Telegram.Enabled = true
			c.Telegram.ChatID = "1"
		}},
		{"fast monitor interval", func(c *Config) { c.Monitor.Interval = time.Millisecond }},
		{"bad log level", func(c *Config) { c.Logging.Level = "trace" }},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. TRADE_ORACLE_MARKET_DATA_PROVIDER.
const EnvPrefix = "TRADE_ORACLE"

// Config represents the complete application configuration
type Config struct {
	MarketData MarketDataConfig `mapstructure:"market_data"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Strategy   StrategyConfig   `mapstructure:"strategy"`
	Monitor    MonitorConfig    `mapstructure:"monitor"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Server     ServerConfig     `mapstructure:"server"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// MarketDataConfig selects and configures the price history provider
type MarketDataConfig struct {
	Provider        string        `mapstructure:"provider"` // yahoo, polygon or alpaca
	YahooBaseURL    string        `mapstructure:"yahoo_base_url"`
	PolygonAPIKey   string        `mapstructure:"polygon_api_key"`
	AlpacaAPIKey    string        `mapstructure:"alpaca_api_key"`
	AlpacaAPISecret string        `mapstructure:"alpaca_api_secret"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryDelayBase  time.Duration `mapstructure:"retry_delay_base"`
}

// SimulationConfig holds Monte Carlo defaults
type SimulationConfig struct {
	Paths        int     `mapstructure:"paths"`
	HorizonDays  int     `mapstructure:"horizon_days"`
	Volatility   float64 `mapstructure:"volatility"`
	Drift        float64 `mapstructure:"drift"`
	Reproducible bool    `mapstructure:"reproducible"`
	Seed         uint64  `mapstructure:"seed"`
	Workers      int     `mapstructure:"workers"`
}

// SeedPtr returns the configured seed, or nil when draws should come from system entropy.
func (s SimulationConfig) SeedPtr() *uint64 {
	if !s.Reproducible {
		return nil
	}
	seed := s.Seed
	return &seed
}

// StrategyConfig holds capital targets and ticker universes for the analysis pipelines
type StrategyConfig struct {
	InitialCapital    float64  `mapstructure:"initial_capital"`
	AggressiveTarget  float64  `mapstructure:"aggressive_target"`
	ModerateTarget    float64  `mapstructure:"moderate_target"`
	MomentumTickers   []string `mapstructure:"momentum_tickers"`
	ModerateTickers   []string `mapstructure:"moderate_tickers"`
	MomentumLookback  int      `mapstructure:"momentum_lookback_days"`
	ModerateLookback  int      `mapstructure:"moderate_lookback_days"`
	InvestmentResults string   `mapstructure:"investment_results"`
	RealisticResults  string   `mapstructure:"realistic_results"`
	WSBResults        string   `mapstructure:"wsb_results"`
}

// MonitorConfig holds plan-file monitoring configuration
type MonitorConfig struct {
	PlanPath string        `mapstructure:"plan_path"`
	Interval time.Duration `mapstructure:"interval"`
	Watch    bool          `mapstructure:"watch"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// StorageConfig holds storage and persistence configuration
type StorageConfig struct {
	MaxReports      int    `mapstructure:"max_reports"`
	FilePath        string `mapstructure:"file_path"`
	CSVDir          string `mapstructure:"csv_dir"`
	FilePermissions uint32 `mapstructure:"file_permissions"`
	DirPermissions  uint32 `mapstructure:"dir_permissions"`
}

// ServerConfig holds HTTP API configuration
type ServerConfig struct {
	Addr          string        `mapstructure:"addr"`
	ReadTimeout   time.Duration `mapstructure:"read_timeout"`
	WriteTimeout  time.Duration `mapstructure:"write_timeout"`
	MarketTickers []string      `mapstructure:"market_tickers"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// LoadEnvFile loads KEY=VALUE pairs from path into the process environment.
// A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// Load reads configuration from file and environment variables.
// When optional is true a missing file falls back to defaults plus environment.
func Load(path string, optional bool) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			missing := errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
			if !(optional && missing) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Market data defaults
	v.SetDefault("market_data.provider", "yahoo")
	v.SetDefault("market_data.yahoo_base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("market_data.polygon_api_key", "")
	v.SetDefault("market_data.alpaca_api_key", "")
	v.SetDefault("market_data.alpaca_api_secret", "")
	v.SetDefault("market_data.timeout", "30s")
	v.SetDefault("market_data.max_retries", 3)
	v.SetDefault("market_data.retry_delay_base", "1s")

	// Simulation defaults
	v.SetDefault("simulation.paths", 10000)
	v.SetDefault("simulation.horizon_days", 30)
	v.SetDefault("simulation.volatility", 0.30)
	v.SetDefault("simulation.drift", 0.0)
	v.SetDefault("simulation.reproducible", false)
	v.SetDefault("simulation.seed", 42)
	v.SetDefault("simulation.workers", 0)

	// Strategy defaults
	v.SetDefault("strategy.initial_capital", 700000.0)
	v.SetDefault("strategy.aggressive_target", 1000000.0)
	v.SetDefault("strategy.moderate_target", 770000.0)
	v.SetDefault("strategy.momentum_tickers", []string{"NVDA", "TSLA", "AMD", "AAPL", "SPY", "QQQ", "MSFT", "META"})
	v.SetDefault("strategy.moderate_tickers", []string{
		"AAPL", "MSFT", "GOOGL", "AMZN", "NVDA", "TSLA", "META",
		"JPM", "JNJ", "PG", "KO", "DIS", "HD", "WMT", "V",
	})
	v.SetDefault("strategy.momentum_lookback_days", 31)
	v.SetDefault("strategy.moderate_lookback_days", 92)
	v.SetDefault("strategy.investment_results", "investment_analysis_results.json")
	v.SetDefault("strategy.realistic_results", "realistic_strategy_results.json")
	v.SetDefault("strategy.wsb_results", "wsb_analysis_output.json")

	// Monitor defaults
	v.SetDefault("monitor.plan_path", "project_plan.txt")
	v.SetDefault("monitor.interval", "60s")
	v.SetDefault("monitor.watch", false)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.bot_token", "")
	v.SetDefault("telegram.chat_id", "")
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Storage defaults
	v.SetDefault("storage.max_reports", 200)
	v.SetDefault("storage.file_path", "./data/tradeoracle.json")
	v.SetDefault("storage.csv_dir", "./data")
	v.SetDefault("storage.file_permissions", 0o644)
	v.SetDefault("storage.dir_permissions", 0o755)

	// Server defaults
	v.SetDefault("server.addr", ":3003")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.market_tickers", []string{"MSFT", "GOOGL", "AMD", "QQQ", "SPY", "NVDA"})

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate market data config
	switch c.MarketData.Provider {
	case "yahoo":
		if c.MarketData.YahooBaseURL == "" {
			return fmt.Errorf("market_data.yahoo_base_url is required for the yahoo provider")
		}
	case "polygon":
		if c.MarketData.PolygonAPIKey == "" {
			return fmt.Errorf("market_data.polygon_api_key is required for the polygon provider")
		}
	case "alpaca":
		if c.MarketData.AlpacaAPIKey == "" || c.MarketData.AlpacaAPISecret == "" {
			return fmt.Errorf("market_data.alpaca_api_key and market_data.alpaca_api_secret are required for the alpaca provider")
		}
	default:
		return fmt.Errorf("market_data.provider must be one of: yahoo, polygon, alpaca")
	}
	if c.MarketData.Timeout < time.Second {
		return fmt.Errorf("market_data.timeout must be at least 1 second")
	}
	if c.MarketData.MaxRetries < 1 {
		return fmt.Errorf("market_data.max_retries must be at least 1")
	}

	// Validate simulation config
	if c.Simulation.Paths < 1 {
		return fmt.Errorf("simulation.paths must be at least 1")
	}
	if c.Simulation.HorizonDays < 1 {
		return fmt.Errorf("simulation.horizon_days must be at least 1")
	}
	if c.Simulation.Volatility < 0 {
		return fmt.Errorf("simulation.volatility must not be negative")
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must not be negative")
	}

	// Validate strategy config
	if c.Strategy.InitialCapital <= 0 {
		return fmt.Errorf("strategy.initial_capital must be positive")
	}
	if c.Strategy.AggressiveTarget <= c.Strategy.InitialCapital {
		return fmt.Errorf("strategy.aggressive_target must exceed strategy.initial_capital")
	}
	if c.Strategy.ModerateTarget <= c.Strategy.InitialCapital {
		return fmt.Errorf("strategy.moderate_target must exceed strategy.initial_capital")
	}
	if len(c.Strategy.MomentumTickers) == 0 {
		return fmt.Errorf("strategy.momentum_tickers must contain at least one ticker")
	}
	if len(c.Strategy.ModerateTickers) == 0 {
		return fmt.Errorf("strategy.moderate_tickers must contain at least one ticker")
	}
	if c.Strategy.MomentumLookback < 21 || c.Strategy.ModerateLookback < 21 {
		return fmt.Errorf("strategy lookback windows must be at least 21 days")
	}

	// Validate monitor config
	if c.Monitor.PlanPath == "" {
		return fmt.Errorf("monitor.plan_path is required")
	}
	if c.Monitor.Interval < time.Second {
		return fmt.Errorf("monitor.interval must be at least 1 second")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Storage config
	if c.Storage.MaxReports < 1 {
		return fmt.Errorf("storage.max_reports must be at least 1")
	}
	if c.Storage.FilePath == "" {
		return fmt.Errorf("storage.file_path is required")
	}

	// Validate Server config
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

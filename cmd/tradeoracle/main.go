package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/config"
	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/storage"
	"github.com/rewired-gh/tradeoracle/internal/telegram"
)

const defaultConfigPath = "configs/config.yaml"

var (
	configPath string
	envFile    string
)

var rootCmd = &cobra.Command{
	Use:           "tradeoracle",
	Short:         "Options strategy analysis, Monte Carlo probabilities and plan monitoring",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfigPath, "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file with API keys")

	rootCmd.AddCommand(simulateCmd, analyzeCmd, realisticCmd, wsbCmd, monitorCmd, serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("%v", err)
	}
}

// loadConfig reads .env, the config file and the environment, validates the result
// and sets up logging. Only the default config path may be missing.
func loadConfig() (*config.Config, error) {
	if err := config.LoadEnvFile(envFile); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath, configPath == defaultConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	logger.Debug("Configuration loaded (file: %s)", configPath)
	return cfg, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigChan:
			logger.Info("Shutdown signal received, cleaning up...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	store := storage.New(
		cfg.Storage.MaxReports,
		cfg.Storage.FilePath,
		os.FileMode(cfg.Storage.FilePermissions),
		os.FileMode(cfg.Storage.DirPermissions),
	)
	if err := store.Load(); err != nil {
		return nil, err
	}
	logger.Debug("Loaded %d stored reports from %s", store.Count(), store.FilePath())
	return store, nil
}

// newTelegram returns nil when notifications are disabled.
func newTelegram(cfg *config.Config) (*telegram.Client, error) {
	if !cfg.Telegram.Enabled {
		logger.Debug("Telegram notifications disabled")
		return nil, nil
	}
	client, err := telegram.NewClient(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Telegram.MaxRetries, cfg.Telegram.RetryDelayBase)
	if err != nil {
		return nil, err
	}
	logger.Info("Telegram client initialized successfully")
	return client, nil
}

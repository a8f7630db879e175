package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/analyzer"
	"github.com/rewired-gh/tradeoracle/internal/marketdata"
	"github.com/rewired-gh/tradeoracle/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard HTTP API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config)")
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = serveAddr
	}

	provider, err := marketdata.New(cfg.MarketData)
	if err != nil {
		return err
	}
	store, err := openStorage(cfg)
	if err != nil {
		return err
	}

	// Each request gets a fresh Analyzer so quotes are never served from a stale cache.
	quotes := server.QuoteFunc(func(ctx context.Context, tickers []string) []analyzer.LatestQuote {
		return analyzer.New(provider, cfg.Strategy, cfg.Simulation).Quotes(ctx, tickers)
	})

	ctx, cancel := signalContext()
	defer cancel()

	return server.New(store, quotes, cfg.Server.MarketTickers, cfg.Simulation).ListenAndServe(ctx, cfg.Server)
}

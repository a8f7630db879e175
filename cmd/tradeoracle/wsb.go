package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/console"
	"github.com/rewired-gh/tradeoracle/internal/logger"
	"github.com/rewired-gh/tradeoracle/internal/storage"
	"github.com/rewired-gh/tradeoracle/internal/strategy"
)

var wsbModerate bool

var wsbCmd = &cobra.Command{
	Use:   "wsb",
	Short: "Print the forum-sentiment options strategy catalog",
	RunE:  runWSB,
}

func init() {
	wsbCmd.Flags().BoolVar(&wsbModerate, "moderate", false, "Use the moderate-risk catalog for the 10% target")
}

func runWSB(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := console.New(os.Stdout)
	now := time.Now()
	initial := cfg.Strategy.InitialCapital

	var report any
	if wsbModerate {
		r := strategy.Moderate(now, initial, cfg.Strategy.ModerateTarget)
		out.Moderate(r)
		report = r
	} else {
		r := strategy.Aggressive(now, initial, cfg.Strategy.AggressiveTarget)
		out.Aggressive(r)
		report = r
	}

	path := cfg.Strategy.WSBResults
	if err := storage.WriteJSON(path, report, os.FileMode(cfg.Storage.FilePermissions), os.FileMode(cfg.Storage.DirPermissions)); err != nil {
		return err
	}
	logger.Info("Catalog saved to %s", path)
	return nil
}

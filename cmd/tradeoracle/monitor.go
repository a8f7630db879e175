package main

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/rewired-gh/tradeoracle/internal/monitor"
)

var monitorFlags struct {
	plan     string
	interval time.Duration
	watch    bool
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Watch the shared project plan and report changes",
	RunE:  runMonitor,
}

func init() {
	f := monitorCmd.Flags()
	f.StringVar(&monitorFlags.plan, "plan", "", "Plan file to watch (default from config)")
	f.DurationVar(&monitorFlags.interval, "interval", 0, "Polling interval (default from config)")
	f.BoolVar(&monitorFlags.watch, "watch", false, "Also react to filesystem events between polls")
}

func runMonitor(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	mc := cfg.Monitor
	flags := cmd.Flags()
	if flags.Changed("plan") {
		mc.PlanPath = monitorFlags.plan
	}
	if flags.Changed("interval") {
		mc.Interval = monitorFlags.interval
	}
	if flags.Changed("watch") {
		mc.Watch = monitorFlags.watch
	}

	client, err := newTelegram(cfg)
	if err != nil {
		return err
	}
	var notifier monitor.Notifier
	if client != nil {
		notifier = client
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, err = monitor.New(mc.PlanPath, mc.Interval, mc.Watch, os.Stdout, notifier).Run(ctx)
	return err
}

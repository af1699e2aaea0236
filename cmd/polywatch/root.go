package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/polywatch/config"
)

var (
	configPath string
	verbose    bool
	logFormat  string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "polywatch",
	Short: "Watchlist de traders de Polymarket: PnL, historia y estrategia",
	Long: `polywatch sigue una watchlist de wallets de Polymarket.

Comandos:
  - serve      backend HTTP del dashboard (proxies, pnl-history, refresh)
  - refresh    refresca la watchlist una vez y la imprime
  - history    historia de PnL reconstruida de un wallet
  - classify   estrategia inferida de un wallet
  - search     busca traders por nombre o wallet
  - leaderboard, cycles, watchlist`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config %q: %w", configPath, err)
		}
		if verbose {
			loaded.Log.Level = "debug"
		}
		if logFormat != "" {
			loaded.Log.Format = logFormat
		}
		setupLogger(loaded.Log)
		cfg = loaded

		slog.Debug("polywatch starting", "command", cmd.Name(), "config", configPath)
		return nil
	},
}

func execute() error {
	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "err", err)
		return err
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "set log level to debug")
	rootCmd.PersistentFlags().StringVar(&logFormat, "format", "", "log format: text|json (overrides config)")
}

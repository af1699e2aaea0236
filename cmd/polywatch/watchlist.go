package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Gestiona la watchlist persistida",
}

var watchlistListCmd = &cobra.Command{
	Use:   "list",
	Short: "Imprime la watchlist",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		a.console.PrintWatchlist(a.watchlist.List())
		return nil
	},
}

var (
	addName        string
	addDisplayName string
)

var watchlistAddCmd = &cobra.Command{
	Use:   "add <wallet>",
	Short: "Añade un trader",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		e, err := a.watchlist.Add(cmd.Context(), domain.WatchlistEntry{
			Name:        addName,
			DisplayName: addDisplayName,
			Wallet:      args[0],
		})
		if err != nil {
			return err
		}
		slog.Info("trader added", "wallet", e.Wallet, "name", e.Name, "id", e.ID)
		return nil
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove <wallet>",
	Short: "Quita un trader",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.watchlist.Remove(cmd.Context(), args[0]); err != nil {
			return err
		}
		slog.Info("trader removed", "wallet", args[0])
		return nil
	},
}

var watchlistReplaceCmd = &cobra.Command{
	Use:   "replace <file.json>",
	Short: "Sustituye la watchlist por la de un fichero JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		var entries []domain.WatchlistEntry
		if err := json.Unmarshal(raw, &entries); err != nil {
			return fmt.Errorf("parse %s: %w", args[0], err)
		}

		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.watchlist.Replace(cmd.Context(), entries); err != nil {
			return err
		}
		slog.Info("watchlist replaced", "traders", len(a.watchlist.List()))
		return nil
	},
}

var exportOut string

var watchlistExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Exporta la watchlist como JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := newApp(cmd.Context(), cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		raw, err := a.watchlist.Export()
		if err != nil {
			return err
		}
		if exportOut == "" {
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(raw))
			return err
		}
		if err := os.WriteFile(exportOut, raw, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", exportOut, err)
		}
		slog.Info("watchlist exported", "file", exportOut)
		return nil
	},
}

func init() {
	watchlistAddCmd.Flags().StringVar(&addName, "name", "", "trader name (used for id and profile url)")
	watchlistAddCmd.Flags().StringVar(&addDisplayName, "display-name", "", "display name")
	watchlistExportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default: stdout)")

	watchlistCmd.AddCommand(
		watchlistListCmd,
		watchlistAddCmd,
		watchlistRemoveCmd,
		watchlistReplaceCmd,
		watchlistExportCmd,
	)
	rootCmd.AddCommand(watchlistCmd)
}

package main

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/polywatch/internal/dashboard"
	"github.com/alejandrodnm/polywatch/internal/domain"
)

var (
	refreshQuick  bool
	refreshManual bool
	refreshTable  bool
	refreshThemes bool
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresca la watchlist una vez e imprime el resultado",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{table: refreshTable, notify: !refreshThemes})
		if err != nil {
			return err
		}
		defer a.Close()

		entries := a.watchlist.List()
		progress := make(chan domain.ProgressEvent, len(entries))
		done := make(chan struct{})
		go func() {
			defer close(done)
			for ev := range progress {
				slog.Debug("trader refreshed",
					"completed", ev.Completed,
					"total", ev.Total,
					"name", ev.Name,
				)
			}
		}()

		results, err := a.dashboard.Refresh(ctx, entries, dashboard.RefreshOptions{
			Quick:    refreshQuick,
			Manual:   refreshManual,
			Progress: progress,
		})
		if errors.Is(err, dashboard.ErrRefreshInProgress) {
			close(progress)
		}
		<-done
		if err != nil {
			return err
		}

		if refreshThemes {
			groups := dashboard.GroupByTheme(results)
			a.console.PrintThemes(groups, dashboard.ThemeOrder(groups))
		}
		return nil
	},
}

func init() {
	refreshCmd.Flags().BoolVar(&refreshQuick, "quick", false, "one page of positions + stats per trader")
	refreshCmd.Flags().BoolVar(&refreshManual, "manual", false, "clear response caches before refreshing")
	refreshCmd.Flags().BoolVar(&refreshTable, "table", false, "print full table (default: compact 1-line)")
	refreshCmd.Flags().BoolVar(&refreshThemes, "themes", false, "group traders by market theme")
	rootCmd.AddCommand(refreshCmd)
}

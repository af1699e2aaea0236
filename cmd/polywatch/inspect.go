package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/alejandrodnm/polywatch/internal/domain"
)

var historyCmd = &cobra.Command{
	Use:   "history <wallet>",
	Short: "Imprime la historia de PnL reconstruida de un wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		a.console.PrintHistory(args[0], a.history.Reconstruct(ctx, args[0]))
		return nil
	},
}

var classifyCmd = &cobra.Command{
	Use:   "classify <wallet>",
	Short: "Infiere la estrategia de un wallet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		summary, cl, err := a.dashboard.Classify(ctx, watchlistEntryFor(a, args[0]))
		if err != nil {
			return fmt.Errorf("classify %s: %w", args[0], err)
		}
		a.console.PrintClassification(summary, cl)
		return nil
	},
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Busca traders por nombre o wallet",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		results, err := a.dashboard.SearchTraders(ctx, strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("search: %w", err)
		}
		a.console.PrintSearch(results)
		return nil
	},
}

var (
	lbPeriod    string
	lbCategory  string
	lbLimit     int
	lbMinPnl    float64
	lbMinVolume float64
	lbMaxRank   int
)

var leaderboardCmd = &cobra.Command{
	Use:   "leaderboard",
	Short: "Lista el leaderboard filtrado por umbrales",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		rows, err := a.client.Leaderboard(ctx, domain.LeaderboardQuery{
			TimePeriod: domain.Period(strings.ToUpper(lbPeriod)),
			Category:   strings.ToUpper(lbCategory),
			Limit:      lbLimit,
		})
		if err != nil {
			return fmt.Errorf("leaderboard: %w", err)
		}

		rows = domain.FilterByThresholds(rows, domain.Thresholds{
			MinPnl:    lbMinPnl,
			MinVolume: lbMinVolume,
			MaxRank:   lbMaxRank,
		})
		results := make([]domain.SearchResult, 0, len(rows))
		for _, r := range rows {
			results = append(results, domain.SearchResult{LeaderboardRow: r, Source: domain.SourceLeaderboard})
		}
		a.console.PrintSearch(results)
		return nil
	},
}

var cyclesSince time.Duration

var cyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Muestra los ciclos de refresh registrados",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		a, err := newApp(ctx, cfg, appOptions{})
		if err != nil {
			return err
		}
		defer a.Close()

		cycles, err := a.store.RecentCycles(ctx, time.Now().Add(-cyclesSince))
		if err != nil {
			return err
		}
		a.console.PrintCycles(cycles)
		return nil
	},
}

// watchlistEntryFor devuelve la entrada de la watchlist del wallet o, si no
// está, una entrada mínima con solo el wallet.
func watchlistEntryFor(a *app, wallet string) domain.WatchlistEntry {
	key := domain.NormalizeWallet(wallet)
	for _, e := range a.watchlist.List() {
		if e.WalletKey() == key {
			return e
		}
	}
	return domain.WatchlistEntry{Wallet: wallet}
}

func init() {
	leaderboardCmd.Flags().StringVar(&lbPeriod, "period", "week", "time period: day|week|month|all")
	leaderboardCmd.Flags().StringVar(&lbCategory, "category", "", "market category (default: overall)")
	leaderboardCmd.Flags().IntVar(&lbLimit, "limit", 50, "rows to fetch")
	leaderboardCmd.Flags().Float64Var(&lbMinPnl, "min-pnl", 0, "minimum PnL")
	leaderboardCmd.Flags().Float64Var(&lbMinVolume, "min-volume", 0, "minimum volume")
	leaderboardCmd.Flags().IntVar(&lbMaxRank, "max-rank", 100, "maximum rank")

	cyclesCmd.Flags().DurationVar(&cyclesSince, "since", 24*time.Hour, "how far back to look")

	rootCmd.AddCommand(historyCmd, classifyCmd, searchCmd, leaderboardCmd, cyclesCmd)
}

package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/alejandrodnm/polywatch/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
	now   func() time.Time
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table, now: time.Now}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table, now: time.Now}
}

// Notify imprime los resultados del ciclo ordenados por PnL total.
func (c *Console) Notify(_ context.Context, results []domain.TraderResult) error {
	if len(results) == 0 {
		fmt.Fprintf(c.out, "[%s] watchlist empty\n", c.now().Format("15:04:05"))
		return nil
	}

	sorted := sortByTotalPnL(results)
	if c.table {
		c.printFull(sorted)
	} else {
		c.printCompact(sorted)
	}
	return nil
}

// printCompact imprime una línea con el resumen y el top 4.
func (c *Console) printCompact(results []domain.TraderResult) {
	ok, failed := countFailed(results)

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %d traders → ok:%d failed:%d", c.now().Format("15:04:05"), len(results), ok, failed)

	shown := 0
	for _, r := range results {
		if shown >= 4 {
			break
		}
		if r.Failed() {
			continue
		}
		fmt.Fprintf(&sb, " | %s %s 1W %s",
			compactName(r.Summary.Name, 20),
			money(r.Summary.TotalPnl),
			signedMoney(domain.PnLForTimeframe(r.Summary, domain.Timeframe1W)))
		shown++
	}
	fmt.Fprintln(c.out, sb.String())
}

// printFull imprime la tabla completa del dashboard.
func (c *Console) printFull(results []domain.TraderResult) {
	ok, failed := countFailed(results)
	fmt.Fprintf(c.out, "\n[%s] %d traders — ok:%d failed:%d\n",
		c.now().Format("15:04:05"), len(results), ok, failed)

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Trader", "Wallet", "Total PnL", "1D", "1W", "1M", "Volume", "Pos", "Strategy", "Theme")

	for i, r := range results {
		s := r.Summary
		strategy := "-"
		if r.Strategy != nil {
			strategy = fmt.Sprintf("%s (%d%%)", r.Strategy.Primary.Info().Name, r.Strategy.Confidence)
		}
		if r.Failed() {
			strategy = "ERROR"
		}

		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(s.Name, 24),
			domain.ShortWallet(s.Wallet),
			money(s.TotalPnl),
			signedMoney(domain.PnLForTimeframe(s, domain.Timeframe1D)),
			signedMoney(domain.PnLForTimeframe(s, domain.Timeframe1W)),
			signedMoney(domain.PnLForTimeframe(s, domain.Timeframe1M)),
			money(s.TotalVolume),
			fmt.Sprintf("%d", s.PositionCount),
			strategy,
			topTheme(s.MarketCategories),
		)
	}
	table.Render()

	for _, r := range results {
		if r.Failed() {
			fmt.Fprintf(c.out, "  !! %s: %s\n", r.Entry.Label(), r.Err)
		}
	}
}

// PrintHistory imprime el resumen de las cuatro series de un wallet.
func (c *Console) PrintHistory(wallet string, h domain.History) {
	fmt.Fprintf(c.out, "\nPnL history for %s\n", domain.ShortWallet(wallet))

	table := tablewriter.NewWriter(c.out)
	table.Header("TF", "Points", "From", "To", "Start", "End", "Change")
	for _, tf := range domain.Timeframes() {
		s := h[tf]
		if len(s) == 0 {
			table.Append(string(tf), "0", "-", "-", "-", "-", "-")
			continue
		}
		first, last := s[0], s[len(s)-1]
		table.Append(
			string(tf),
			fmt.Sprintf("%d", len(s)),
			time.UnixMilli(first.Timestamp).UTC().Format("2006-01-02 15:04"),
			time.UnixMilli(last.Timestamp).UTC().Format("2006-01-02 15:04"),
			money(first.PnL),
			money(last.PnL),
			signedMoney(s.Change()),
		)
	}
	table.Render()
}

// PrintClassification imprime los scores por arquetipo, de mayor a menor.
func (c *Console) PrintClassification(s domain.TraderSummary, cl domain.Classification) {
	primary := cl.Primary.Info()
	fmt.Fprintf(c.out, "\n%s (%s)\n", s.Name, domain.ShortWallet(s.Wallet))
	fmt.Fprintf(c.out, "  Primary:    %s (confidence %d%%)\n", primary.Name, cl.Confidence)
	fmt.Fprintf(c.out, "              %s\n", primary.Description)
	if cl.Secondary != nil {
		fmt.Fprintf(c.out, "  Secondary:  %s\n", cl.Secondary.Info().Name)
	}

	kinds := domain.StrategyKinds()
	sort.SliceStable(kinds, func(i, j int) bool {
		return cl.Scores[kinds[i]] > cl.Scores[kinds[j]]
	})

	table := tablewriter.NewWriter(c.out)
	table.Header("Strategy", "Score")
	for _, k := range kinds {
		table.Append(k.Info().Name, fmt.Sprintf("%d", cl.Scores[k]))
	}
	table.Render()
}

// PrintSearch imprime los candidatos de una búsqueda.
func (c *Console) PrintSearch(results []domain.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(c.out, "\n  No traders found.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "User", "Wallet", "PnL", "Volume", "Rank", "Source")
	for i, r := range results {
		rank := "-"
		if r.Rank != nil {
			rank = fmt.Sprintf("%d", *r.Rank)
		}
		source := string(r.Source)
		if r.PositionCount > 0 {
			source += fmt.Sprintf(" (%d pos)", r.PositionCount)
		}
		table.Append(
			fmt.Sprintf("%d", i+1),
			truncate(r.UserName, 24),
			r.Wallet,
			money(r.PnL),
			money(r.Volume),
			rank,
			source,
		)
	}
	table.Render()
}

// PrintThemes imprime los traders agrupados por tema, en el orden dado.
func (c *Console) PrintThemes(groups map[string][]domain.TraderResult, order []string) {
	if len(order) == 0 {
		fmt.Fprintln(c.out, "\n  No themed positions.")
		return
	}

	for _, theme := range order {
		g := groups[theme]
		fmt.Fprintf(c.out, "\n  %s (%d)\n", strings.ToUpper(theme), len(g))
		table := tablewriter.NewWriter(c.out)
		table.Header("Trader", "Total PnL", "Pos", "Value")
		for _, r := range g {
			stat := r.Summary.MarketCategories[theme]
			table.Append(
				truncate(r.Summary.Name, 24),
				signedMoney(r.Summary.TotalPnl),
				fmt.Sprintf("%d", stat.Count),
				money(stat.Value),
			)
		}
		table.Render()
	}
}

// PrintWatchlist imprime la watchlist.
func (c *Console) PrintWatchlist(entries []domain.WatchlistEntry) {
	if len(entries) == 0 {
		fmt.Fprintln(c.out, "\n  Watchlist is empty.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Name", "Display", "Wallet", "Joined")
	for i, e := range entries {
		table.Append(fmt.Sprintf("%d", i+1), e.Name, e.DisplayName, e.Wallet, e.JoinDate)
	}
	table.Render()
}

// PrintCycles imprime el histórico de ciclos de refresh.
func (c *Console) PrintCycles(cycles []domain.RefreshCycle) {
	if len(cycles) == 0 {
		fmt.Fprintln(c.out, "\n  No refresh cycles recorded.")
		return
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Started", "Mode", "Traders", "Failed", "Best", "Best PnL", "Took")
	for _, cy := range cycles {
		mode := "full"
		if cy.Quick {
			mode = "quick"
		}
		table.Append(
			cy.StartedAt.Local().Format("01-02 15:04:05"),
			mode,
			fmt.Sprintf("%d", cy.Traders),
			fmt.Sprintf("%d", cy.Failed),
			domain.ShortWallet(cy.BestWallet),
			money(cy.BestPnL),
			cy.Duration.Round(time.Millisecond).String(),
		)
	}
	table.Render()
}

// --- helpers ---

func sortByTotalPnL(results []domain.TraderResult) []domain.TraderResult {
	out := make([]domain.TraderResult, len(results))
	copy(out, results)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Summary.TotalPnl > out[j].Summary.TotalPnl
	})
	return out
}

func countFailed(results []domain.TraderResult) (ok, failed int) {
	for _, r := range results {
		if r.Failed() {
			failed++
		} else {
			ok++
		}
	}
	return
}

// topTheme es la categoría con más valor expuesto.
func topTheme(cats map[string]domain.CategoryStat) string {
	best, bestValue := "-", -1.0
	for _, mc := range domain.MarketCategories() {
		if st, ok := cats[mc.Key]; ok && st.Count > 0 && st.Value > bestValue {
			best, bestValue = mc.Name, st.Value
		}
	}
	if st, ok := cats[domain.CategoryOther]; ok && st.Count > 0 && st.Value > bestValue {
		best = "Other"
	}
	return best
}

func money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	var s string
	switch {
	case v >= 1e6:
		s = fmt.Sprintf("$%.2fM", v/1e6)
	case v >= 1e3:
		s = fmt.Sprintf("$%.1fK", v/1e3)
	default:
		s = fmt.Sprintf("$%.2f", v)
	}
	if neg {
		return "-" + s
	}
	return s
}

func signedMoney(v float64) string {
	if v > 0 {
		return "+" + money(v)
	}
	return money(v)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func compactName(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := s[:maxLen]
	if idx := strings.LastIndex(cut, " "); idx > maxLen/2 {
		cut = cut[:idx]
	}
	return cut + "…"
}

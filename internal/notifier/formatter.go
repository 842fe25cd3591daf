package notifier

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"BidSentinel/internal/model"
)

// coins formats an amount with thousands separators.
func coins(n int) string { return humanize.Comma(int64(n)) }

// FormatWin formats a won or bought item.
func FormatWin(entry *model.LedgerEntry) string {
	verb := "Won auction"
	if entry.Mode == model.ModeBuyNow {
		verb = "Bought now"
	}
	return fmt.Sprintf("🏆 <b>%s</b>\n%s for %s coins (trade %d)", verb, entry.Name, coins(entry.Price), entry.TradeID)
}

// FormatThrottle formats a cooldown notice.
func FormatThrottle(count int, wait time.Duration) string {
	return fmt.Sprintf("⏸ <b>Action quota reached</b> (%d actions)\nResuming in %s", count, wait.Round(time.Second))
}

// FormatStatus formats the loop status for display.
func FormatStatus(st *model.Status) string {
	var b strings.Builder
	b.WriteString("📦 <b>Trading status</b>\n\n")
	b.WriteString(fmt.Sprintf("State: %s", st.State))
	if st.Mode != "" {
		b.WriteString(fmt.Sprintf(" (%s)", st.Mode))
	}
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Trading enabled: %v\n", st.Enabled))
	b.WriteString(fmt.Sprintf("Balance: %s (limit %s)\n", coins(st.Balance), coins(st.CoinLimit)))
	b.WriteString(fmt.Sprintf("Actions: %d/%d since %s\n", st.ActionCount, st.ActionLimit, st.WindowStart.Format("15:04")))
	b.WriteString(fmt.Sprintf("Watch list: %d (next expiry %ds)\n", st.WatchListSize, st.NextExpiry))
	b.WriteString(fmt.Sprintf("Targets: %d | Items won: %d\n", st.Targets, st.LedgerSize))
	if !st.LastCycleAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last cycle: %s\n", humanize.Time(st.LastCycleAt)))
	}
	if st.LastError != "" {
		b.WriteString(fmt.Sprintf("Last error: %s\n", st.LastError))
	}
	return b.String()
}

// FormatLedger formats the most recent ledger entries, newest last.
func FormatLedger(entries []model.LedgerEntry, limit int) string {
	if len(entries) == 0 {
		return "No items won yet."
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}
	var b strings.Builder
	total := 0
	for _, e := range entries {
		total += e.Price
		b.WriteString(fmt.Sprintf("%s %s: %s (%s)\n", e.ResolvedAt.Format("15:04"), e.Name, coins(e.Price), e.Mode))
	}
	b.WriteString(fmt.Sprintf("Total: %s coins over %d items", coins(total), len(entries)))
	return b.String()
}

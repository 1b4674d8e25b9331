package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"MarketSizer/internal/engine"
	"MarketSizer/internal/model"
	"MarketSizer/internal/recorder"
)

// Money formats a currency amount with thousands separators, e.g. "$65,000,000".
func Money(v float64) string {
	if v < 0 {
		return "-$" + humanize.Commaf(math.Round(-v))
	}
	return "$" + humanize.Commaf(math.Round(v))
}

func pct(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

// FormatBatchReport formats a batch run into a Telegram message.
func FormatBatchReport(scenario, runID string, at time.Time, report *engine.BatchReport) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>Revenue estimates</b> | %s\n", at.Format("2006-01-02 15:04")))
	if scenario != "" {
		b.WriteString(fmt.Sprintf("Scenario: %s\n", html.EscapeString(scenario)))
	}
	b.WriteString(fmt.Sprintf("Run: <code>%s</code>\n\n", runID))

	if len(report.Outcomes) == 0 {
		b.WriteString("No companies needed an estimate.\n")
		return b.String()
	}

	for _, o := range report.Outcomes {
		name := html.EscapeString(o.Company)
		if o.Err != nil {
			b.WriteString(fmt.Sprintf("❌ %s (%s): %s\n", name, html.EscapeString(o.Sector), html.EscapeString(o.Err.Error())))
			continue
		}
		est := o.Estimate
		line := fmt.Sprintf("✅ %s: %s [%s/%s]", name, Money(est.Revenue), est.Source, est.Confidence)
		if est.Weight != nil {
			line += fmt.Sprintf(" w=%.2f", est.Weight.Total)
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("  ─────────────────\n")
	b.WriteString(fmt.Sprintf("  Estimated: %d | Failed: %d", report.Succeeded, report.Failed))
	if n := report.BudgetFailures(); n > 0 {
		b.WriteString(fmt.Sprintf(" (%d over budget)", n))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatComposition formats the X/Z split of a sector.
func FormatComposition(c *model.Composition) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🏭 <b>%s</b>\n\n", html.EscapeString(c.Sector)))
	b.WriteString(fmt.Sprintf("Total market (Y): %s\n", Money(c.TotalMarket)))
	b.WriteString(fmt.Sprintf("Major players (X): %s (%s)\n", Money(c.KnownRevenue), pct(c.KnownShare)))
	b.WriteString(fmt.Sprintf("Remaining market (Z): %s (%s)\n", Money(c.Residual), pct(c.ResidualShare)))

	if len(c.KnownPlayers) > 0 {
		b.WriteString("\n<b>Major players:</b>\n")
		for _, p := range c.KnownPlayers {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(p.Name), Money(p.Revenue)))
		}
	}
	return b.String()
}

// FormatSectorList formats the registered sectors.
func FormatSectorList(sectors []string) string {
	if len(sectors) == 0 {
		return "No market data configured yet."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Sectors</b>\n\n")
	for _, s := range sectors {
		b.WriteString("• " + html.EscapeString(s) + "\n")
	}
	return b.String()
}

// FormatRecentRuns formats the run history.
func FormatRecentRuns(runs []recorder.RunSummary) string {
	if len(runs) == 0 {
		return "No runs recorded."
	}
	var b strings.Builder
	b.WriteString("🗂 <b>Recent runs</b>\n\n")
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s  %s  ✅%d ❌%d\n",
			r.StartedAt.Format("2006-01-02 15:04"), html.EscapeString(r.Scenario), r.Succeeded, r.Failed))
	}
	return b.String()
}

package notifier

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"HedgeMirror/internal/model"
)

// FormatComparison formats the period-by-period comparison into a Telegram message.
func FormatComparison(cmp *model.Comparison, warnings []model.Warning) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s</b> vs %s | %s\n\n",
		html.EscapeString(cmp.Fund), html.EscapeString(cmp.Benchmark), time.Now().Format("2006-01-02")))

	single := len(cmp.Approaches) == 1
	for _, r := range cmp.Rows {
		b.WriteString(fmt.Sprintf("<b>%s</b> (%s)\n", r.Period, r.EvalDate.Format("2006-01-02")))
		for _, a := range cmp.Approaches {
			b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(a), pct(r.Returns[a])))
		}
		b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(cmp.Benchmark), pct(r.Benchmark)))
		if single && model.Defined(r.Outperformance) {
			mark := "🟢"
			if r.Outperformance < 0 {
				mark = "🔴"
			}
			b.WriteString(fmt.Sprintf("  %s outperformance: %s\n", mark, pct(r.Outperformance)))
		}
	}

	if len(warnings) > 0 {
		b.WriteString("\n⚠️ <b>Excluded tickers:</b>\n")
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  %s\n", html.EscapeString(w.String())))
		}
	}
	return b.String()
}

// FormatGrowth formats the final value of each growth column.
func FormatGrowth(g *model.Growth) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("💰 <b>Growth of %s</b>\n", dollars(g.Principal)))
	if len(g.Rows) == 0 {
		b.WriteString("  no periods\n")
		return b.String()
	}
	last := g.Rows[len(g.Rows)-1]
	b.WriteString(fmt.Sprintf("as of %s\n", last.EvalDate.Format("2006-01-02")))
	for _, c := range g.Columns {
		b.WriteString(fmt.Sprintf("  %s: %s\n", html.EscapeString(c), dollars(last.Values[c])))
	}
	return b.String()
}

// FormatSummary formats per-column statistics.
func FormatSummary(stats []model.ColumnStats) string {
	var b strings.Builder
	b.WriteString("📈 <b>Summary</b>\n")
	for _, s := range stats {
		b.WriteString(fmt.Sprintf("  %s: %d periods, mean %s, σ %s, total %s",
			html.EscapeString(s.Column), s.Periods, pct(s.MeanPct), pct(s.StdDevPct), pct(s.CumulativePct)))
		if model.Defined(s.HitRate) {
			b.WriteString(fmt.Sprintf(", beat benchmark %.0f%%", s.HitRate*100))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FormatFunds lists the configured funds.
func FormatFunds(names []string) string {
	if len(names) == 0 {
		return "No funds configured."
	}
	var b strings.Builder
	b.WriteString("📦 <b>Funds</b>\n")
	for _, n := range names {
		b.WriteString(fmt.Sprintf("  • %s\n", html.EscapeString(n)))
	}
	return b.String()
}

func pct(x float64) string {
	if !model.Defined(x) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", x)
}

func dollars(x float64) string {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return "n/a"
	}
	return money.NewFromFloat(x, money.USD).Display()
}
